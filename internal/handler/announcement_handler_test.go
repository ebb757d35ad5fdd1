package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/models"
)

func TestAnnouncementCrudAndOrdering(t *testing.T) {
	app, db := setupApp(t)

	adminToken, _ := registerAndLogin(t, app, db, "admin@example.com", models.RoleAdmin)
	studentToken, _ := registerAndLogin(t, app, db, "student@example.com", models.RoleStudent)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/admin/announcements", map[string]interface{}{
		"title":   "Welcome",
		"content": "<script>alert('x')</script><p>First week</p>",
	}, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.AnnouncementResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.Equal(t, "<p>First week</p>", created.Data.Content)
	require.Equal(t, "Test User", created.Data.AuthorName)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/admin/announcements", map[string]interface{}{
		"title":   "Exam schedule",
		"content": "Pinned notice",
		"pinned":  true,
	}, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Students read announcements pinned-first.
	resp, err = app.Test(jsonRequest(t, "GET", "/api/v1/announcements", nil, studentToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list struct {
		Data []dto.AnnouncementResponse `json:"data"`
	}
	decodeResponse(t, resp, &list)
	require.Len(t, list.Data, 2)
	require.Equal(t, "Exam schedule", list.Data[0].Title)

	// Students cannot write.
	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/admin/announcements", map[string]interface{}{
		"title":   "Nope",
		"content": "x",
	}, studentToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "DELETE", "/api/v1/admin/announcements/"+uintString(created.Data.ID), nil, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "DELETE", "/api/v1/admin/announcements/"+uintString(created.Data.ID), nil, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
