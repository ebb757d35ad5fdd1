package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/models"
)

func TestStudentDashboardEndpoint(t *testing.T) {
	app, db := setupApp(t)

	adminToken, _ := registerAndLogin(t, app, db, "admin@example.com", models.RoleAdmin)
	studentToken, _ := registerAndLogin(t, app, db, "student@example.com", models.RoleStudent)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/admin/exercises", map[string]interface{}{
		"title":        "FizzBuzz",
		"difficulty":   "easy",
		"is_published": true,
		"criteria": []map[string]interface{}{
			{"label": "Correctness", "max_points": 10},
		},
	}, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.ExerciseResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)

	resp, err = app.Test(jsonRequest(t, "PUT", "/api/v1/exercises/"+uintString(created.Data.ID)+"/submission", map[string]string{
		"main_code": "fun main() {}",
	}, studentToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "GET", "/api/v1/dashboard", nil, studentToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dashboard struct {
		Data dto.StudentDashboardResponse `json:"data"`
	}
	decodeResponse(t, resp, &dashboard)
	require.Equal(t, 1, dashboard.Data.Summary.TotalExercises)
	require.Equal(t, 1, dashboard.Data.Summary.Submitted)
	require.Equal(t, 0, dashboard.Data.Summary.Graded)
	require.Len(t, dashboard.Data.Exercises, 1)
	require.Equal(t, dto.ProgressStatusPending, dashboard.Data.Exercises[0].Status)
}
