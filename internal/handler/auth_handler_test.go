package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/models"
)

func TestAuthRegisterLoginProfile(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "Ada Student",
		"email":     "ada@example.com",
		"password":  "hunter22",
	}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registered struct {
		Data dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &registered)
	require.Equal(t, models.RoleStudent, registered.Data.Role)

	// Duplicate registration conflicts.
	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "Ada Again",
		"email":     "ada@example.com",
		"password":  "different",
	}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "hunter22",
	}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		Data dto.AuthResponse `json:"data"`
	}
	decodeResponse(t, resp, &login)

	resp, err = app.Test(jsonRequest(t, "GET", "/api/v1/auth/profile", nil, login.Data.Token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile struct {
		Data dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &profile)
	require.Equal(t, registered.Data.ID, profile.Data.ID)
	require.Equal(t, "ada@example.com", profile.Data.Email)

	resp, err = app.Test(jsonRequest(t, "GET", "/api/v1/auth/profile", nil, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserAdminRoleUpdate(t *testing.T) {
	app, db := setupApp(t)

	adminToken, _ := registerAndLogin(t, app, db, "admin@example.com", models.RoleAdmin)
	_, studentID := registerAndLogin(t, app, db, "student@example.com", models.RoleStudent)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/v1/admin/users", nil, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var users struct {
		Data []dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &users)
	require.Len(t, users.Data, 2)

	resp, err = app.Test(jsonRequest(t, "PATCH", "/api/v1/admin/users/"+uintString(studentID)+"/role", map[string]string{
		"role": models.RoleAdmin,
	}, adminToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated struct {
		Data dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &updated)
	require.Equal(t, models.RoleAdmin, updated.Data.Role)
}
