package controllers

import (
	"net/http"
	"testing"

	"designhub-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)

	w, payload := env.do(t, env.customer, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, env.customer.ID.String(), payload["id"])
	assert.NotNil(t, payload["lastLogin"])

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", env.customer.ID).Error)
	assert.NotNil(t, stored.LastLogin)

	unknown := models.User{ID: uuid.New(), Role: models.RoleCustomer}
	w, _ = env.do(t, unknown, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)

	w, payload := env.do(t, env.designer, http.MethodPut, "/api/profile", map[string]any{
		"name": " Asha Rao ", "email": "Asha@Example.com", "phone": "+91 98765-43210",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Asha Rao", payload["name"])
	assert.Equal(t, "asha@example.com", payload["email"])
	assert.Equal(t, "+919876543210", payload["phone"])
	assert.Equal(t, "designer", payload["role"])

	w, _ = env.do(t, env.designer, http.MethodPut, "/api/profile", map[string]any{
		"name": "Asha", "email": "asha@example.com", "phone": "call me",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, env.designer, http.MethodPut, "/api/profile", map[string]any{"name": "Asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProfileCreatesMissingUser(t *testing.T) {
	env := newTestEnv(t)
	newcomer := models.User{ID: uuid.New(), Role: models.RoleCustomer}

	w, payload := env.do(t, newcomer, http.MethodPut, "/api/profile", map[string]any{
		"name": "Kiran", "email": "kiran@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, newcomer.ID.String(), payload["id"])
	assert.Equal(t, "customer", payload["role"])

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", newcomer.ID).Error)
	assert.Equal(t, "Kiran", stored.Name)
}
