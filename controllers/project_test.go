package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectAssignment(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, env.designer, http.MethodPost, "/api/projects", map[string]any{"title": "Office"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, created := env.do(t, env.customer, http.MethodPost, "/api/projects", map[string]any{"title": "Office", "city": "Pune", "budget": "500000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "open", created["status"])
	id := created["id"].(string)

	w, _ = env.do(t, env.other, http.MethodGet, "/api/projects/"+id, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, env.customer, http.MethodPut, "/api/projects/"+id+"/assign", map[string]any{"designerId": env.customer.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "customers cannot be assigned")

	w, _ = env.do(t, env.other, http.MethodPut, "/api/projects/"+id+"/assign", map[string]any{"designerId": env.other.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, assigned := env.do(t, env.customer, http.MethodPut, "/api/projects/"+id+"/assign", map[string]any{"designerId": env.other.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "assigned", assigned["status"])
	assert.Equal(t, env.other.ID.String(), assigned["designerId"])

	w, _ = env.do(t, env.other, http.MethodGet, "/api/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := env.quoteBody()
	body["projectId"] = id
	w, _ = env.do(t, env.designer, http.MethodPost, "/api/quotes", body)
	assert.Equal(t, http.StatusForbidden, w.Code, "quotes need the assigned designer")

	w, _ = env.do(t, env.other, http.MethodPost, "/api/quotes", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
