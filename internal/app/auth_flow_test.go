package app_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userBody struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	IsActive      bool   `json:"is_active"`
	IsSystemAdmin bool   `json:"is_system_admin"`
}

func TestAuthFlow(t *testing.T) {
	clearTables()

	admin := newActor(t, "admin@example.com", true)
	var registered userBody

	t.Run("Register: Success", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/register", map[string]any{
			"email": "New.Host@Example.com", "password": "password123", "display_name": "New Host",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		registered = decode[struct {
			User userBody `json:"user"`
		}](t, w).User
		assert.Equal(t, "new.host@example.com", registered.Email)
		assert.False(t, registered.IsSystemAdmin)
	})

	t.Run("Register: Fail (Duplicate email)", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/register", map[string]any{
			"email": "new.host@example.com", "password": "password123", "display_name": "Again",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Login: Fail (Wrong password)", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/login", map[string]any{"email": "new.host@example.com", "password": "nope-nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login: Success and Me", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/login", map[string]any{"email": "new.host@example.com", "password": "password123"}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token := decode[struct {
			AccessToken string `json:"access_token"`
		}](t, w).AccessToken
		require.NotEmpty(t, token)

		w = executeRequest(http.MethodGet, "/v1/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, registered.ID, decode[struct {
			User userBody `json:"user"`
		}](t, w).User.ID)
	})

	t.Run("Me: Fail (No token)", func(t *testing.T) {
		w := executeRequest(http.MethodGet, "/v1/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Admin: Deactivated user cannot log in", func(t *testing.T) {
		w := executeRequest(http.MethodPatch, "/v1/users/"+registered.ID, map[string]any{"is_active": false}, admin.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = executeRequest(http.MethodPost, "/v1/auth/login", map[string]any{"email": "new.host@example.com", "password": "password123"}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin: Fail (Member lists users)", func(t *testing.T) {
		member := newActor(t, "member@example.com", false)
		w := executeRequest(http.MethodGet, "/v1/users", nil, member.Token)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = executeRequest(http.MethodGet, "/v1/users", nil, admin.Token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
