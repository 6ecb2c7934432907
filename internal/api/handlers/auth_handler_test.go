package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiinfotech/catalog-be/internal/models"
)

func TestSetup(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/auth/setup", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Setup is one-shot: a second call conflicts.
	w = env.doJSON(t, http.MethodPost, "/api/auth/setup", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Admin user already exists", resp["message"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/auth/setup", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": testAdminUsername,
			"password": testAdminPassword,
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		decodeJSON(t, w, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, testAdminUsername, resp.User.Username)
		assert.True(t, resp.User.MustChangePassword)
		assert.NotContains(t, w.Body.String(), "passwordHash")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": testAdminUsername,
			"password": "wrong",
		}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "nobody",
			"password": testAdminPassword,
		}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.doJSON(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	decodeJSON(t, w, &user)
	assert.Equal(t, testAdminUsername, user.Username)

	w = env.doJSON(t, http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	t.Run("wrong current password", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/change-password", map[string]string{
			"currentPassword": "wrong",
			"newPassword":     "brand-new-pass",
		}, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty new password", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/change-password", map[string]string{
			"currentPassword": testAdminPassword,
			"newPassword":     "",
		}, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("successful change", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/auth/change-password", map[string]string{
			"currentPassword": testAdminPassword,
			"newPassword":     "brand-new-pass",
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		// The forced-change flag is cleared.
		w = env.doJSON(t, http.MethodGet, "/api/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		var user models.User
		decodeJSON(t, w, &user)
		assert.False(t, user.MustChangePassword)

		// Old password no longer works, the new one does.
		w = env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": testAdminUsername,
			"password": testAdminPassword,
		}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w = env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": testAdminUsername,
			"password": "brand-new-pass",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
	})
}
