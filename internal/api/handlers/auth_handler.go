package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/saiinfotech/catalog-be/internal/auth"
	"github.com/saiinfotech/catalog-be/internal/services"
)

// AuthHandler handles HTTP requests for login, bootstrap setup and password
// changes.
type AuthHandler struct {
	users  services.UserServiceProvider
	events services.EventServiceProvider
	tokens *auth.Auth

	// Bootstrap credentials for the one-time setup endpoint, supplied via
	// configuration rather than baked into the binary.
	adminUsername string
	adminPassword string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, events services.EventServiceProvider, tokens *auth.Auth, adminUsername, adminPassword string) *AuthHandler {
	return &AuthHandler{
		users:         users,
		events:        events,
		tokens:        tokens,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles admin authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate JWT")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.events.Record("auth.login", "info", "Admin "+user.Username+" logged in", nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record login event")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Setup creates the bootstrap admin account if it does not exist yet. The
// account starts with a forced password change pending.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	_, err := h.users.CreateAdmin(h.adminUsername, h.adminPassword)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			writeError(w, http.StatusBadRequest, "Admin user already exists")
			return
		}
		log.Error().Err(err).Msg("Failed to create admin user")
		writeError(w, http.StatusInternalServerError, "Failed to create admin user")
		return
	}

	if err := h.events.Record("auth.setup", "info", "Bootstrap admin account created", nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record setup event")
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin user created successfully"})
}

// Me retrieves the currently authenticated user from the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", claims.UserID).Msg("User from token not found in DB")
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ChangePassword handles changing the authenticated user's password. A
// successful change clears the forced-change flag set at setup.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	err := h.users.UpdatePassword(claims.UserID, payload.CurrentPassword, payload.NewPassword)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, "New password is required")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
	case err != nil:
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to change password")
		writeError(w, http.StatusInternalServerError, "Failed to change password")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}
