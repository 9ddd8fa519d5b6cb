package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jpereira88/pipecrm/internal/infra/auth"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

type AuthHandler struct {
	Users  *database.UserRepository
	Roles  *database.RoleRepository
	Tokens *auth.TokenManager
}

func NewAuthHandler(users *database.UserRepository, roles *database.RoleRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{Users: users, Roles: roles, Tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid credentials"})
			return
		}
		writeError(w, err)
		return
	}

	// First login: the user still has to set a password.
	if !user.IsSetupComplete {
		writeJSON(w, http.StatusOK, map[string]any{
			"setupRequired": true,
			"userId":        user.ID,
		})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid credentials"})
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.RoleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type completeSetupRequest struct {
	UserID   int64  `json:"userId"`
	Password string `json:"password"`
}

func (h *AuthHandler) CompleteSetup(w http.ResponseWriter, r *http.Request) {
	var req completeSetupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Password must be at least 6 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Users.CompleteSetup(r.Context(), req.UserID, hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Setup complete. Please log in."})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	user, err := h.Users.FindByID(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.RoleID,
	})
}

// Permissions returns the flat permission list for a role; the SPA uses it
// to decide which navigation entries to show.
func (h *AuthHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "roleId")
	perms, err := h.Roles.Permissions(r.Context(), roleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perms)
}
