package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/infra/auth"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
)

type ProfileHandler struct {
	Users *database.UserRepository
}

func NewProfileHandler(users *database.UserRepository) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), p.UserID, req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.NewPassword) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Password must be at least 6 characters"})
		return
	}

	user, err := h.Users.FindByID(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), p.UserID, hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Password updated"})
}
