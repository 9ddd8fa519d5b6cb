package handlers

import (
	"log"
	"net/http"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/auth"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

// InviteMailer is what UserHandler needs from the mail layer.
type InviteMailer interface {
	SendInvite(to, name, loginURL string) error
}

type UserHandler struct {
	Users    *database.UserRepository
	Roles    *database.RoleRepository
	Mailer   InviteMailer
	LoginURL string
}

func NewUserHandler(users *database.UserRepository, roles *database.RoleRepository, mailer InviteMailer, loginURL string) *UserHandler {
	return &UserHandler{Users: users, Roles: roles, Mailer: mailer, LoginURL: loginURL}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID string `json:"role"`
}

// Create registers a user with no password. They receive an invite mail
// and set their own password on first login.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" || req.Email == "" || req.RoleID == "" {
		writeError(w, apperr.New(apperr.CodeValidation, "name, email and role are required"))
		return
	}

	user := entity.User{
		Name:   req.Name,
		Email:  req.Email,
		RoleID: req.RoleID,
		Status: "active",
	}
	if err := h.Users.Create(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}

	if h.Mailer != nil {
		if err := h.Mailer.SendInvite(user.Email, user.Name, h.LoginURL); err != nil {
			log.Printf("invite mail to %s failed: %v", user.Email, err)
		}
	}
	writeJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	RoleID string `json:"role"`
	Status string `json:"status"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Users.UpdateRoleAndStatus(r.Context(), id, req.RoleID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if id == p.UserID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Use the profile page to change your own password"})
		return
	}

	var req resetPasswordRequest
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
	if err := h.Users.UpdatePassword(r.Context(), id, hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Password reset"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if id == p.UserID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "You cannot delete your own account"})
		return
	}

	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "User deleted"})
}
