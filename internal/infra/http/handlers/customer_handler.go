package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

type CustomerHandler struct {
	Customers *database.CustomerRepository
}

func NewCustomerHandler(customers *database.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{Customers: customers}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var ownerFilter *int64
	if p.Role == entity.RoleSales {
		ownerFilter = &p.UserID
	}

	customers, err := h.Customers.List(r.Context(), ownerFilter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.Customers.Details(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var c entity.Customer
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	c.OwnerID = p.UserID

	if err := h.Customers.Create(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	// Only the owner or a sales manager can edit.
	ownerID, err := h.Customers.OwnerID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if p.UserID != ownerID && p.Role != entity.RoleSalesManager {
		writeError(w, apperr.New(apperr.CodeForbidden, "Forbidden: You do not have permission to edit this customer."))
		return
	}

	var c entity.Customer
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	c.ID = id

	if err := h.Customers.Update(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Customers.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Customer deleted"})
}
