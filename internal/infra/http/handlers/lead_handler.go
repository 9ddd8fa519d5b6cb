package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/internal/usecase"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

type LeadHandler struct {
	Leads     *database.LeadRepository
	ConvertUC *usecase.ConvertLeadUseCase
}

func NewLeadHandler(leads *database.LeadRepository, convertUC *usecase.ConvertLeadUseCase) *LeadHandler {
	return &LeadHandler{Leads: leads, ConvertUC: convertUC}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var ownerFilter *int64
	if !p.OwnsAllRows() {
		ownerFilter = &p.UserID
	}

	leads, err := h.Leads.List(r.Context(), ownerFilter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	lead, err := h.Leads.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var lead entity.Lead
	if err := decodeBody(r, &lead); err != nil {
		writeError(w, err)
		return
	}
	// New leads always belong to the caller.
	lead.OwnerID = p.UserID
	if lead.Status == "" {
		lead.Status = entity.LeadStatusNew
	}

	if err := h.Leads.Create(r.Context(), &lead); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var lead entity.Lead
	if err := decodeBody(r, &lead); err != nil {
		writeError(w, err)
		return
	}
	lead.ID = id

	// The converted state is owned by the conversion transaction; a plain
	// edit cannot set it.
	if lead.Status == entity.LeadStatusConverted {
		writeError(w, apperr.New(apperr.CodeValidation, "leads are converted via the convert operation"))
		return
	}

	if err := h.Leads.Update(r.Context(), &lead); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Leads.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Lead deleted"})
}

// Convert turns a lead into a customer and a deal, once.
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var input usecase.ConvertLeadInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.ConvertUC.Execute(r.Context(), id, input)
	if err != nil {
		middleware.RecordConversionFailure(string(apperr.CodeOf(err)))
		writeError(w, err)
		return
	}

	middleware.RecordLeadConversion()
	writeJSON(w, http.StatusCreated, map[string]any{
		"msg":        "Lead converted successfully",
		"customerId": out.CustomerID,
	})
}
