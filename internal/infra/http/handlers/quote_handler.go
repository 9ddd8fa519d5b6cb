package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/internal/usecase"
)

type QuoteHandler struct {
	Quotes        *database.QuoteRepository
	CreateQuoteUC *usecase.CreateQuoteUseCase
}

func NewQuoteHandler(quotes *database.QuoteRepository, createQuoteUC *usecase.CreateQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{Quotes: quotes, CreateQuoteUC: createQuoteUC}
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Quotes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

// Create writes the quote, its line items and a follow-up task for the
// caller in one transaction.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var input usecase.CreateQuoteInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.CreateQuoteUC.Execute(r.Context(), p.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
