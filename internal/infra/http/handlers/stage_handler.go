package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/infra/database"
)

type StageHandler struct {
	Stages *database.StageRepository
}

func NewStageHandler(stages *database.StageRepository) *StageHandler {
	return &StageHandler{Stages: stages}
}

func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	stages, err := h.Stages.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stages)
}
