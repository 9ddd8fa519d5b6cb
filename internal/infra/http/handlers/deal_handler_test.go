package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/usecase"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

// stubStageRepo knows the five seeded stages.
type stubStageRepo struct{}

func (s *stubStageRepo) FindByName(ctx context.Context, name string) (*entity.DealStage, error) {
	stages := map[string]int64{"new": 1, "qualifying": 2, "proposal": 3, "won": 4, "lost": 5}
	id, ok := stages[name]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "Stage not found")
	}
	return &entity.DealStage{ID: id, Name: name}, nil
}

type stubDealRepo struct {
	deal *entity.Deal
}

func (s *stubDealRepo) UpdateStage(ctx context.Context, dealID, stageID int64) (*entity.Deal, error) {
	if s.deal == nil || s.deal.ID != dealID {
		return nil, apperr.New(apperr.CodeNotFound, "Deal not found")
	}
	out := *s.deal
	out.StageID = stageID
	return &out, nil
}

func newStageRouter(deals usecase.DealRepositoryInterface) *chi.Mux {
	uc := usecase.NewSetDealStageUseCase(deals, &stubStageRepo{}, nil)
	h := NewDealHandler(nil, uc)

	r := chi.NewRouter()
	r.Put("/api/deals/{id}/stage", h.SetStage)
	return r
}

func TestSetStageEndpointSuccess(t *testing.T) {
	deals := &stubDealRepo{deal: &entity.Deal{ID: 15, Name: "Acme expansion", OwnerID: 3, Value: 5000, StageName: "proposal"}}
	router := newStageRouter(deals)

	req := httptest.NewRequest(http.MethodPut, "/api/deals/15/stage",
		strings.NewReader(`{"newStage": "proposal"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var deal entity.Deal
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
	assert.Equal(t, int64(15), deal.ID)
	assert.Equal(t, int64(3), deal.StageID)
}

func TestSetStageEndpointInvalidStage(t *testing.T) {
	deals := &stubDealRepo{deal: &entity.Deal{ID: 15}}
	router := newStageRouter(deals)

	req := httptest.NewRequest(http.MethodPut, "/api/deals/15/stage",
		strings.NewReader(`{"newStage": "negotiation"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid stage name", body["error"])
}

func TestSetStageEndpointDealNotFound(t *testing.T) {
	router := newStageRouter(&stubDealRepo{})

	req := httptest.NewRequest(http.MethodPut, "/api/deals/999/stage",
		strings.NewReader(`{"newStage": "won"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
