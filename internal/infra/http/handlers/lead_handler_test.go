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

// stubTx serves the conversion flow with canned rows. Only the methods the
// flow touches have real behavior.
type stubTx struct {
	lead       *entity.Lead
	leadErr    error
	customerID int64
	reused     bool
}

func (s *stubTx) LeadForUpdate(ctx context.Context, id int64) (*entity.Lead, error) {
	return s.lead, s.leadErr
}

func (s *stubTx) FindCustomerIDByNameOrEmail(ctx context.Context, name, email string) (int64, bool, error) {
	if s.reused {
		return s.customerID, true, nil
	}
	return 0, false, nil
}

func (s *stubTx) InsertCustomer(ctx context.Context, c *entity.Customer) (int64, error) {
	return s.customerID, nil
}

func (s *stubTx) InsertContact(ctx context.Context, c *entity.Contact) (int64, error) {
	return 1, nil
}

func (s *stubTx) StageIDByName(ctx context.Context, name string) (int64, error) {
	return 1, nil
}

func (s *stubTx) InsertDeal(ctx context.Context, d *entity.Deal) (int64, error) {
	return 15, nil
}

func (s *stubTx) MarkLeadConverted(ctx context.Context, leadID, customerID int64) error {
	return nil
}

func (s *stubTx) DealNameByID(ctx context.Context, id int64) (string, error) {
	return "", apperr.New(apperr.CodeNotFound, "Deal not found")
}

func (s *stubTx) InsertQuote(ctx context.Context, q *entity.Quote) error { return nil }

func (s *stubTx) InsertQuoteLineItem(ctx context.Context, item *entity.QuoteLineItem) error {
	return nil
}

func (s *stubTx) InsertTask(ctx context.Context, t *entity.Task) (int64, error) { return 1, nil }

type stubStore struct {
	tx *stubTx
}

func (s *stubStore) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	return fn(s.tx)
}

func newConvertRouter(tx *stubTx) *chi.Mux {
	uc := usecase.NewConvertLeadUseCase(&stubStore{tx: tx}, nil)
	h := NewLeadHandler(nil, uc)

	r := chi.NewRouter()
	r.Post("/api/leads/{id}/convert", h.Convert)
	return r
}

func TestConvertLeadEndpointSuccess(t *testing.T) {
	tx := &stubTx{
		lead:       &entity.Lead{ID: 7, Company: "Acme Ltda", Email: "a@acme.com", Status: entity.LeadStatusNew, OwnerID: 3},
		customerID: 42,
	}
	router := newConvertRouter(tx)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/7/convert",
		strings.NewReader(`{"dealName": "Acme expansion", "dealValue": 5000}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Lead converted successfully", body["msg"])
	assert.Equal(t, float64(42), body["customerId"])
}

func TestConvertLeadEndpointAlreadyConverted(t *testing.T) {
	converted := int64(42)
	tx := &stubTx{
		lead: &entity.Lead{ID: 7, Status: entity.LeadStatusConverted, ConvertedCustomerID: &converted},
	}
	router := newConvertRouter(tx)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/7/convert",
		strings.NewReader(`{"dealName": "Again", "dealValue": 100}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Lead has already been converted", body["error"])
}

func TestConvertLeadEndpointNotFound(t *testing.T) {
	tx := &stubTx{leadErr: apperr.New(apperr.CodeNotFound, "Lead not found")}
	router := newConvertRouter(tx)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/999/convert",
		strings.NewReader(`{"dealName": "Ghost", "dealValue": 1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConvertLeadEndpointRejectsBadInput(t *testing.T) {
	router := newConvertRouter(&stubTx{})

	// Missing dealName.
	req := httptest.NewRequest(http.MethodPost, "/api/leads/7/convert",
		strings.NewReader(`{"dealValue": 100}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed JSON.
	req = httptest.NewRequest(http.MethodPost, "/api/leads/7/convert",
		strings.NewReader(`{"dealName": `))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-numeric id.
	req = httptest.NewRequest(http.MethodPost, "/api/leads/abc/convert",
		strings.NewReader(`{"dealName": "x", "dealValue": 1}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
