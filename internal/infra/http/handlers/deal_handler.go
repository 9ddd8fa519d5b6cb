package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/internal/usecase"
)

type DealHandler struct {
	Deals      *database.DealRepository
	SetStageUC *usecase.SetDealStageUseCase
}

func NewDealHandler(deals *database.DealRepository, setStageUC *usecase.SetDealStageUseCase) *DealHandler {
	return &DealHandler{Deals: deals, SetStageUC: setStageUC}
}

// ListBoard returns deals grouped by stage name for the Kanban board.
func (h *DealHandler) ListBoard(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var ownerFilter *int64
	if p.Role == entity.RoleSales {
		ownerFilter = &p.UserID
	}

	grouped, err := h.Deals.ListGroupedByStage(r.Context(), ownerFilter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.Deals.Details(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type setStageRequest struct {
	NewStage string `json:"newStage"`
}

// SetStage relabels the deal's pipeline stage. The response body is the
// authoritative row; on error the board rolls its optimistic move back.
func (h *DealHandler) SetStage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req setStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	deal, err := h.SetStageUC.Execute(r.Context(), id, req.NewStage)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordStageChange(deal.StageName)
	writeJSON(w, http.StatusOK, deal)
}

type linkProductRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *DealHandler) LinkProduct(w http.ResponseWriter, r *http.Request) {
	dealID, err := idParam(r, "dealId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req linkProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	if err := h.Deals.LinkProduct(r.Context(), dealID, req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"msg": "Product linked to deal successfully."})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *DealHandler) UpdateProductQuantity(w http.ResponseWriter, r *http.Request) {
	dealID, err := idParam(r, "dealId")
	if err != nil {
		writeError(w, err)
		return
	}
	productID, err := idParam(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Deals.UpdateProductQuantity(r.Context(), dealID, productID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Product quantity updated."})
}

func (h *DealHandler) UnlinkProduct(w http.ResponseWriter, r *http.Request) {
	dealID, err := idParam(r, "dealId")
	if err != nil {
		writeError(w, err)
		return
	}
	productID, err := idParam(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Deals.UnlinkProduct(r.Context(), dealID, productID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Product unlinked from deal successfully."})
}
