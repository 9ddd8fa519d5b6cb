package handlers

import (
	"net/http"
	"strconv"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/database"
)

type ProductHandler struct {
	Products *database.ProductRepository
}

func NewProductHandler(products *database.ProductRepository) *ProductHandler {
	return &ProductHandler{Products: products}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := database.ProductFilter{
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		Direction: q.Get("direction"),
		Page:      page,
		Limit:     limit,
	}

	products, total, err := h.Products.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"totalCount": total,
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.Products.Details(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p entity.Product
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Products.Create(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var p entity.Product
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}
	p.ID = id

	if err := h.Products.Update(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Products.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Product deleted"})
}

type attachmentRequest struct {
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

func (h *ProductHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req attachmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	a := entity.Attachment{FileName: req.FileName, FileURL: req.FileURL}
	if err := h.Products.AddAttachment(r.Context(), productID, &a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ProductHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentID, err := idParam(r, "attachmentId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Products.DeleteAttachment(r.Context(), attachmentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Attachment deleted"})
}
