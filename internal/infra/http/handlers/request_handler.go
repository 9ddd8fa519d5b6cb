package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

const maxUploadBytes = 10 << 20

type ProductRequestHandler struct {
	Requests  *database.ProductRequestRepository
	Products  *database.ProductRepository
	UploadDir string
}

func NewProductRequestHandler(requests *database.ProductRequestRepository, products *database.ProductRepository, uploadDir string) *ProductRequestHandler {
	return &ProductRequestHandler{Requests: requests, Products: products, UploadDir: uploadDir}
}

func (h *ProductRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Requests.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *ProductRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.Requests.Details(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Create takes a multipart form: requested_product_name, optional specs and
// deal_id fields plus any number of "attachments" files. Files land in the
// upload dir under a random name so originals can collide safely.
func (h *ProductRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, apperr.New(apperr.CodeValidation, "Invalid multipart form"))
		return
	}

	name := r.FormValue("requested_product_name")
	if name == "" {
		writeError(w, apperr.New(apperr.CodeValidation, "requested_product_name is required"))
		return
	}

	pr := entity.ProductRequest{
		RequestedProductName: name,
		Specs:                r.FormValue("specs"),
		RequestedByID:        p.UserID,
	}
	if raw := r.FormValue("deal_id"); raw != "" {
		dealID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, apperr.New(apperr.CodeValidation, "deal_id must be a number"))
			return
		}
		pr.DealID = &dealID
	}

	var attachments []entity.Attachment
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["attachments"] {
			a, err := h.storeFile(fh.Filename, fh)
			if err != nil {
				writeError(w, err)
				return
			}
			attachments = append(attachments, a)
		}
	}

	if err := h.Requests.CreateWithAttachments(r.Context(), &pr, attachments); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entity.ProductRequestDetails{ProductRequest: pr, Attachments: attachments})
}

type convertRequestBody struct {
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Convert turns an approved request into a catalog product and marks the
// request completed.
func (h *ProductRequestHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body convertRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	details, err := h.Requests.Details(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if details.Status == entity.RequestStatusCompleted {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Request is already completed"})
		return
	}

	product := entity.Product{
		Name:        details.RequestedProductName,
		SKU:         body.SKU,
		Category:    body.Category,
		Price:       body.Price,
		Status:      "Active",
		Description: details.Specs,
	}
	if err := h.Products.Create(r.Context(), &product); err != nil {
		writeError(w, err)
		return
	}

	pr, err := h.Requests.MarkCompleted(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"request": pr,
		"product": product,
	})
}

func (h *ProductRequestHandler) storeFile(originalName string, fh *multipart.FileHeader) (entity.Attachment, error) {
	src, err := fh.Open()
	if err != nil {
		return entity.Attachment{}, apperr.Wrap(apperr.CodeValidation, "Could not read uploaded file", err)
	}
	defer src.Close()

	storedName := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(originalName))
	dstPath := filepath.Join(h.UploadDir, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return entity.Attachment{}, apperr.Wrap(apperr.CodeUnavailable, "Could not store uploaded file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return entity.Attachment{}, apperr.Wrap(apperr.CodeUnavailable, "Could not store uploaded file", err)
	}

	return entity.Attachment{
		FileName: originalName,
		FileURL:  "/uploads/" + storedName,
	}, nil
}
