package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/docqa/internal/api"
	"github.com/cloo-solutions/docqa/internal/service"
)

type DocumentService interface {
	Ingest(ctx context.Context, documentID, text string) (*service.IngestResult, error)
	Reset(ctx context.Context) error
}

type DocumentHandler struct {
	svc DocumentService
}

func NewDocumentHandler(svc DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type IngestRequest struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

// Create ingests already-extracted text under a caller-chosen document id.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Ingest(r.Context(), req.DocumentID, req.Text)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, result)
}

// ResetCollection wipes every stored record.
func (h *DocumentHandler) ResetCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.JSON(w, http.StatusNoContent, nil)
}
