package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/docqa/internal/api"
)

type SourceLister interface {
	ListSources(ctx context.Context) []string
}

type SourcesHandler struct {
	svc SourceLister
}

func NewSourcesHandler(svc SourceLister) *SourcesHandler {
	return &SourcesHandler{svc: svc}
}

type SourcesResponse struct {
	Sources []string `json:"sources"`
}

func (h *SourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, SourcesResponse{Sources: h.svc.ListSources(r.Context())})
}
