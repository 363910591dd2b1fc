package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloo-solutions/docqa/internal/api"
	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/extract"
	"github.com/cloo-solutions/docqa/internal/storage"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

const multipartMemory = 8 << 20

type UploadHandler struct {
	ingester DocumentService
	archive  storage.Archive
	maxBytes int64
}

func NewUploadHandler(ingester DocumentService, archive storage.Archive, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		ingester: ingester,
		archive:  archive,
		maxBytes: maxBytes,
	}
}

type UploadResponse struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Status   string `json:"status"`
}

// Upload archives a document file, extracts its text and ingests it under its filename.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Error(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	filename := storage.SafeFilename(header.Filename)
	format, err := extract.DetectFormat(filename)
	if err != nil {
		api.Error(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type, expected one of %s", strings.Join(extract.SupportedExtensions(), ", ")))
		return
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		api.Error(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		api.HandleError(w, r, domain.NewPipelineError("failed to read upload", err))
		return
	}
	slog.Info("received upload", "filename", filename, "bytes", len(data), "format", format)

	key := storage.ObjectKey(filename)
	location, err := h.archive.Save(r.Context(), key, bytes.NewReader(data), int64(len(data)), format.ContentType())
	if err != nil {
		api.HandleError(w, r, domain.NewPipelineError("failed to archive document", err))
		return
	}
	slog.Info("archived upload", "filename", filename, "location", location)
	telemetry.AddBreadcrumb(r.Context(), "upload", "archived "+key)

	text, err := extract.Text(filename, data)
	if err != nil {
		h.discard(r, key)
		api.HandleError(w, r, err)
		return
	}

	result, err := h.ingester.Ingest(r.Context(), filename, text)
	if err != nil {
		h.discard(r, key)
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, UploadResponse{
		Filename: filename,
		Chunks:   result.ChunkCount,
		Status:   "stored",
	})
}

func (h *UploadHandler) discard(r *http.Request, key string) {
	if err := h.archive.Delete(r.Context(), key); err != nil {
		slog.Warn("failed to remove archived upload", "key", key, "error", err)
	}
}
