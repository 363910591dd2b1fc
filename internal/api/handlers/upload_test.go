package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/service"
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func keyUnderDocuments(filename string) interface{} {
	return mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, "/"+filename)
	})
}

func TestUploadHandler_Success(t *testing.T) {
	docs := new(MockDocumentService)
	archive := new(MockArchive)
	handler := NewUploadHandler(docs, archive, 1<<20)

	archive.On("Save", mock.Anything, keyUnderDocuments("notes.txt"), mock.Anything, int64(11), "text/plain; charset=utf-8").Return("uploads/notes.txt", nil)
	docs.On("Ingest", mock.Anything, "notes.txt", "hello world").Return(&service.IngestResult{DocumentID: "notes.txt", ChunkCount: 1}, nil)

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "notes.txt", []byte("hello world")))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, UploadResponse{Filename: "notes.txt", Chunks: 1, Status: "stored"}, resp.Data)
	archive.AssertExpectations(t)
	docs.AssertExpectations(t)
	archive.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUploadHandler_StripsDirectories(t *testing.T) {
	docs := new(MockDocumentService)
	archive := new(MockArchive)
	handler := NewUploadHandler(docs, archive, 1<<20)

	archive.On("Save", mock.Anything, keyUnderDocuments("evil.md"), mock.Anything, mock.Anything, mock.Anything).Return("x", nil)
	docs.On("Ingest", mock.Anything, "evil.md", "# hi").Return(&service.IngestResult{DocumentID: "evil.md", ChunkCount: 1}, nil)

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "../../evil.md", []byte("# hi")))

	assert.Equal(t, http.StatusOK, w.Code)
	docs.AssertExpectations(t)
}

func TestUploadHandler_MissingFile(t *testing.T) {
	handler := NewUploadHandler(new(MockDocumentService), new(MockArchive), 1<<20)

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "", "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestUploadHandler_UnsupportedType(t *testing.T) {
	docs := new(MockDocumentService)
	archive := new(MockArchive)
	handler := NewUploadHandler(docs, archive, 1<<20)

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "image.png", []byte{0x89, 'P', 'N', 'G'}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ".pdf")
	archive.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandler_TooLarge(t *testing.T) {
	archive := new(MockArchive)
	handler := NewUploadHandler(new(MockDocumentService), archive, 4)

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "notes.txt", []byte("more than four bytes")))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	archive.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandler_IngestFailureDiscardsArchive(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty document", domain.ErrEmptyDocument, http.StatusBadRequest},
		{"store failure", domain.NewPipelineError("failed to store document", errors.New("down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := new(MockDocumentService)
			archive := new(MockArchive)
			handler := NewUploadHandler(docs, archive, 1<<20)

			archive.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("x", nil)
			archive.On("Delete", mock.Anything, keyUnderDocuments("notes.txt")).Return(nil)
			docs.On("Ingest", mock.Anything, "notes.txt", "   ").Return(nil, tt.err)

			w := httptest.NewRecorder()
			handler.Upload(w, multipartRequest(t, "file", "notes.txt", []byte("   ")))

			assert.Equal(t, tt.status, w.Code)
			archive.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_CorruptPDF(t *testing.T) {
	docs := new(MockDocumentService)
	archive := new(MockArchive)
	handler := NewUploadHandler(docs, archive, 1<<20)

	archive.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "application/pdf").Return("x", nil)
	archive.On("Delete", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "broken.pdf", []byte("not a pdf")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docs.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandler_ArchiveFailure(t *testing.T) {
	docs := new(MockDocumentService)
	archive := new(MockArchive)
	handler := NewUploadHandler(docs, archive, 1<<20)

	archive.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket gone"))

	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "notes.txt", []byte("hello")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to archive document")
	docs.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}
