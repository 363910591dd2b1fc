package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

// SuccessResponse wraps successful API responses
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Warn("failed to encode response", "error", err)
		}
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// ErrorToHTTP maps pipeline errors to HTTP status codes.
// Service failures are checked first because orchestrators wrap them in pipeline errors.
func ErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if domain.IsValidation(err) {
		return http.StatusBadRequest
	}
	if domain.HasCode(err, domain.ErrCodeAlreadyExists) {
		return http.StatusConflict
	}
	if se, ok := domain.AsServiceError(err); ok {
		switch se.Kind {
		case domain.ServiceErrorRateLimited:
			return http.StatusTooManyRequests
		case domain.ServiceErrorTimeout:
			return http.StatusGatewayTimeout
		default:
			return http.StatusBadGateway
		}
	}
	if domain.IsConfiguration(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// PublicMessage renders err for a client: the outer domain message plus the
// external service or configuration cause, never the full wrapped chain.
func PublicMessage(err error) string {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		if se, ok := domain.AsServiceError(err); ok {
			return se.Error()
		}
		return "internal server error"
	}

	msg := de.Message
	if se, ok := domain.AsServiceError(err); ok {
		return msg + ": " + se.Error()
	}
	var inner *domain.DomainError
	if de.Err != nil && errors.As(de.Err, &inner) {
		msg += ": " + inner.Message
	}
	return msg
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
		telemetry.CaptureError(r.Context(), err)
	}
	Error(w, status, PublicMessage(err))
}
