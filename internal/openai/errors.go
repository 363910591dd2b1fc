package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cloo-solutions/docqa/internal/domain"
)

const (
	serviceEmbedding  = "embedding"
	serviceCompletion = "completion"
)

// kindForStatus maps an upstream HTTP status to a failure kind.
func kindForStatus(code int) domain.ServiceErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return domain.ServiceErrorUnauthorized
	case code == http.StatusForbidden:
		return domain.ServiceErrorForbidden
	case code == http.StatusTooManyRequests:
		return domain.ServiceErrorRateLimited
	case code == http.StatusNotFound:
		return domain.ServiceErrorNotFound
	case code >= http.StatusInternalServerError:
		return domain.ServiceErrorServerError
	default:
		return domain.ServiceErrorUnexpectedStatus
	}
}

func statusMessage(kind domain.ServiceErrorKind) string {
	switch kind {
	case domain.ServiceErrorUnauthorized:
		return "invalid API key"
	case domain.ServiceErrorForbidden:
		return "access forbidden, check API key permissions"
	case domain.ServiceErrorRateLimited:
		return "rate limit exceeded, try again later"
	case domain.ServiceErrorNotFound:
		return "model not found or unavailable"
	case domain.ServiceErrorServerError:
		return "upstream server error, try again later"
	}
	return "unexpected response status"
}

// classifyError converts a go-openai error into a domain.ServiceError.
func classifyError(service string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		kind := kindForStatus(apiErr.HTTPStatusCode)
		msg := statusMessage(kind)
		if apiErr.Message != "" {
			msg += ": " + apiErr.Message
		}
		return &domain.ServiceError{Service: service, Kind: kind, StatusCode: apiErr.HTTPStatusCode, Message: msg, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		kind := kindForStatus(reqErr.HTTPStatusCode)
		return &domain.ServiceError{Service: service, Kind: kind, StatusCode: reqErr.HTTPStatusCode, Message: statusMessage(kind), Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.ServiceError{Service: service, Kind: domain.ServiceErrorTimeout, Message: "request timed out", Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed(service, "response is not valid JSON", err)
	}

	return &domain.ServiceError{Service: service, Kind: domain.ServiceErrorConnection, Message: "request failed", Err: err}
}

func malformed(service, msg string, err error) *domain.ServiceError {
	return &domain.ServiceError{Service: service, Kind: domain.ServiceErrorMalformedResponse, Message: msg, Err: err}
}
