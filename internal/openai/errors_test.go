package openai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/docqa/internal/domain"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		code int
		want domain.ServiceErrorKind
	}{
		{401, domain.ServiceErrorUnauthorized},
		{403, domain.ServiceErrorForbidden},
		{429, domain.ServiceErrorRateLimited},
		{404, domain.ServiceErrorNotFound},
		{500, domain.ServiceErrorServerError},
		{503, domain.ServiceErrorServerError},
		{400, domain.ServiceErrorUnexpectedStatus},
		{302, domain.ServiceErrorUnexpectedStatus},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, kindForStatus(tt.code), tt.code)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domain.ServiceErrorKind
	}{
		{name: "api error", err: &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, kind: domain.ServiceErrorUnauthorized},
		{name: "request error", err: &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("unavailable")}, kind: domain.ServiceErrorServerError},
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), kind: domain.ServiceErrorTimeout},
		{name: "plain", err: errors.New("connection reset"), kind: domain.ServiceErrorConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(serviceCompletion, tt.err)
			se, ok := domain.AsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, se.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, classifyError(serviceCompletion, nil))
}
