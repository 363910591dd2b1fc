package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/docqa/internal/domain"
)

type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
}

func TestCompleter_Complete_Success(t *testing.T) {
	srv, calls := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "AI Document Search", r.Header.Get("X-Title"))

		var body struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultChatModel, body.Model)
		assert.InDelta(t, 0.2, body.Temperature, 1e-6)
		assert.Equal(t, 500, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "the prompt", body.Messages[0].Content)

		writeCompletion(w, "  Paris.  ")
	})

	cfg := testConfig(srv.URL)
	cfg.Temperature = 0.2

	answer, err := NewCompleter(cfg).Complete(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, "  Paris.  ", answer)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleter_Complete_NoCredential(t *testing.T) {
	srv, calls := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {})
	cfg := testConfig(srv.URL)
	cfg.APIKey = ""

	_, err := NewCompleter(cfg).Complete(context.Background(), "prompt")

	assert.True(t, domain.IsConfiguration(err))
	assert.Equal(t, int32(0), calls.Load())
}

func TestCompleter_Complete_NoChoices(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := NewCompleter(testConfig(srv.URL)).Complete(context.Background(), "prompt")

	se, ok := domain.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceErrorMalformedResponse, se.Kind)
	assert.Equal(t, serviceCompletion, se.Service)
}

func TestCompleter_Complete_StatusError(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit"}}`))
	})

	_, err := NewCompleter(testConfig(srv.URL)).Complete(context.Background(), "prompt")

	se, ok := domain.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceErrorRateLimited, se.Kind)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Message, "quota")
}

func TestCompleter_Complete_UsesConfiguredModel(t *testing.T) {
	mockAPI := new(MockChatAPI)
	completer := &Completer{api: mockAPI, hasKey: true, model: "test/model", temperature: 0.5, maxTokens: 42}

	ctx := context.Background()
	mockAPI.On("CreateChatCompletion", ctx, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "test/model" && req.MaxTokens == 42 && req.Temperature == 0.5 && len(req.Messages) == 1
	})).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
	}, nil)

	answer, err := completer.Complete(ctx, "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	mockAPI.AssertExpectations(t)
}
