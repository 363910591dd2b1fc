package openai

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// ChatAPI is the subset of the go-openai client used for completions.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Completer sends single-message chat completion requests.
type Completer struct {
	api         ChatAPI
	hasKey      bool
	model       string
	temperature float32
	maxTokens   int
}

func NewCompleter(cfg Config) *Completer {
	cfg = cfg.withDefaults()
	return &Completer{
		api:         newAPIClient(cfg),
		hasKey:      cfg.APIKey != "",
		model:       cfg.ChatModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends prompt as a user message and returns the first choice's content.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.hasKey {
		return "", domain.ErrNoCredential
	}

	slog.Debug("requesting completion", "model", c.model, "prompt_chars", len(prompt))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", classifyError(serviceCompletion, err)
	}

	if len(resp.Choices) == 0 {
		return "", malformed(serviceCompletion, "response contains no choices", nil)
	}

	return resp.Choices[0].Message.Content, nil
}
