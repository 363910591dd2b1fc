package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

// Completer sends a prompt to a language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const promptTemplate = `You are a helpful assistant that answers questions based ONLY on the provided context.

IMPORTANT RULES:
1. Answer the question using ONLY the information from the context below.
2. If the answer is not present in the context, respond with "%s"
3. Do not make up information or use knowledge outside the provided context.
4. Be concise and accurate.

Context:
%s

Question: %s

Answer:`

// BuildPrompt renders the grounding prompt for question over the given context chunks.
func BuildPrompt(question string, contextChunks []string) string {
	return fmt.Sprintf(promptTemplate, domain.InsufficientContextAnswer, strings.Join(contextChunks, "\n\n"), question)
}

type Generator struct {
	completer Completer
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate answers question from contextChunks only. With no context it refuses without calling the model.
func (g *Generator) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	if len(contextChunks) == 0 {
		slog.Warn("no context chunks provided for question")
		return domain.RefusalAnswer, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "generate", telemetry.SpanAttributes{Operation: "completion"})
	defer span.End()

	raw, err := g.completer.Complete(ctx, BuildPrompt(question, contextChunks))
	if err != nil {
		span.SetError(err)
		return "", err
	}

	answer := strings.TrimSpace(raw)
	slog.Info("generated answer", "context_chunks", len(contextChunks), "answer_chars", len(answer))
	return answer, nil
}
