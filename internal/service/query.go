package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

// ContextRetriever finds context passages for a question.
type ContextRetriever interface {
	Search(ctx context.Context, query string, topK int) RetrievalResult
}

// AnswerGenerator composes an answer from context passages.
type AnswerGenerator interface {
	Generate(ctx context.Context, question string, contextChunks []string) (string, error)
}

// Answer is the result of asking a question.
type Answer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

type QueryService struct {
	retriever ContextRetriever
	generator AnswerGenerator
	topK      int
}

func NewQueryService(retriever ContextRetriever, generator AnswerGenerator, topK int) *QueryService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &QueryService{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// AnswerQuestion retrieves context for question and generates a grounded answer.
func (s *QueryService) AnswerQuestion(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}

	ctx, span := telemetry.StartSpan(ctx, "answer_question", telemetry.SpanAttributes{Operation: "ask"})
	defer span.End()

	slog.Info("answering question", "question_chars", len(question))

	res := s.retriever.Search(ctx, question, s.topK)
	if len(res.Documents) == 0 {
		slog.Info("no context found, returning refusal", "reason", res.Reason)
		return &Answer{
			Question: question,
			Answer:   domain.RefusalAnswer,
			Sources:  []string{},
		}, nil
	}

	text, err := s.generator.Generate(ctx, question, res.Documents)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		span.SetError(err)
		return nil, domain.NewPipelineError("failed to answer question", err)
	}

	sources := CollectSources(res.Metadatas)
	slog.Info("answered question", "sources", len(sources), "answer_chars", len(text))

	return &Answer{
		Question: question,
		Answer:   text,
		Sources:  sources,
	}, nil
}

// CollectSources returns the distinct source labels of retrieved chunks in first-seen order.
// Empty metadata is skipped; a missing or null source is labelled unknown.
func CollectSources(metadatas []domain.Metadata) []string {
	seen := make(map[string]struct{}, len(metadatas))
	sources := make([]string, 0, len(metadatas))
	for _, m := range metadatas {
		if len(m) == 0 {
			continue
		}
		src, ok := m.Source()
		if !ok {
			src = domain.UnknownSource
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	return sources
}
