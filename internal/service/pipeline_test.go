package service

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/docqa/internal/domain"
	"github.com/cloo-solutions/docqa/internal/repository"
)

const bagDimensions = 64

// bagOfWords embeds text by hashing lowercase words into a fixed number of buckets.
type bagOfWords struct{}

func (bagOfWords) EmbedOne(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, bagDimensions)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%bagDimensions]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return vec, nil
}

func (b bagOfWords) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := b.EmbedOne(ctx, t)
		out[i] = v
	}
	return out, nil
}

// sentenceEcho answers with the first context sentence that mentions the keyword.
type sentenceEcho struct {
	keyword string
}

func (s sentenceEcho) Complete(_ context.Context, prompt string) (string, error) {
	start := strings.Index(prompt, "Context:\n")
	end := strings.Index(prompt, "\n\nQuestion:")
	if start < 0 || end < start {
		return domain.InsufficientContextAnswer, nil
	}
	for _, sentence := range strings.Split(prompt[start+len("Context:\n"):end], ".") {
		if strings.Contains(sentence, s.keyword) {
			return " " + strings.TrimSpace(sentence) + ". ", nil
		}
	}
	return domain.InsufficientContextAnswer, nil
}

func TestPipeline_IngestThenAsk(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryStore("documents", bagDimensions)
	embedder := bagOfWords{}

	ingestion := NewIngestionService(embedder, store, ChunkConfig{Size: 120, Overlap: 20}, domain.DuplicateAppend)
	query := NewQueryService(
		NewRetriever(embedder, store, DefaultTopK),
		NewGenerator(sentenceEcho{keyword: "Quxville"}),
		DefaultTopK,
	)
	sources := NewSourceService(store)

	answer, err := query.AnswerQuestion(ctx, "What is the capital of Zorbland?")
	require.NoError(t, err)
	assert.Equal(t, domain.RefusalAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)

	text := "Zorbland is a small island nation. The capital of Zorbland is Quxville. " +
		"Its main export is seaweed. Most residents speak Zorbish and enjoy sailing."
	res, err := ingestion.Ingest(ctx, "zorbland.txt", text)
	require.NoError(t, err)
	assert.Positive(t, res.ChunkCount)

	answer, err = query.AnswerQuestion(ctx, "What is the capital of Zorbland?")
	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "Quxville")
	assert.Equal(t, []string{"zorbland.txt"}, answer.Sources)
	assert.Equal(t, []string{"zorbland.txt"}, sources.ListSources(ctx))

	require.NoError(t, ingestion.Reset(ctx))
	assert.Empty(t, sources.ListSources(ctx))
}

func TestPipeline_ReplaceKeepsSingleCopy(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryStore("documents", bagDimensions)
	ingestion := NewIngestionService(bagOfWords{}, store, ChunkConfig{Size: 10, Overlap: 0}, domain.DuplicateReplace)

	_, err := ingestion.Ingest(ctx, "doc", strings.Repeat("a", 30))
	require.NoError(t, err)
	_, err = ingestion.Ingest(ctx, "doc", strings.Repeat("b", 20))
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
