package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct joins chunks, dropping the prefix each one shares with its predecessor.
func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		r := []rune(c)
		if i > 0 {
			r = r[min(overlap, len(r)):]
		}
		b.WriteString(string(r))
	}
	return b.String()
}

func TestChunkText_Empty(t *testing.T) {
	chunks := ChunkText("", ChunkConfig{Size: 500, Overlap: 100})
	assert.NotNil(t, chunks)
	assert.Empty(t, chunks)
}

func TestChunkText_ShortText(t *testing.T) {
	chunks := ChunkText("  hello world  ", DefaultChunkConfig())
	assert.Equal(t, []string{"  hello world  "}, chunks)
}

func TestChunkText_Windows(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  ChunkConfig
		want []string
	}{
		{
			name: "tail inside overlap is kept",
			text: "abcdefgh",
			cfg:  ChunkConfig{Size: 4, Overlap: 2},
			want: []string{"abcd", "cdef", "efgh", "gh"},
		},
		{
			name: "single rune tail",
			text: "abcdefghij",
			cfg:  ChunkConfig{Size: 4, Overlap: 1},
			want: []string{"abcd", "defg", "ghij", "j"},
		},
		{
			name: "no overlap ends on boundary",
			text: "abcdefgh",
			cfg:  ChunkConfig{Size: 4, Overlap: 0},
			want: []string{"abcd", "efgh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkText(tt.text, tt.cfg))
		})
	}
}

func TestChunkText_DefaultWindowCounts(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{length: 400, want: 1},
		{length: 401, want: 2},
		{length: 450, want: 2},
		{length: 500, want: 2},
		{length: 801, want: 3},
		{length: 900, want: 3},
	}

	for _, tt := range tests {
		chunks := ChunkText(strings.Repeat("a", tt.length), DefaultChunkConfig())
		assert.Len(t, chunks, tt.want, "length %d", tt.length)
	}
}

func TestChunkText_Reconstructs(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60) + "Ünïcödé tail ✓"

	tests := []struct {
		name string
		cfg  ChunkConfig
	}{
		{name: "defaults", cfg: DefaultChunkConfig()},
		{name: "no overlap", cfg: ChunkConfig{Size: 128, Overlap: 0}},
		{name: "large overlap", cfg: ChunkConfig{Size: 64, Overlap: 63}},
		{name: "tiny", cfg: ChunkConfig{Size: 1, Overlap: 0}},
		{name: "window larger than text", cfg: ChunkConfig{Size: 10000, Overlap: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(text, tt.cfg)
			require.NotEmpty(t, chunks)
			for _, c := range chunks {
				assert.LessOrEqual(t, len([]rune(c)), tt.cfg.Size)
			}
			assert.Equal(t, text, reconstruct(chunks, tt.cfg.Overlap))
		})
	}
}

func TestChunkText_OverlapNotSmallerThanSizeTerminates(t *testing.T) {
	text := strings.Repeat("x", 50)

	chunks := ChunkText(text, ChunkConfig{Size: 10, Overlap: 10})
	require.Len(t, chunks, 5)
	assert.Equal(t, text, strings.Join(chunks, ""))

	chunks = ChunkText(text, ChunkConfig{Size: 10, Overlap: 25})
	require.Len(t, chunks, 5)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkText_InvalidSizeUsesDefaults(t *testing.T) {
	text := strings.Repeat("a", 900)

	chunks := ChunkText(text, ChunkConfig{Size: 0, Overlap: 0})
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Equal(t, text, reconstruct(chunks, 100))
}

func TestChunkText_NegativeOverlap(t *testing.T) {
	chunks := ChunkText("abcdef", ChunkConfig{Size: 2, Overlap: -3})
	assert.Equal(t, []string{"ab", "cd", "ef"}, chunks)
}
