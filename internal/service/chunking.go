package service

// ChunkConfig controls how document text is split before embedding.
type ChunkConfig struct {
	Size    int
	Overlap int
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    500,
		Overlap: 100,
	}
}

// ChunkText splits text into windows of at most cfg.Size characters.
// Each window starts cfg.Size-cfg.Overlap characters after the previous one, until the start passes the end
// of the text, so trailing windows may lie entirely inside the previous window's overlap.
func ChunkText(text string, cfg ChunkConfig) []string {
	if text == "" {
		return []string{}
	}
	if cfg.Size <= 0 {
		cfg = DefaultChunkConfig()
	}
	overlap := cfg.Overlap
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/cfg.Size+1)
	start := 0
	for start < len(runes) {
		end := min(start+cfg.Size, len(runes))
		chunks = append(chunks, string(runes[start:end]))

		nextStart := start + cfg.Size - overlap
		// overlap >= size would stall or rewind
		if nextStart <= start {
			nextStart = end
		}
		start = nextStart
	}

	return chunks
}
