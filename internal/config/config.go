package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cloo-solutions/docqa/internal/domain"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	VectorStore         string `envconfig:"VECTOR_STORE" default:"postgres"`
	DatabaseURL         string `envconfig:"DATABASE_URL"`
	DatabaseMaxConns    int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	Collection          string `envconfig:"COLLECTION" default:"documents"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	LLMAPIKey      string        `envconfig:"LLM_API_KEY"`
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL" default:"https://openrouter.ai/api/v1"`
	EmbeddingModel string        `envconfig:"EMBEDDING_MODEL" default:"openai/text-embedding-3-small"`
	ChatModel      string        `envconfig:"CHAT_MODEL" default:"google/gemini-3-flash-preview"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	Temperature    float32       `envconfig:"TEMPERATURE" default:"0.2"`
	MaxTokens      int           `envconfig:"MAX_TOKENS" default:"500"`
	AppReferer     string        `envconfig:"APP_REFERER" default:"http://localhost:8000"`
	AppTitle       string        `envconfig:"APP_TITLE" default:"AI Document Search"`

	TopK            int    `envconfig:"TOP_K" default:"5"`
	ChunkSize       int    `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap    int    `envconfig:"CHUNK_OVERLAP" default:"100"`
	DuplicatePolicy string `envconfig:"DUPLICATE_POLICY" default:"append"`

	MaxUploadBytes int64    `envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	AdminToken     string   `envconfig:"ADMIN_TOKEN"`

	UploadDir   string `envconfig:"UPLOAD_DIR" default:"uploads"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"docqa-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DOCQA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that envconfig cannot express.
func (c *Config) Validate() error {
	switch c.VectorStore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("invalid config: DATABASE_URL is required for the %s vector store", StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("invalid config: unknown VECTOR_STORE %q", c.VectorStore)
	}

	if !domain.DuplicatePolicy(c.DuplicatePolicy).IsValid() {
		return fmt.Errorf("invalid config: unknown DUPLICATE_POLICY %q", c.DuplicatePolicy)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("invalid config: CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("invalid config: EMBEDDING_DIMENSIONS must be positive, got %d", c.EmbeddingDimensions)
	}
	if strings.TrimSpace(c.Collection) == "" {
		return fmt.Errorf("invalid config: COLLECTION cannot be empty")
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasLLM() bool {
	return c.LLMAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

func (c *Config) HasAdminToken() bool {
	return c.AdminToken != ""
}

func (c *Config) Policy() domain.DuplicatePolicy {
	return domain.DuplicatePolicy(c.DuplicatePolicy)
}
