package config

import (
	"fmt"
	"log"
	"time"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	GenerationModel     string `envconfig:"GENERATION_MODEL" default:"gpt-4o"`

	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"60s"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`
	TopK         int `envconfig:"TOP_K" default:"5"`

	ConfidenceThreshold        float64 `envconfig:"CONFIDENCE_THRESHOLD" default:"0.5"`
	UncertainDistanceThreshold float64 `envconfig:"UNCERTAIN_DISTANCE_THRESHOLD" default:"0.8"`

	QueryLogFile string `envconfig:"QUERY_LOG_FILE" default:"logs/askdocs_queries.jsonl"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ASKDOCS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate rejects chunk parameters that would make ingestion undefined.
// Thresholds are deliberately not range-checked; they are applied as-is.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return domain.ErrInvalidChunkSize
	}
	if c.ChunkOverlap < 0 {
		return domain.ErrInvalidChunkOverlap
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return domain.ErrChunkOverlapTooLarge
	}
	if c.TopK <= 0 {
		return domain.NewDomainError(domain.ErrCodeInvalidConfig, "top_k must be a positive integer")
	}
	return nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != ""
}
