package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server  ServerConfig
	YouTube YouTubeConfig
	Gemini  GeminiConfig
	Storage StorageConfig
	Redis   RedisConfig
	Index   IndexConfig
	Chat    ChatConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// YouTubeConfig holds caption source configuration
type YouTubeConfig struct {
	BaseURL           string `envconfig:"YOUTUBE_TIMEDTEXT_URL" default:"https://www.youtube.com"`
	PreferredLanguage string `envconfig:"YOUTUBE_PREFERRED_LANG" default:"en"`
	TimeoutSeconds    int    `envconfig:"YOUTUBE_TIMEOUT" default:"15"`
}

// GeminiConfig holds embedding/generation model configuration
type GeminiConfig struct {
	APIKey         string `envconfig:"GEMINI_API_KEY"`
	BaseURL        string `envconfig:"GEMINI_API_URL" default:"https://generativelanguage.googleapis.com"`
	EmbedModel     string `envconfig:"GEMINI_EMBED_MODEL" default:"text-embedding-004"`
	ChatModel      string `envconfig:"GEMINI_CHAT_MODEL" default:"gemini-1.5-flash"`
	TimeoutSeconds int    `envconfig:"GEMINI_TIMEOUT" default:"60"`
}

// StorageConfig holds transcript/index storage configuration
type StorageConfig struct {
	Type            string `envconfig:"STORAGE_TYPE" default:"local"` // "local" or "minio"
	DataDir         string `envconfig:"STORAGE_DATA_DIR" default:"data"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"video-chat"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// RedisConfig holds Redis configuration for the session history backend
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// IndexConfig holds chunking and retrieval configuration
type IndexConfig struct {
	ChunkSize           int `envconfig:"INDEX_CHUNK_SIZE" default:"1000"`
	ChunkOverlap        int `envconfig:"INDEX_CHUNK_OVERLAP" default:"200"`
	TopK                int `envconfig:"INDEX_TOP_K" default:"4"`
	MaxConcurrentBuilds int `envconfig:"INDEX_MAX_BUILDS" default:"2"`
}

// ChatConfig holds conversation configuration
type ChatConfig struct {
	HistoryBackend  string `envconfig:"CHAT_HISTORY_BACKEND" default:"memory"` // "memory" or "redis"
	MaxHistoryTurns int    `envconfig:"CHAT_MAX_HISTORY_TURNS" default:"20"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Storage.Type != "local" && c.Storage.Type != "minio" {
		return fmt.Errorf("STORAGE_TYPE must be \"local\" or \"minio\", got %q", c.Storage.Type)
	}
	if c.Chat.HistoryBackend != "memory" && c.Chat.HistoryBackend != "redis" {
		return fmt.Errorf("CHAT_HISTORY_BACKEND must be \"memory\" or \"redis\", got %q", c.Chat.HistoryBackend)
	}
	if c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("INDEX_CHUNK_OVERLAP must be smaller than INDEX_CHUNK_SIZE")
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
