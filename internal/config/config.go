package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for AskPDF
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	RAG      RAGConfig      `mapstructure:"rag"`
	LLM      LLMConfig      `mapstructure:"llm"`
	UI       UIConfig       `mapstructure:"ui"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	BaseURL      string   `mapstructure:"base_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	SecureCookie bool     `mapstructure:"secure_cookie"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds the ledger database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	UploadDir   string `mapstructure:"upload_dir"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// RAGConfig holds chunking and retrieval configuration
type RAGConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	TopK         int `mapstructure:"top_k"`
	EmbeddingDim int `mapstructure:"embedding_dim"`
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// UIConfig holds chat page configuration
type UIConfig struct {
	StaticDir     string `mapstructure:"static_dir"`
	Title         string `mapstructure:"title"`
	DefaultPrompt string `mapstructure:"default_prompt"`
}

// SessionConfig holds browser session lifetime configuration
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// ASKPDF_LLM_API_KEY -> llm.api_key
	v.SetEnvPrefix("ASKPDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secret name used by earlier deployments
	if err := v.BindEnv("llm.api_key", "ASKPDF_LLM_API_KEY", "LLAMA3_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.secure_cookie", false)

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/askpdf.db")
	v.SetDefault("storage.upload_dir", ".")
	v.SetDefault("storage.max_upload_mb", 32)

	v.SetDefault("rag.chunk_size", 50)
	v.SetDefault("rag.chunk_overlap", 10)
	v.SetDefault("rag.top_k", 4)
	v.SetDefault("rag.embedding_dim", 1352)

	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "llama-3.1-70b-versatile")
	v.SetDefault("llm.temperature", 0)

	v.SetDefault("ui.static_dir", "static")
	v.SetDefault("ui.title", "Ask Chatbot 🤖")
	v.SetDefault("ui.default_prompt", "Hello bot")

	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.development", false)
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required (set ASKPDF_LLM_API_KEY)", domain.ErrConfig)
	}
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("%w: rag.chunk_size must be positive", domain.ErrConfig)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("%w: rag.chunk_overlap must be in [0, chunk_size)", domain.ErrConfig)
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
