package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/liliang-cn/aichat/internal/domain"
)

// Thread sources
const (
	ThreadSourceMock     = "mock"
	ThreadSourceDatabase = "database"
)

// Config holds all configuration for the chat app
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Session  SessionConfig  `mapstructure:"session"`
	PDF      PDFConfig      `mapstructure:"pdf"`
	Threads  ThreadsConfig  `mapstructure:"threads"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// WorkflowConfig points at the external workflow service.
// A zero Timeout means a chat turn waits as long as the service takes.
type WorkflowConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds the login cookie settings
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// PDFConfig holds the PDF browser configuration
type PDFConfig struct {
	SeedFiles []string `mapstructure:"seed_files"`
}

// ThreadsConfig selects where past threads come from
type ThreadsConfig struct {
	Source string `mapstructure:"source"`
}

// Load loads configuration from .env, file and environment
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

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

	v.SetEnvPrefix("AICHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.path", "./data/aichat.db")

	v.SetDefault("workflow.url", "http://localhost:4111/api/workflows/weatherWorkflow/start-async")
	v.SetDefault("workflow.timeout", 0)

	v.SetDefault("session.cookie_name", "aichat_session")
	v.SetDefault("session.secret", "change-me")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("pdf.seed_files", slices.Clone(domain.DefaultSeedFiles))

	v.SetDefault("threads.source", ThreadSourceMock)
}

// Validate reports the first setting that cannot work
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Workflow.URL == "" {
		return errors.New("workflow.url is required")
	}
	if c.Workflow.Timeout < 0 {
		return fmt.Errorf("workflow.timeout must not be negative: %s", c.Workflow.Timeout)
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive: %s", c.Session.TTL)
	}
	switch c.Threads.Source {
	case ThreadSourceMock, ThreadSourceDatabase:
	default:
		return fmt.Errorf("threads.source must be %q or %q, got %q",
			ThreadSourceMock, ThreadSourceDatabase, c.Threads.Source)
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
