package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Default model parameters for capsule generation. The sampling knobs are
// fixed per analysis design and are not user-configurable.
const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// Config holds application configuration.
type Config struct {
	// GroqAPIKey authenticates against the model provider.
	// The GROQ_API_KEY environment variable takes precedence.
	GroqAPIKey string `json:"groq_api_key,omitempty"`

	// GroqBaseURL is the OpenAI-compatible endpoint of the model provider.
	GroqBaseURL string `json:"groq_base_url,omitempty"`

	// Model is the model identifier used for all capsule sections.
	Model string `json:"model,omitempty"`

	// JWTSecret signs and verifies API bearer tokens (HS256).
	// The MEMORA_JWT_SECRET environment variable takes precedence.
	JWTSecret string `json:"jwt_secret,omitempty"`

	// DefaultUser is the user ID assumed by the CLI and MCP surfaces,
	// which run without request-level authentication.
	DefaultUser string `json:"default_user,omitempty"`

	// Bind and Port configure the HTTP API server.
	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GroqBaseURL: DefaultGroqBaseURL,
		Model:       DefaultModel,
		DefaultUser: "local",
		Bind:        "127.0.0.1",
		Port:        8787,
	}
}

// Load loads configuration from baseDir/config.json, applying defaults and
// environment overrides. Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.memora.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides secrets from the environment. Keeping keys out of
// config.json is the expected deployment mode.
func applyEnv(cfg *Config) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.GroqAPIKey = key
	}
	if secret := os.Getenv("MEMORA_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for non-zero scalars.
func Merge(base, overlay *Config) *Config {
	result := *overlay

	if result.GroqAPIKey == "" {
		result.GroqAPIKey = base.GroqAPIKey
	}
	if result.GroqBaseURL == "" {
		result.GroqBaseURL = base.GroqBaseURL
	}
	if result.Model == "" {
		result.Model = base.Model
	}
	if result.JWTSecret == "" {
		result.JWTSecret = base.JWTSecret
	}
	if result.DefaultUser == "" {
		result.DefaultUser = base.DefaultUser
	}
	if result.Bind == "" {
		result.Bind = base.Bind
	}
	if result.Port == 0 {
		result.Port = base.Port
	}
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	return &result
}
