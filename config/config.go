package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "ARSIPA_CONFIG"
	databasePathEnv   = "ARSIPA_DB_PATH"
	embeddingHostEnv  = "ARSIPA_EMBEDDING_HOST"
	embeddingModelEnv = "ARSIPA_EMBEDDING_MODEL"
	embeddingTokenEnv = "ARSIPA_EMBEDDING_TOKEN"
	adminEmailEnv     = "ARSIPA_ADMIN_EMAIL"
	logLevelEnv       = "ARSIPA_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Embedding     EmbeddingConfig    `yaml:"embedding"`
	Notifications NotificationConfig `yaml:"notifications"`
	Log           LogConfig          `yaml:"log"`
}

// DatabaseConfig describes where the document store lives.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig defines how to contact the embedding provider.
type EmbeddingConfig struct {
	Host           string `yaml:"host"`
	Model          string `yaml:"model"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the configured provider timeout.
func (e EmbeddingConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// NotificationConfig encapsulates outbound notification settings.
type NotificationConfig struct {
	AdminEmail string `yaml:"adminEmail"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel maps the configured level name to a slog.Level.
// Unknown names fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads YAML configuration (if present) and applies environment overrides.
// The config file path comes from ARSIPA_CONFIG or the path argument; the
// argument wins when both are set. A missing or unparsable file falls back
// to defaults rather than failing startup.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("config: cannot read file, using defaults", "path", path, "err", err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				slog.Warn("config: cannot parse file, using defaults", "path", path, "err", err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(embeddingHostEnv); v != "" {
		c.Embedding.Host = v
	}
	if v := os.Getenv(embeddingModelEnv); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv(embeddingTokenEnv); v != "" {
		c.Embedding.Token = v
	}
	if v := os.Getenv(adminEmailEnv); v != "" {
		c.Notifications.AdminEmail = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Embedding.Host != "" {
		base.Embedding.Host = override.Embedding.Host
	}
	if override.Embedding.Model != "" {
		base.Embedding.Model = override.Embedding.Model
	}
	if override.Embedding.Token != "" {
		base.Embedding.Token = override.Embedding.Token
	}
	if override.Embedding.TimeoutSeconds > 0 {
		base.Embedding.TimeoutSeconds = override.Embedding.TimeoutSeconds
	}

	if override.Notifications.AdminEmail != "" {
		base.Notifications.AdminEmail = override.Notifications.AdminEmail
	}

	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}

	return base
}

func defaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		Database: DatabaseConfig{Path: home + "/.arsipa/documents.db"},
		Embedding: EmbeddingConfig{
			Host:           "http://localhost:11434",
			Model:          "embeddinggemma",
			Token:          "none",
			TimeoutSeconds: 30,
		},
		Notifications: NotificationConfig{AdminEmail: ""},
		Log:           LogConfig{Level: "info"},
	}
}
