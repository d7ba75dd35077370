// Package config loads settings in layers: built-in defaults, an optional
// YAML file, then the environment (.env included). Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	ConfigPathEnvVar = "HARMONY_CONFIG"
	DefaultTheme     = "기분 좋은 아침 출근길"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

type Config struct {
	Provider  ProviderConfig  `koanf:"provider"`
	Recommend RecommendConfig `koanf:"recommend"`
	UI        UIConfig        `koanf:"ui"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Keys      KeysConfig      `koanf:"keys"`
}

type ProviderConfig struct {
	Name    Provider      `koanf:"name"`
	Model   string        `koanf:"model"`
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type RecommendConfig struct {
	DefaultTheme string `koanf:"default_theme"`
	Validation   string `koanf:"validation"`
}

type UIConfig struct {
	Skin string `koanf:"skin"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
	// RateLimit is the number of POSTs allowed per client IP per minute.
	RateLimit int `koanf:"rate_limit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// KeysConfig holds the raw credential variables. APIKey picks the one that
// applies to the configured provider.
type KeysConfig struct {
	Generic   string `koanf:"generic"`
	Gemini    string `koanf:"gemini"`
	Google    string `koanf:"google"`
	Anthropic string `koanf:"anthropic"`
}

func defaultConfig() Config {
	return Config{
		Provider:  ProviderConfig{Name: ProviderGemini},
		Recommend: RecommendConfig{DefaultTheme: DefaultTheme, Validation: "advisory"},
		UI:        UIConfig{Skin: "daylight"},
		Server:    ServerConfig{Addr: ":8080", RateLimit: 30},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
}

var envMappings = map[string]string{
	"harmony_provider":   "provider.name",
	"harmony_model":      "provider.model",
	"harmony_api_key":    "provider.api_key",
	"harmony_base_url":   "provider.base_url",
	"harmony_timeout":    "provider.timeout",
	"harmony_theme":      "recommend.default_theme",
	"harmony_validation": "recommend.validation",
	"harmony_skin":       "ui.skin",
	"harmony_addr":       "server.addr",
	"harmony_rate_limit": "server.rate_limit",
	"log_level":          "log.level",
	"log_format":         "log.format",
	"api_key":            "keys.generic",
	"gemini_api_key":     "keys.gemini",
	"google_api_key":     "keys.google",
	"anthropic_api_key":  "keys.anthropic",
}

// envTransform maps known variable names to config paths. Everything else
// is dropped.
func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads .env from the working directory, then layers defaults, the
// config file and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".config", "commute-harmony", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func (c *Config) normalize() {
	c.Provider.Name = Provider(strings.ToLower(strings.TrimSpace(string(c.Provider.Name))))
	if c.Provider.Name == "anthropic" {
		c.Provider.Name = ProviderClaude
	}
	c.Recommend.Validation = strings.ToLower(strings.TrimSpace(c.Recommend.Validation))
	c.UI.Skin = strings.ToLower(strings.TrimSpace(c.UI.Skin))
	if strings.TrimSpace(c.Recommend.DefaultTheme) == "" {
		c.Recommend.DefaultTheme = DefaultTheme
	}
}

func (c Config) Validate() error {
	switch c.Provider.Name {
	case ProviderGemini, ProviderClaude:
	default:
		return fmt.Errorf("provider must be one of: gemini, claude (got %q)", c.Provider.Name)
	}
	switch c.Recommend.Validation {
	case "advisory", "strict":
	default:
		return fmt.Errorf("recommend.validation must be advisory or strict (got %q)", c.Recommend.Validation)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must not be negative")
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("server.rate_limit must be at least 1")
	}
	return nil
}

// APIKey returns the credential for the configured provider. An explicit
// provider.api_key wins over the provider-specific variables.
func (c Config) APIKey() string {
	if c.Provider.APIKey != "" {
		return c.Provider.APIKey
	}
	switch c.Provider.Name {
	case ProviderClaude:
		return c.Keys.Anthropic
	default:
		return firstNonEmpty(c.Keys.Generic, c.Keys.Gemini, c.Keys.Google)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
