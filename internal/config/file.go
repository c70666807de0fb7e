package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration.
type Config struct {
	Locale     string           `yaml:"locale"`
	Background BackgroundConfig `yaml:"background"`
	Chat       ChatConfig       `yaml:"chat"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BackgroundConfig mirrors particles.Tuning so it can be set from YAML.
type BackgroundConfig struct {
	Density         float64 `yaml:"density"`
	MaxParticles    int     `yaml:"max_particles"`
	Speed           float64 `yaml:"speed"`
	MinRadius       float64 `yaml:"min_radius"`
	MaxRadius       float64 `yaml:"max_radius"`
	ConnectDistance float64 `yaml:"connect_distance"`
	PointerRadius   float64 `yaml:"pointer_radius"`
	PushDamping     float64 `yaml:"push_damping"`
	Throttle        string  `yaml:"throttle"`
	Seed            uint64  `yaml:"seed"` // 0 = time based
}

// ChatConfig configures the completion relay.
type ChatConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	Key          string  `yaml:"key"`
	Model        string  `yaml:"model"`
	HistoryLimit int     `yaml:"history_limit"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
	Timeout      string  `yaml:"timeout"`
	Chime        bool    `yaml:"chime"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	ProfilePath string `yaml:"profile_path"` // empty = embedded profile
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	return &Config{
		Locale: DefaultLocale,
		Background: BackgroundConfig{
			Density:         ParticleDensity,
			MaxParticles:    MaxParticles,
			Speed:           ParticleSpeed,
			MinRadius:       MinParticleSize,
			MaxRadius:       MaxParticleSize,
			ConnectDistance: ConnectDistance,
			PointerRadius:   PointerRadius,
			PushDamping:     PushDamping,
			Throttle:        PointerThrottle.String(),
		},
		Chat: ChatConfig{
			Endpoint:     DefaultEndpoint,
			Model:        DefaultModelName,
			HistoryLimit: HistoryLimit,
			MaxTokens:    MaxTokens,
			Temperature:  Temperature,
			Timeout:      RelayTimeout.String(),
			Chime:        true,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides (including a .env file in the working
// directory) are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		c.Chat.Endpoint = v
	}
	if v := os.Getenv("LLM_KEY"); v != "" {
		c.Chat.Key = v
	}
	if v := os.Getenv("PORTFOLIO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PORTFOLIO_LANG"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("PORTFOLIO_PROFILE"); v != "" {
		c.Server.ProfilePath = v
	}
}

// ThrottleDuration parses Background.Throttle, falling back to the
// reference value.
func (c *Config) ThrottleDuration() time.Duration {
	return parseDuration(c.Background.Throttle, PointerThrottle)
}

// RelayTimeoutDuration parses Chat.Timeout, falling back to the reference value.
func (c *Config) RelayTimeoutDuration() time.Duration {
	return parseDuration(c.Chat.Timeout, RelayTimeout)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
