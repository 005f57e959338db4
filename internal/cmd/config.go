package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the server's YAML configuration. Every field has a sane default;
// the file is optional for local development.
type Config struct {
	Draw struct {
		RevealInterval Duration `yaml:"reveal_interval"`
		MaxRetries     int      `yaml:"max_retries"`
		RetryBackoff   Duration `yaml:"retry_backoff"`
	} `yaml:"draw"`
	Outbox struct {
		Enabled      bool     `yaml:"enabled"`
		PollInterval Duration `yaml:"poll_interval"`
		BatchSize    int32    `yaml:"batch_size"`
	} `yaml:"outbox"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
	HTTP struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
}

func defaultConfig() *Config {
	var cfg Config
	cfg.Draw.RevealInterval = Duration(time.Second)
	cfg.Draw.MaxRetries = 3
	cfg.Draw.RetryBackoff = Duration(500 * time.Millisecond)
	cfg.Outbox.Enabled = true
	cfg.Outbox.PollInterval = Duration(time.Second)
	cfg.Outbox.BatchSize = 100
	cfg.NATS.URL = getEnv("NATS_URL", "nats://localhost:4222")
	cfg.HTTP.Port = getEnv("PORT", "8080")
	return &cfg
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Draw.RevealInterval <= 0 {
		cfg.Draw.RevealInterval = Duration(time.Second)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
