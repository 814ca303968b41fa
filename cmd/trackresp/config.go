package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DefaultConfig = `# trackresp configuration

logging:
  # Options: debug, info, warn, error
  level: info

fetch:
  timeout: 10s
  user_agent: trackresp
  # Rewrite header names to canonical form before extracting cookies
  canonical_keys: false

output:
  json: false
  # Print the decoded response body
  body: false
`

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Output  OutputConfig  `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	CanonicalKeys bool          `yaml:"canonical_keys"`
}

type OutputConfig struct {
	JSON bool `yaml:"json"`
	Body bool `yaml:"body"`
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(DefaultConfig), cfg); err != nil {
		return nil, fmt.Errorf("parse default config: %w", err)
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Fetch.Timeout <= 0 {
		return nil, fmt.Errorf("fetch.timeout must be positive, got %s", cfg.Fetch.Timeout)
	}
	return cfg, nil
}

// NewLogger builds a console logger writing to stderr
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zcfg.Build()
}
