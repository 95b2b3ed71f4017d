// Package config holds the runtime configuration of the gompi binaries,
// loadable from a YAML file with sensible defaults for local runs.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Workers is the group size for the in-process modes.
	Workers int `yaml:"workers"`
	// LogLevel is a logrus level name (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	HTTP HTTPConfig `yaml:"http"`
	NATS NATSConfig `yaml:"nats"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
	// Subject is the subject prefix shared by all ranks of one group.
	Subject string `yaml:"subject"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:  runtime.NumCPU(),
		LogLevel: "info",
		HTTP:     HTTPConfig{Port: 3000},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "gompi",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid http port %d", c.HTTP.Port)
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("config: nats url must not be empty")
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("config: nats subject must not be empty")
	}
	return nil
}

// Level returns the parsed logrus level. Validate must have passed.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
