package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultEndpointURL is the metrics endpoint of the default deployment
	DefaultEndpointURL = "http://localhost:8000/analysis/metrics"
	// DefaultPollIntervalInMilliseconds is the default time between two cycles
	DefaultPollIntervalInMilliseconds = 5000
	// DefaultRequestTimeoutInSeconds bounds a single fetch
	DefaultRequestTimeoutInSeconds = 4
)

// Surface kinds
const (
	SurfaceWeb      = "web"
	SurfaceTerminal = "terminal"
	SurfaceNone     = "none"
)

// Config maps to the config.toml file for the dashboard
type Config struct {
	EndpointURL                string `toml:"EndpointURL"`
	PollIntervalInMilliseconds uint32 `toml:"PollIntervalInMilliseconds"`
	RequestTimeoutInSeconds    uint32 `toml:"RequestTimeoutInSeconds"`
	Surface                    string `toml:"Surface"`
	ListenAddress              string `toml:"ListenAddress"`
	ShowStaleIndicator         bool   `toml:"ShowStaleIndicator"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills in the zero-valued fields
func (cfg *Config) ApplyDefaults() {
	if cfg.EndpointURL == "" {
		cfg.EndpointURL = DefaultEndpointURL
	}
	if cfg.PollIntervalInMilliseconds == 0 {
		cfg.PollIntervalInMilliseconds = DefaultPollIntervalInMilliseconds
	}
	if cfg.RequestTimeoutInSeconds == 0 {
		cfg.RequestTimeoutInSeconds = DefaultRequestTimeoutInSeconds
	}
	if cfg.Surface == "" {
		cfg.Surface = SurfaceWeb
	}
}
