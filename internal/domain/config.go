package domain

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the TMDB API key.
const APIKeyEnv = "TMDB_API_KEY"

// Defaults applied before the configuration file is read.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Config represents the server configuration.
// It is loaded from an optional YAML file; the API key always comes from the environment.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	TMDB      TMDBConfig      `yaml:"tmdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TMDBConfig defines how the upstream metadata service is reached.
type TMDBConfig struct {
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`
	// Timeout bounds each outbound request. Zero keeps the transport default.
	Timeout time.Duration `yaml:"timeout"`

	APIKey string `yaml:"-"`
}

// LoggingConfig defines log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{Type: "stdio"},
		TMDB: TMDBConfig{
			BaseURL:      DefaultBaseURL,
			ImageBaseURL: DefaultImageBaseURL,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ReadConfig builds a configuration from defaults, the optional YAML file at
// path and the environment, without validating it.
func ReadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("configuration file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
		}
	}

	config.TMDB.APIKey = os.Getenv(APIKeyEnv)
	return config, nil
}

// LoadConfig reads the configuration, applies overrides in order and
// validates the result. A missing API key is reported as a *ConfigurationError.
func LoadConfig(path string, overrides ...func(*Config)) (*Config, error) {
	config, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}

	for _, override := range overrides {
		override(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for completeness and correctness.
// All problems are collected into a single *ConfigurationError.
func (c *Config) Validate() error {
	var problems []string

	problems = append(problems, c.validateTransport()...)
	problems = append(problems, c.TMDB.validate()...)

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() []string {
	var problems []string

	if c.Transport.Type == "" {
		problems = append(problems, "transport type is required")
	} else if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		problems = append(problems, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			problems = append(problems, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			problems = append(problems, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	return problems
}

func (tc *TMDBConfig) validate() []string {
	var problems []string

	if tc.APIKey == "" {
		problems = append(problems, fmt.Sprintf("%s environment variable is required", APIKeyEnv))
	}

	problems = append(problems, validateBaseURL("tmdb base_url", tc.BaseURL)...)
	problems = append(problems, validateBaseURL("tmdb image_base_url", tc.ImageBaseURL)...)

	if tc.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("tmdb timeout %s must not be negative", tc.Timeout))
	}

	return problems
}

func validateBaseURL(field, raw string) []string {
	if raw == "" {
		return []string{fmt.Sprintf("%s is required", field)}
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return []string{fmt.Sprintf("%s is invalid: %v", field, err)}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return []string{fmt.Sprintf("%s must use http or https scheme", field)}
	}
	if parsedURL.Host == "" {
		return []string{fmt.Sprintf("%s must include a host", field)}
	}

	return nil
}
