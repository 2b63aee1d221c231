// Package config assembles the client's runtime settings from, in order of
// increasing precedence: built-in defaults, a JSON file (-c/-config), the
// environment, and command-line flags.
package config

import "time"

// Config holds runtime settings for the biblio CLI.
type Config struct {
	// Base URLs of the three microservices, including their API prefix,
	// e.g. https://host/api/autor.
	AuthServiceURL   string `env:"BIBLIO_AUTH_URL"`
	AuthorServiceURL string `env:"BIBLIO_AUTOR_URL"`
	BookServiceURL   string `env:"BIBLIO_LIBRO_URL"`

	// DebounceWindow is the search quiescence window.
	DebounceWindow time.Duration `env:"BIBLIO_DEBOUNCE_WINDOW"`

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration `env:"BIBLIO_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthServiceURL = "http://localhost:8080/api/auth"
	c.AuthorServiceURL = "http://localhost:8080/api/autor"
	c.BookServiceURL = "http://localhost:8080/api/libro"
	c.DebounceWindow = 400 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
