package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jcastrov/biblio/internal/flagx"
	"github.com/jcastrov/biblio/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. timex.Duration
// lets the file spell intervals either as strings like "400ms" or as integer
// nanoseconds.
type jsonConfig struct {
	AuthServiceURL   *string         `json:"auth_service_url"`
	AuthorServiceURL *string         `json:"author_service_url"`
	BookServiceURL   *string         `json:"book_service_url"`
	DebounceWindow   *timex.Duration `json:"debounce_window"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
}

// parseJSON overlays cfg with values from the JSON file named by -c/-config.
// Absent file flag means no JSON layer. Fields missing from the file keep
// their current values.
func parseJSON(cfg *Config) error {
	path := flagx.ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if jc.AuthServiceURL != nil {
		cfg.AuthServiceURL = *jc.AuthServiceURL
	}
	if jc.AuthorServiceURL != nil {
		cfg.AuthorServiceURL = *jc.AuthorServiceURL
	}
	if jc.BookServiceURL != nil {
		cfg.BookServiceURL = *jc.BookServiceURL
	}
	if jc.DebounceWindow != nil {
		cfg.DebounceWindow = jc.DebounceWindow.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
