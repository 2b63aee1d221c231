package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with any BIBLIO_* environment variables present.
// Unset variables leave the current values untouched.
func parseEnv(cfg *Config) error {
	return env.Parse(cfg)
}
