// Package config loads runtime settings for the farmstand CLI.
package config

import "time"

// Config holds runtime settings for the storefront client.
//
// Fields:
//   - APIBaseURL: base URL of the product REST backend (".../api").
//   - IdentityEndpoint: base URL of the identity provider REST surface.
//   - IdentityAPIKey: project API key passed to the identity endpoints.
//   - LocalDBPath: path of the local SQLite key/value store.
//   - HTTPTimeout: per-request timeout; zero keeps the transport default.
type Config struct {
	APIBaseURL       string
	IdentityEndpoint string
	IdentityAPIKey   string
	LocalDBPath      string
	HTTPTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults pointing at a local
// devserver.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.IdentityEndpoint = "http://127.0.0.1:8080/identity"
	c.IdentityAPIKey = "dev"
	c.LocalDBPath = "farmstand.db"
	c.HTTPTimeout = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
