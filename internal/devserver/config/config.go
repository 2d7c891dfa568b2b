// Package config loads runtime settings for the farmstand devserver.
package config

import (
	"flag"
	"os"
	"time"
)

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: listen address.
//   - DBPath: SQLite database path.
//   - MediaDir: directory for uploaded product images and thumbnails.
//   - JWTSecret: HS256 signing key for issued identity tokens.
//   - TokenTTL: validity window of issued ID tokens.
type Config struct {
	Addr      string
	DBPath    string
	MediaDir  string
	JWTSecret string
	TokenTTL  time.Duration
}

// LoadDefaults populates c with zero-setup local development values.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DBPath = "devserver.db"
	c.MediaDir = "media"
	c.JWTSecret = "dev-secret"
	c.TokenTTL = time.Hour
}

// LoadConfig constructs a Config from defaults, environment variables, and
// command-line flags, in that precedence order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("DEVSERVER_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DEVSERVER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DEVSERVER_MEDIA_DIR"); v != "" {
		cfg.MediaDir = v
	}
	if v := os.Getenv("DEVSERVER_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("DEVSERVER_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
}

func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.MediaDir, "media", cfg.MediaDir, "media directory")
	fs.StringVar(&cfg.JWTSecret, "secret", cfg.JWTSecret, "jwt signing secret")

	_ = fs.Parse(os.Args[1:])
}
