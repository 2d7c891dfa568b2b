package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/farmstand/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the product API (default from Config)
//	-e string   identity provider endpoint
//	-k string   identity provider API key
//	-d string   local database path
//	-t int      HTTP timeout in seconds (0 = transport default)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-k", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the product API")
	fs.StringVar(&cfg.IdentityEndpoint, "e", cfg.IdentityEndpoint, "identity provider endpoint")
	fs.StringVar(&cfg.IdentityAPIKey, "k", cfg.IdentityAPIKey, "identity provider API key")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "local database path")
	timeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "HTTP timeout (in seconds, 0 disables)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*timeout) * time.Second
}

// parseEnv overlays Config with FARMSTAND_* environment variables. The API
// base URL in particular is expected to come from the environment in
// deployed setups.
func parseEnv(cfg *Config) {
	if v := os.Getenv("FARMSTAND_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("FARMSTAND_IDENTITY_URL"); v != "" {
		cfg.IdentityEndpoint = v
	}
	if v := os.Getenv("FARMSTAND_IDENTITY_KEY"); v != "" {
		cfg.IdentityAPIKey = v
	}
	if v := os.Getenv("FARMSTAND_DB"); v != "" {
		cfg.LocalDBPath = v
	}
	if v := os.Getenv("FARMSTAND_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
}
