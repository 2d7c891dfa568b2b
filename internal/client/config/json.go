package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/farmstand/internal/flagx"
	"github.com/dmitrijs2005/farmstand/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL       string         `json:"api_base_url"`
	IdentityEndpoint string         `json:"identity_endpoint"`
	IdentityAPIKey   string         `json:"identity_api_key"`
	LocalDBPath      string         `json:"local_db_path"`
	HTTPTimeout      timex.Duration `json:"http_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file named via the
// -c/-config flags. Missing file path means no JSON is loaded. Read or
// unmarshal errors panic; intended usage is defaults -> parseJson ->
// parseEnv -> parseFlags, where later stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.IdentityEndpoint != "" {
		cfg.IdentityEndpoint = jc.IdentityEndpoint
	}
	if jc.IdentityAPIKey != "" {
		cfg.IdentityAPIKey = jc.IdentityAPIKey
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
}
