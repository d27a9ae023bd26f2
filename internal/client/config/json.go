package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/myumkm/myumkm/internal/flagx"
	"github.com/myumkm/myumkm/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values are
// copied into the runtime Config; absent fields keep their current values.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	DatabaseDSN         *string         `json:"database_dsn"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	SessionPollInterval *timex.Duration `json:"session_poll_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path is taken from the -c or -config command-line flags; if neither is
// set, no JSON is loaded. Read or unmarshal errors panic.
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

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.SessionPollInterval != nil {
		cfg.SessionPollInterval = time.Duration(jc.SessionPollInterval.Duration)
	}
}
