package config

import (
	"encoding/json"
	"os"

	"github.com/myumkm/myumkm/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct. Absent fields keep their current values.
type JsonConfig struct {
	EndpointAddr *string `json:"endpoint_addr"`
	DatabaseDSN  *string `json:"database_dsn"`
	SecretKey    *string `json:"secret_key"`
	Environment  *string `json:"environment"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config
// command-line flags; if neither is set, no JSON file is loaded. If the
// file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.Environment != nil {
		config.Environment = *c.Environment
	}
}
