package config

import (
	"flag"
	"os"

	"github.com/myumkm/myumkm/internal/flagx"
)

// parseEnv overlays Config values from environment variables. Secrets and
// the DSN normally arrive this way in deployments.
//
// Recognized variables:
//
//	ADDRESS       HTTP bind address
//	DATABASE_DSN  PostgreSQL DSN
//	JWT_SECRET    token signing secret
//	ENVIRONMENT   "development" or "production"
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		config.Environment = v
	}
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-e string   environment ("development" or "production")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment (development|production)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
