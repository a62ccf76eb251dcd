// Package config provides centralized configuration management for salesreg.
// It loads configuration from several sources, validates it and exposes a
// typed struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones
// overriding earlier ones:
//
//  1. Default values (Default)
//  2. A YAML file (explicit path, or salesreg.yaml / configs/salesreg.yaml)
//  3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern SALESREG_<SECTION>_<FIELD>:
//
//	SALESREG_LOGGING_LEVEL=debug
//	SALESREG_PIPELINE_SEED=42
//	SALESREG_SERVER_ADDR=:9090
//	SALESREG_SERVER_RATE_LIMIT_RPS=2
//	SALESREG_TELEMETRY_TRACING=stdout
//	SALESREG_STORE_FILE=/var/lib/salesreg/runs.db
//
// # Validation
//
// Field constraints are declared with validate tags and checked by
// go-playground/validator once all sources are applied. Unknown keys in the
// YAML file are rejected.
//
// # Usage
//
//	cfg, err := config.Load(configPath)
//	if err != nil {
//	    return err
//	}
package config
