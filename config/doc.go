// Package config provides configuration loading for the transcription
// service with YAML files, environment variables, and .env overlay.
//
// Configuration is resolved in three layers, later layers overriding
// earlier ones:
//
//  1. A YAML config file (config.yml in the working directory or ./config)
//  2. A .env file, when present
//  3. Process environment variables
//
// Environment variables map onto nested keys by replacing dots with
// underscores: GATEWAY_API_KEY overrides gateway.api_key.
//
// Usage:
//
//	var cfg config.Config
//	if err := config.Load("joraps", &cfg); err != nil {
//		log.Fatal(err)
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
package config
