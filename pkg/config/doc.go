// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing. Each configuration
// type is parsed once and cached for the lifetime of the process; Reset
// clears the cache, which tests use after changing the environment.
//
// # Usage
//
//	var cfg signuri.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Load reads ./.env on first use if it exists. LoadEnv loads explicit files;
// variables already present in the environment are never overwritten, and
// with several files the first one to define a variable wins.
//
// # Error Handling
//
// Parsing failures wrap ErrParsingConfig; a nil destination returns
// ErrNilPointer.
package config
