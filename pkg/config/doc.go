// Package config loads operator configuration from environment variables.
//
// It wraps github.com/joho/godotenv for optional .env files and
// github.com/caarlos0/env/v11 for parsing tagged structs. Every package that
// has settings exposes an env-tagged Config; the operator binary composes them:
//
//	type Config struct {
//	    OpenSearch opensearch.Config
//	    Lock       opslock.Config
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// # Error Handling
//
//   - ErrParsingConfig – env vars could not be parsed into the struct.
//   - ErrNilPointer – Load was given a nil pointer.
//   - ErrLoadEnvFile – a .env file passed to LoadEnv could not be read.
package config
