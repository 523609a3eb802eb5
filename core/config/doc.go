// Package config loads typed settings from environment variables.
//
// Load parses a struct tagged for caarlos0/env. A .env file in the working
// directory is applied once per process through godotenv; variables already
// set in the environment win, and a missing file is not an error.
//
//	type busConfig struct {
//		RateLimit float64       `env:"CQBUS_RATE_LIMIT" envDefault:"50"`
//		Timeout   time.Duration `env:"CQBUS_TIMEOUT" envDefault:"5s"`
//		Logger    logger.Config
//	}
//
//	var cfg busConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Nested structs such as logger.Config are parsed with their own tags.
//
// Every struct type is parsed once. Later calls for the same type copy the
// cached value, so environment changes after the first Load are not seen.
// MustLoad panics instead of returning an error and suits program startup.
//
// Failures wrap ErrParse (or are ErrNilConfig for a nil pointer):
//
//	if errors.Is(err, config.ErrParse) {
//		// a required variable is missing or malformed
//	}
package config
