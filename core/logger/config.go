package logger

import "log/slog"

// Config holds environment-driven logger settings.
// Load it with config.Load and pass it to NewFromConfig.
type Config struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Format      string `env:"LOG_FORMAT" envDefault:"text"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"cqbus"`
}

// NewFromConfig creates a logger from cfg. Extra options are applied last.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithLevel(ParseLevel(cfg.Level))}

	if cfg.Format == formatJSON {
		base = append(base, WithJSONFormatter())
	} else {
		base = append(base, WithTextFormatter())
	}

	if cfg.ServiceName != "" {
		base = append(base, WithAttr(slog.String("service", cfg.ServiceName)))
	}

	return New(append(base, opts...)...)
}
