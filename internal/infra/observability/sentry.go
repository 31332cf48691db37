// Package observability wires error reporting.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"

	"fintrack/config"
)

// InitSentry initialises error reporting. A missing DSN disables it, which is
// the normal state in development.
func InitSentry(cfg *config.Config) error {
	if cfg.Sentry == nil || cfg.Sentry.DSN == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Env.Env,
		AttachStacktrace: true,
	})
}

// FlushSentry drains buffered events on shutdown.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
