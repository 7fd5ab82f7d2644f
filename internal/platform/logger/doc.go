// Package logger configures the process-wide slog JSON handler and carries
// request-scoped loggers through context.Context.
package logger
