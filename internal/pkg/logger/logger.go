// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
)

// SetupLogger initializes the application logger. Log records carry request
// scoped attributes extracted from the context, and sensitive values are
// masked before they reach the output.
func SetupLogger(level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = NewPrettyTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	handler = NewSanitizationHandler(NewContextHandler(handler))

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultContextKeys() []ContextKey {
	return []ContextKey{
		ContextKeyRequestID,
		ContextKeyClientIP,
		ContextKeyMethod,
		ContextKeyPath,
	}
}

func extractContextAttrs(ctx context.Context, keys []ContextKey) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range keys {
		if value := ctx.Value(key); value != nil {
			if s, ok := value.(string); ok && s != "" {
				attrs = append(attrs, slog.String(string(key), s))
			}
		}
	}
	return attrs
}
