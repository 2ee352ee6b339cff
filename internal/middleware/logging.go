package middleware

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is the process-wide structured logger. Log through it with the
// *Context variants so request-scoped ids reach the output.
var Logger *slog.Logger

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	TraceIDKey   contextKey = "trace_id"
)

// ctxHandler decorates every record with whatever request-scoped ids the
// context carries before delegating to the wrapped handler.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range []contextKey{RequestIDKey, UserIDKey, TraceIDKey} {
		if v, ok := ctx.Value(key).(string); ok {
			r.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func init() {
	// JSON in production for log shipping, plain text locally.
	var inner slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if os.Getenv("APP_ENV") == "production" {
		inner = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		inner = slog.NewTextHandler(os.Stdout, opts)
	}
	Logger = slog.New(&ctxHandler{inner})
}

// copyLocal moves one string-valued Fiber local into the request context
// under the given key.
func copyLocal(c *fiber.Ctx, ctx context.Context, local string, key contextKey) context.Context {
	if v, ok := c.Locals(local).(string); ok && v != "" {
		return context.WithValue(ctx, key, v)
	}
	return ctx
}

// ContextMiddleware copies the request id, authenticated user id, and trace
// id from Fiber locals into the request context, so ctxHandler can attach
// them to log lines emitted anywhere below the handler.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		ctx = copyLocal(c, ctx, "requestid", RequestIDKey)
		ctx = copyLocal(c, ctx, "userID", UserIDKey)
		ctx = copyLocal(c, ctx, "traceID", TraceIDKey)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger emits one slog line per request with method, path, status
// and latency.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get("User-Agent")),
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			Logger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
