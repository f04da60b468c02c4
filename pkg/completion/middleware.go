package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Middleware wraps a Completer, returning a new Completer with added behaviour.
type Middleware func(next Completer) Completer

// Chain wraps c with the given middlewares. The first middleware listed
// becomes the outermost layer.
func Chain(c Completer, mws ...Middleware) Completer {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}

	return c
}

// --- Recovery middleware ---

// Recovery returns a Middleware that catches panics and converts them to errors.
func Recovery() Middleware {
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, req Request) (resp Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("completion panicked: %v", r)
				}
			}()

			return next.Complete(ctx, req)
		})
	}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs each call's model, duration, token
// usage, and error.
func Logger(log *slog.Logger) Middleware {
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, req Request) (Response, error) {
			log.DebugContext(ctx, "completion started",
				"model", req.Model,
				"prompt_len", len(req.Prompt),
				"temperature", req.Settings.Temperature,
				"max_tokens", req.Settings.MaxTokens,
			)

			start := time.Now()

			resp, err := next.Complete(ctx, req)

			duration := time.Since(start)

			if err != nil {
				log.ErrorContext(ctx, "completion finished with error",
					"model", req.Model,
					"duration", duration,
					"kind", string(KindOf(err)),
					"error", err,
				)
			} else {
				log.InfoContext(ctx, "completion finished",
					"model", resp.Model,
					"duration", duration,
					"input_tokens", resp.Usage.InputTokens,
					"output_tokens", resp.Usage.OutputTokens,
				)
			}

			return resp, err
		})
	}
}
