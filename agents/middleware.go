package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
)

// Middleware wraps a tool call.
type Middleware func(next CallFunc) CallFunc

// ToolContext describes the tool call in progress.
type ToolContext struct {
	ToolName string
	// RunID identifies the EvaluateCode run.
	RunID string
	// Step is the zero-based plan step index.
	Step int
}

type toolContextKey struct{}

// ContextWithToolContext attaches tc to ctx.
func ContextWithToolContext(ctx context.Context, tc *ToolContext) context.Context {
	return context.WithValue(ctx, toolContextKey{}, tc)
}

// ToolContextFromContext returns the ToolContext in ctx, or nil.
func ToolContextFromContext(ctx context.Context) *ToolContext {
	tc, _ := ctx.Value(toolContextKey{}).(*ToolContext)
	return tc
}

// Chain combines middleware; the first one is outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next CallFunc) CallFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// WithTimeout bounds each tool call to d.
func WithTimeout(d time.Duration) Middleware {
	return func(next CallFunc) CallFunc {
		return func(parent context.Context, input Data, client *inference.Client) (Data, error) {
			ctx, cancel := context.WithTimeout(parent, d)
			defer cancel()

			type result struct {
				out Data
				err error
			}
			ch := make(chan result, 1)
			go func() {
				out, err := next(ctx, input, client)
				ch <- result{out, err}
			}()

			select {
			case r := <-ch:
				return r.out, r.err
			case <-ctx.Done():
				if err := parent.Err(); err != nil {
					return Data{}, fmt.Errorf("tool execution canceled: %w", err)
				}
				return Data{}, fmt.Errorf("tool execution timeout after %v: %w", d, ctx.Err())
			}
		}
	}
}

// WithLogging logs the start, duration and outcome of each tool call.
// Inputs and outputs are not logged.
func WithLogging(logger *zap.Logger) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, input Data, client *inference.Client) (Data, error) {
			fields := []zap.Field{zap.String("tool", "unknown")}
			if tc := ToolContextFromContext(ctx); tc != nil {
				fields = []zap.Field{zap.String("tool", tc.ToolName), zap.String("run_id", tc.RunID), zap.Int("step", tc.Step)}
			}

			logger.Debug("tool call start", fields...)
			start := time.Now()

			out, err := next(ctx, input, client)

			fields = append(fields, zap.Duration("duration", time.Since(start)))
			if err != nil {
				logger.Warn("tool call failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("tool call done", fields...)
			}
			return out, err
		}
	}
}

// WithRetry retries tool calls that failed with a retryable provider error.
func WithRetry(policy core.RetryPolicy) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, input Data, client *inference.Client) (Data, error) {
			var out Data
			err := core.Retry(ctx, policy, func(ctx context.Context) error {
				var err error
				out, err = next(ctx, input, client)
				return err
			})
			return out, err
		}
	}
}
