package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next CallFunc) CallFunc {
			return func(ctx context.Context, in Data, c *inference.Client) (Data, error) {
				order = append(order, name)
				return next(ctx, in, c)
			}
		}
	}
	base := func(context.Context, Data, *inference.Client) (Data, error) {
		order = append(order, "call")
		return Data{}, nil
	}

	_, err := Chain(mark("outer"), mark("inner"))(base)(context.Background(), Data{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "call"}, order)
}

func TestWithTimeoutPassesResult(t *testing.T) {
	call := WithTimeout(time.Second)(func(context.Context, Data, *inference.Client) (Data, error) {
		return Data{Text: "ok"}, nil
	})
	out, err := call(context.Background(), Data{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
}

func TestWithTimeoutErrors(t *testing.T) {
	block := func(ctx context.Context, _ Data, _ *inference.Client) (Data, error) {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return Data{}, nil
	}

	_, err := WithTimeout(5 * time.Millisecond)(block)(context.Background(), Data{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timeout after 5ms")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = WithTimeout(time.Second)(block)(ctx, Data{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, err.Error(), "timeout")
}

func TestWithLoggingFailure(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	call := WithLogging(zap.New(obs))(func(context.Context, Data, *inference.Client) (Data, error) {
		return Data{}, errors.New("nope")
	})

	ctx := ContextWithToolContext(context.Background(), &ToolContext{ToolName: "t", RunID: "r", Step: 3})
	_, err := call(ctx, Data{}, nil)
	require.Error(t, err)

	failed := logs.FilterMessage("tool call failed").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "t", fields["tool"])
	assert.Equal(t, "r", fields["run_id"])
	assert.EqualValues(t, 3, fields["step"])
}

func TestWithRetry(t *testing.T) {
	attempts := 0
	call := WithRetry(core.NewRetryPolicy(core.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}))(
		func(context.Context, Data, *inference.Client) (Data, error) {
			attempts++
			if attempts < 3 {
				return Data{}, core.ErrServer
			}
			return Data{Text: "ok"}, nil
		})

	out, err := call(context.Background(), Data{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, 3, attempts)
}

func TestToolContextFromContextMissing(t *testing.T) {
	assert.Nil(t, ToolContextFromContext(context.Background()))
}
