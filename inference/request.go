package inference

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// call runs one task request and returns the decoded output.
func call[T any](ctx context.Context, c *Client, task core.Task, target core.Target, args any, data *core.Blob) (T, error) {
	var zero T

	out, err := c.do(ctx, task, target, args, data)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, core.OutputError(string(task), "unexpected output type")
	}
	return typed, nil
}

func (c *Client) do(ctx context.Context, task core.Task, target core.Target, args any, data *core.Blob) (any, error) {
	r, err := c.ResolveTask(ctx, target, task)
	if err != nil {
		return nil, err
	}
	r.Params.Args = args
	r.Params.Data = data

	if err := r.Handler.Validate(r.Params); err != nil {
		return nil, err
	}

	body, err := r.Handler.MakeBody(r.Params)
	if err != nil {
		return nil, err
	}
	headers := r.Handler.PrepareHeaders(r.Params, r.Handler.IsBinaryInput())

	start := time.Now()
	c.telemetry.OnRequestStart(core.RequestStartEvent{
		Provider: r.Provider,
		Task:     task,
		Model:    target.Model,
		Start:    start,
	})

	var raw *providers.RawResponse
	attempts := 0
	err = core.Retry(ctx, c.retry, func(ctx context.Context) error {
		attempts++
		resp, err := c.send(ctx, r, headers, body)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return providers.NetworkError(r.Provider, err)
		}
		raw = &providers.RawResponse{
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        respBody,
		}
		return nil
	})

	var out any
	if err == nil {
		out, err = r.Handler.GetResponse(raw)
	}

	var usage core.Usage
	if chat, ok := out.(*core.ChatCompletionOutput); ok {
		usage = chat.Usage
	}
	c.telemetry.OnRequestEnd(core.RequestEndEvent{
		Provider: r.Provider,
		Task:     task,
		Model:    target.Model,
		Start:    start,
		End:      time.Now(),
		Attempts: attempts,
		Usage:    usage,
		Err:      err,
	})

	if err != nil {
		c.logger.Warn("inference request failed",
			zap.String("provider", r.Provider),
			zap.String("task", string(task)),
			zap.String("model", target.Model),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return nil, err
	}
	c.logger.Debug("inference request done",
		zap.String("provider", r.Provider),
		zap.String("task", string(task)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// send posts body to r.URL. A status of 400 or above is returned as a
// normalized ProviderError with the body consumed.
func (c *Client) send(ctx context.Context, r *Resolved, headers http.Header, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return nil, providers.NetworkError(r.Provider, err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, providers.NetworkError(r.Provider, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, providers.NormalizeError(r.Provider, resp.StatusCode, respBody,
			resp.Header.Get("x-request-id"), http.MethodPost, r.URL)
	}
	return resp, nil
}
