package inference

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/internal/toolcalls"
	"github.com/petal-labs/hfgo/providers"
)

// ChatCompletionStream sends a streaming chat completion request and returns
// once the provider accepted it. Connection failures are retried; a stream
// that broke after the first chunk is not.
func (c *Client) ChatCompletionStream(ctx context.Context, in *core.ChatCompletionInput) (*core.ChatStream, error) {
	if in == nil {
		return nil, core.InputError("nil chat completion input")
	}

	r, err := c.ResolveTask(ctx, in.Target, core.TaskConversational)
	if err != nil {
		return nil, err
	}
	req := *in
	req.Stream = true
	r.Params.Args = &req

	if err := r.Handler.Validate(r.Params); err != nil {
		return nil, err
	}
	body, err := r.Handler.MakeBody(r.Params)
	if err != nil {
		return nil, err
	}
	headers := r.Handler.PrepareHeaders(r.Params, false)
	headers.Set("Accept", "text/event-stream")

	start := time.Now()
	c.telemetry.OnRequestStart(core.RequestStartEvent{
		Provider: r.Provider,
		Task:     core.TaskConversational,
		Model:    in.Model,
		Start:    start,
	})

	var resp *http.Response
	attempts := 0
	err = core.Retry(ctx, c.retry, func(ctx context.Context) error {
		attempts++
		var err error
		resp, err = c.send(ctx, r, headers, body)
		return err
	})
	if err != nil {
		c.telemetry.OnRequestEnd(core.RequestEndEvent{
			Provider: r.Provider,
			Task:     core.TaskConversational,
			Model:    in.Model,
			Start:    start,
			End:      time.Now(),
			Attempts: attempts,
			Err:      err,
		})
		c.logger.Warn("stream request failed", zap.String("provider", r.Provider), zap.Error(err))
		return nil, err
	}

	chunkCh := make(chan core.ChatCompletionStreamOutput, 100)
	errCh := make(chan error, 1)
	finalCh := make(chan *core.ChatCompletionOutput, 1)

	s := &sseReader{
		provider: r.Provider,
		body:     resp.Body,
		chunks:   chunkCh,
		errs:     errCh,
		final:    finalCh,
	}
	go func() {
		final, err := s.run(ctx)
		end := core.RequestEndEvent{
			Provider: r.Provider,
			Task:     core.TaskConversational,
			Model:    in.Model,
			Start:    start,
			End:      time.Now(),
			Attempts: attempts,
			Err:      err,
		}
		if final != nil {
			end.Usage = final.Usage
		}
		c.telemetry.OnRequestEnd(end)
	}()

	return &core.ChatStream{Ch: chunkCh, Err: errCh, Final: finalCh}, nil
}

// sseReader turns an OpenAI-compatible server-sent event stream into
// ChatStream chunks.
type sseReader struct {
	provider string
	body     io.ReadCloser
	chunks   chan<- core.ChatCompletionStreamOutput
	errs     chan<- error
	final    chan<- *core.ChatCompletionOutput
}

// run reads the stream to the end and closes every channel. It returns the
// final completion or the error that was sent.
func (s *sseReader) run(ctx context.Context) (*core.ChatCompletionOutput, error) {
	defer s.body.Close()
	defer close(s.chunks)
	defer close(s.errs)
	defer close(s.final)

	fail := func(err error) (*core.ChatCompletionOutput, error) {
		s.errs <- err
		return nil, err
	}

	reader := bufio.NewReader(s.body)
	assembler := toolcalls.NewAssembler(toolcalls.Config{EmptyArgumentsJSON: "{}"})
	final := &core.ChatCompletionOutput{Object: "chat.completion"}
	var content strings.Builder
	var finishReason string

	for {
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			if ctx.Err() != nil {
				return fail(ctx.Err())
			}
			return fail(providers.NetworkError(s.provider, err))
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data:") {
			if eof {
				break
			}
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		if e := gjson.Get(payload, "error"); e.Exists() {
			return fail(providers.NormalizeError(s.provider, http.StatusInternalServerError, []byte(payload), "", http.MethodPost, ""))
		}

		var chunk core.ChatCompletionStreamOutput
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return fail(providers.DecodeError(s.provider, err))
		}

		if chunk.ID != "" {
			final.ID = chunk.ID
		}
		if chunk.Model != "" {
			final.Model = chunk.Model
		}
		if chunk.Created != 0 {
			final.Created = chunk.Created
		}
		if chunk.Usage != nil {
			final.Usage = *chunk.Usage
		}
		for _, choice := range chunk.Choices {
			if choice.Index != 0 {
				continue
			}
			content.WriteString(choice.Delta.Content)
			for _, tc := range choice.Delta.ToolCalls {
				assembler.Add(tc)
			}
			if choice.FinishReason != nil {
				finishReason = *choice.FinishReason
			}
		}

		select {
		case s.chunks <- chunk:
		case <-ctx.Done():
			return fail(ctx.Err())
		}

		if eof {
			break
		}
	}

	calls, err := assembler.Finalize()
	if err != nil {
		return fail(providers.DecodeError(s.provider, err))
	}

	final.Choices = []core.ChatCompletionChoice{{
		Message: core.ChatMessage{
			Role:      core.RoleAssistant,
			Content:   content.String(),
			ToolCalls: calls,
		},
		FinishReason: finishReason,
	}}
	s.final <- final
	return final, nil
}
