package core

import (
	"context"
	"strings"
)

// ChatStream is a streaming chat completion.
//
// Channel rules:
//   - the producer closes Ch, Err and Final when finished
//   - on context cancellation the producer terminates promptly
//   - Err emits at most one error
//   - Final emits exactly once on success, zero times on failure
type ChatStream struct {
	// Ch emits chunks in arrival order.
	Ch <-chan ChatCompletionStreamOutput

	// Err emits at most one error.
	Err <-chan error

	// Final carries the assembled completion: id, model, usage, tool calls.
	// Its message content may be empty; DrainStream fills it from the deltas.
	Final <-chan *ChatCompletionOutput
}

// DrainStream reads the whole stream and returns the assembled completion.
// It blocks until the stream completes or ctx is done.
func DrainStream(ctx context.Context, s *ChatStream) (*ChatCompletionOutput, error) {
	if s == nil {
		return nil, InputError("nil stream")
	}

	var content strings.Builder
	var streamErr error
	var final *ChatCompletionOutput

	ch, errCh, finalCh := s.Ch, s.Err, s.Final
	for ch != nil || errCh != nil || finalCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case chunk, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			for _, c := range chunk.Choices {
				if c.Index == 0 {
					content.WriteString(c.Delta.Content)
				}
			}

		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil && streamErr == nil {
				streamErr = err
			}

		case resp, ok := <-finalCh:
			if !ok {
				finalCh = nil
				continue
			}
			final = resp
		}
	}

	if streamErr != nil {
		return nil, streamErr
	}

	if final == nil {
		final = &ChatCompletionOutput{}
	}
	if len(final.Choices) == 0 {
		final.Choices = []ChatCompletionChoice{{Message: ChatMessage{Role: RoleAssistant}}}
	}
	if final.Choices[0].Message.Content == "" {
		final.Choices[0].Message.Content = content.String()
	}

	return final, nil
}
