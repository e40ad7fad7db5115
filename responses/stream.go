package responses

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
)

// Stream event types, in emission order.
const (
	EventCreated          = "response.created"
	EventInProgress       = "response.in_progress"
	EventOutputItemAdded  = "response.output_item.added"
	EventContentPartAdded = "response.content_part.added"
	EventOutputTextDelta  = "response.output_text.delta"
	EventOutputTextDone   = "response.output_text.done"
	EventContentPartDone  = "response.content_part.done"
	EventOutputItemDone   = "response.output_item.done"
	EventCompleted        = "response.completed"
	EventFailed           = "response.failed"
	EventError            = "error"
)

// Event is one server-sent event of a streamed response.
type Event struct {
	Type           string         `json:"type"`
	SequenceNumber int            `json:"sequence_number"`
	Response       *Response      `json:"response,omitempty"`
	OutputIndex    *int           `json:"output_index,omitempty"`
	ContentIndex   *int           `json:"content_index,omitempty"`
	ItemID         string         `json:"item_id,omitempty"`
	Item           *OutputItem    `json:"item,omitempty"`
	Part           *ContentPart   `json:"part,omitempty"`
	Delta          string         `json:"delta,omitempty"`
	Text           string         `json:"text,omitempty"`
	Error          *ResponseError `json:"error,omitempty"`
}

type eventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

func (e *eventWriter) send(ev Event) error {
	ev.SequenceNumber = e.seq
	e.seq++
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, backend Backend, req *Request) {
	ctx := r.Context()
	stream, err := backend.ChatCompletionStream(ctx, req.ToChatCompletion())
	if err != nil {
		s.logger.Warn("chat completion stream failed", zap.String("model", req.Model), zap.Error(err))
		_ = WriteError(w, statusFor(err), err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	ew := &eventWriter{w: w, flusher: flusher}

	resp := newResponse(req)
	zero := 0
	item := newMessageItem(StatusInProgress, "")
	part := outputText("")

	// A failed write means the client went away; the stream context ends
	// with the request.
	_ = ew.send(Event{Type: EventCreated, Response: resp})
	_ = ew.send(Event{Type: EventInProgress, Response: resp})
	_ = ew.send(Event{Type: EventOutputItemAdded, OutputIndex: &zero, Item: &item})
	_ = ew.send(Event{Type: EventContentPartAdded, OutputIndex: &zero, ContentIndex: &zero, ItemID: item.ID, Part: &part})

	var text strings.Builder
	var streamErr error
	var final *core.ChatCompletionOutput
	ch, errCh, finalCh := stream.Ch, stream.Err, stream.Final
	for ch != nil || errCh != nil || finalCh != nil {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			for _, c := range chunk.Choices {
				if c.Index != 0 || c.Delta.Content == "" {
					continue
				}
				text.WriteString(c.Delta.Content)
				_ = ew.send(Event{Type: EventOutputTextDelta, OutputIndex: &zero, ContentIndex: &zero, ItemID: item.ID, Delta: c.Delta.Content})
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil && streamErr == nil {
				streamErr = err
			}
		case out, ok := <-finalCh:
			if !ok {
				finalCh = nil
				continue
			}
			final = out
		}
	}

	if streamErr != nil {
		s.logger.Warn("chat completion stream failed", zap.String("model", req.Model), zap.Error(streamErr))
		rerr := &ResponseError{Code: errorCode(statusFor(streamErr)), Message: streamErr.Error()}
		resp.Status = StatusFailed
		resp.Error = rerr
		_ = ew.send(Event{Type: EventError, Error: rerr})
		_ = ew.send(Event{Type: EventFailed, Response: resp})
		return
	}

	part.Text = text.String()
	item.Status = StatusCompleted
	item.Content = []ContentPart{part}
	_ = ew.send(Event{Type: EventOutputTextDone, OutputIndex: &zero, ContentIndex: &zero, ItemID: item.ID, Text: part.Text})
	_ = ew.send(Event{Type: EventContentPartDone, OutputIndex: &zero, ContentIndex: &zero, ItemID: item.ID, Part: &part})
	_ = ew.send(Event{Type: EventOutputItemDone, OutputIndex: &zero, Item: &item})

	resp.Status = StatusCompleted
	resp.Output = []OutputItem{item}
	if final != nil {
		resp.Usage = &Usage{
			InputTokens:  final.Usage.PromptTokens,
			OutputTokens: final.Usage.CompletionTokens,
			TotalTokens:  final.Usage.TotalTokens,
		}
	}
	_ = ew.send(Event{Type: EventCompleted, Response: resp})
}
