package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DataStreamHeader identifies responses written in the data stream protocol.
const DataStreamHeader = "X-Vercel-AI-Data-Stream"

// PublicErrorMessage is written in place of internal error details.
const PublicErrorMessage = "An error occurred."

// Encoder writes events as data stream protocol lines, one frame per line.
type Encoder struct {
	w           io.Writer
	flusher     http.Flusher
	stepStarted bool
	messageID   string
}

// NewEncoder returns an encoder writing to w. When w is an http.Flusher every
// frame is flushed immediately.
func NewEncoder(w io.Writer, messageID string) *Encoder {
	flusher, _ := w.(http.Flusher)
	return &Encoder{w: w, flusher: flusher, messageID: messageID}
}

// SetHeaders prepares an HTTP response for streaming.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set(DataStreamHeader, "v1")
}

// Encode writes the frame(s) for ev.
func (e *Encoder) Encode(ev Event) error {
	if !e.stepStarted && ev.Type != EventError {
		e.stepStarted = true
		if err := e.frame("f", map[string]string{"messageId": e.messageID}); err != nil {
			return err
		}
	}
	switch ev.Type {
	case EventTextDelta:
		return e.frame("0", ev.Text)
	case EventToolCallStarted:
		return e.frame("b", map[string]string{"toolCallId": ev.ToolCallID, "toolName": ev.ToolName})
	case EventToolCallDelta:
		return e.frame("c", map[string]string{"toolCallId": ev.ToolCallID, "argsTextDelta": ev.ArgsDelta})
	case EventToolCall:
		args := ev.Args
		if len(args) == 0 || !json.Valid(args) {
			args = json.RawMessage("{}")
		}
		return e.frame("9", struct {
			ToolCallID string          `json:"toolCallId"`
			ToolName   string          `json:"toolName"`
			Args       json.RawMessage `json:"args"`
		}{ev.ToolCallID, ev.ToolName, args})
	case EventToolResult:
		return e.frame("a", struct {
			ToolCallID string `json:"toolCallId"`
			Result     any    `json:"result"`
		}{ev.ToolCallID, ev.Result})
	case EventError:
		return e.frame("3", PublicErrorMessage)
	case EventFinish:
		usage := ev.Usage
		if err := e.frame("e", struct {
			FinishReason string `json:"finishReason"`
			Usage        Usage  `json:"usage"`
			IsContinued  bool   `json:"isContinued"`
		}{ev.FinishReason, usage, false}); err != nil {
			return err
		}
		return e.frame("d", struct {
			FinishReason string `json:"finishReason"`
			Usage        Usage  `json:"usage"`
		}{ev.FinishReason, usage})
	default:
		return fmt.Errorf("unsupported event type %q", ev.Type)
	}
}

func (e *Encoder) frame(code string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", code, err)
	}
	if _, err := fmt.Fprintf(e.w, "%s:%s\n", code, body); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
