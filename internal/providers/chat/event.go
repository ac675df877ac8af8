package chat

import "encoding/json"

// EventType tags the variant carried by an Event.
type EventType string

const (
	EventTextDelta       EventType = "text-delta"
	EventToolCallStarted EventType = "tool-call-started"
	EventToolCallDelta   EventType = "tool-call-delta"
	EventToolCall        EventType = "tool-call"
	EventToolResult      EventType = "tool-result"
	EventError           EventType = "error"
	EventFinish          EventType = "finish"
)

// Usage reports token consumption for the model step.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// Event is one item of the ordered completion stream. Only the fields that
// belong to Type are populated.
type Event struct {
	Type         EventType
	Text         string
	ToolCallID   string
	ToolName     string
	ArgsDelta    string
	Args         json.RawMessage
	Result       any
	Err          error
	FinishReason string
	Usage        Usage
}
