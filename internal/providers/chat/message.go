package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrInvalidRequest marks a message list the gateway refuses to forward.
var ErrInvalidRequest = errors.New("invalid chat request")

// RedactedPlaceholder replaces inline image payloads in replayed history.
const RedactedPlaceholder = "redacted-for-length"

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolState is the lifecycle stage of a tool invocation recorded by the client.
type ToolState string

const (
	ToolStatePartialCall ToolState = "partial-call"
	ToolStateCall        ToolState = "call"
	ToolStateResult      ToolState = "result"
)

// ToolInvocation is a tool call the assistant made in an earlier turn.
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args,omitempty"`
	State      ToolState       `json:"state"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Message is one entry of the conversation history posted by the chat view.
type Message struct {
	ID              string           `json:"id,omitempty"`
	Role            Role             `json:"role"`
	Content         string           `json:"content"`
	ToolCallID      string           `json:"toolCallId,omitempty"`
	ToolInvocations []ToolInvocation `json:"toolInvocations,omitempty"`
}

// Validate rejects empty histories and unknown roles.
func Validate(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages are required", ErrInvalidRequest)
	}
	for i, m := range messages {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleTool:
		default:
			return fmt.Errorf("%w: message %d has unsupported role %q", ErrInvalidRequest, i, m.Role)
		}
	}
	return nil
}

// RedactImagePayloads returns a copy of messages in which every completed
// image tool result carries the placeholder instead of the inline image.
// The input slice is left untouched.
func RedactImagePayloads(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = m
		if m.Role != RoleAssistant || len(m.ToolInvocations) == 0 {
			continue
		}
		invocations := make([]ToolInvocation, len(m.ToolInvocations))
		for j, inv := range m.ToolInvocations {
			if inv.ToolName == ImageToolName && inv.State == ToolStateResult {
				inv.Result = redactResult(inv.Result)
			}
			invocations[j] = inv
		}
		out[i].ToolInvocations = invocations
	}
	return out
}

func redactResult(raw json.RawMessage) json.RawMessage {
	fields := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			// Not an object; forward only the placeholder.
			fields = map[string]any{}
		}
	}
	fields["image"] = RedactedPlaceholder
	if url, ok := fields["url"].(string); ok && !isRemoteURL(url) {
		fields["url"] = RedactedPlaceholder
	}
	redacted, err := json.Marshal(fields)
	if err != nil {
		return json.RawMessage(`{"image":"` + RedactedPlaceholder + `"}`)
	}
	return redacted
}

func isRemoteURL(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}

// toChatMessages converts history into chat-completion messages. Tool
// invocations that never produced a result are dropped.
func toChatMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleUser:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		case RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
			})
		case RoleAssistant:
			assistant := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
			var results []openai.ChatCompletionMessage
			for _, inv := range m.ToolInvocations {
				if inv.State != ToolStateResult || inv.ToolCallID == "" {
					continue
				}
				args := string(inv.Args)
				if strings.TrimSpace(args) == "" {
					args = "{}"
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ToolCall{
					ID:   inv.ToolCallID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      inv.ToolName,
						Arguments: args,
					},
				})
				content := string(inv.Result)
				if content == "" {
					content = "null"
				}
				results = append(results, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    content,
					ToolCallID: inv.ToolCallID,
				})
			}
			if assistant.Content == "" && len(assistant.ToolCalls) == 0 {
				continue
			}
			out = append(out, assistant)
			out = append(out, results...)
		}
	}
	return out
}
