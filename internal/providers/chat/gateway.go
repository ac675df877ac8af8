package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"flowershop/internal/domain"
	"flowershop/internal/providers/image"
)

const defaultChatModel = openai.GPT4o

// Options configures the completion gateway.
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	Model        string
	HTTPClient   *http.Client
	Images       image.Generator
	Logger       zerolog.Logger
}

// Gateway streams chat completions from the hosted model and runs the image
// tool on its behalf.
type Gateway struct {
	client *openai.Client
	model  string
	images image.Generator
	logger zerolog.Logger
}

// NewGateway wires a Gateway from the supplied options.
func NewGateway(opts Options) *Gateway {
	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	if org := strings.TrimSpace(opts.Organization); org != "" {
		cfg.OrgID = org
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultChatModel
	}
	return &Gateway{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		images: opts.Images,
		logger: opts.Logger,
	}
}

// Model reports the chat model in use.
func (g *Gateway) Model() string {
	return g.model
}

// Stream forwards the redacted history to the model and returns an ordered
// event channel. The channel is closed once the finish or error event has been
// delivered, or when ctx is cancelled.
func (g *Gateway) Stream(ctx context.Context, messages []Message) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		g.run(ctx, messages, out)
	}()
	return out
}

func (g *Gateway) run(ctx context.Context, messages []Message, out chan<- Event) {
	emit := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		emit(Event{Type: EventError, Err: err})
	}

	if err := Validate(messages); err != nil {
		fail(err)
		return
	}

	req := openai.ChatCompletionRequest{
		Model:         g.model,
		Messages:      toChatMessages(RedactImagePayloads(messages)),
		Tools:         Tools(),
		Stream:        true,
		StreamOptions: &openai.StreamOptions{IncludeUsage: true},
	}
	started := time.Now()
	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		fail(fmt.Errorf("%w: %v", domain.ErrProviderFailure, err))
		return
	}
	defer stream.Close()

	calls := &toolCallAccumulator{}
	finishReason := ""
	var usage Usage
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(fmt.Errorf("%w: %v", domain.ErrProviderFailure, err))
			return
		}
		if resp.Usage != nil {
			usage = Usage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens}
		}
		for _, choice := range resp.Choices {
			if choice.Delta.Content != "" {
				if !emit(Event{Type: EventTextDelta, Text: choice.Delta.Content}) {
					return
				}
			}
			for _, tc := range choice.Delta.ToolCalls {
				call, isNew := calls.add(tc)
				if isNew {
					if !emit(Event{Type: EventToolCallStarted, ToolCallID: call.id, ToolName: call.name}) {
						return
					}
				}
				if tc.Function.Arguments != "" {
					if !emit(Event{Type: EventToolCallDelta, ToolCallID: call.id, ArgsDelta: tc.Function.Arguments}) {
						return
					}
				}
			}
			if choice.FinishReason != "" {
				finishReason = string(choice.FinishReason)
			}
		}
	}
	g.logger.Debug().
		Str("model", g.model).
		Int("tool_calls", len(calls.calls)).
		Dur("elapsed", time.Since(started)).
		Msg("chat stream completed")

	for _, call := range calls.ordered() {
		args := call.arguments()
		if !emit(Event{Type: EventToolCall, ToolCallID: call.id, ToolName: call.name, Args: json.RawMessage(args)}) {
			return
		}
		result, err := g.execute(ctx, call.name, args)
		if err != nil {
			fail(err)
			return
		}
		if !emit(Event{Type: EventToolResult, ToolCallID: call.id, ToolName: call.name, Result: result}) {
			return
		}
	}

	emit(Event{Type: EventFinish, FinishReason: normalizeFinishReason(finishReason), Usage: usage})
}

func (g *Gateway) execute(ctx context.Context, name, rawArgs string) (any, error) {
	if name != ImageToolName {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	if g.images == nil {
		return nil, fmt.Errorf("%w: image generator not configured", domain.ErrProviderFailure)
	}
	args, err := parseImageToolArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	return g.images.Generate(ctx, args.Prompt)
}

func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return "stop"
	case "length":
		return "length"
	case "tool_calls", "function_call":
		return "tool-calls"
	case "content_filter":
		return "content-filter"
	case "":
		return "unknown"
	default:
		return "other"
	}
}

type pendingCall struct {
	index int
	id    string
	name  string
	args  strings.Builder
}

func (c *pendingCall) arguments() string {
	args := strings.TrimSpace(c.args.String())
	if args == "" {
		return "{}"
	}
	return args
}

type toolCallAccumulator struct {
	calls []*pendingCall
}

// add merges a streamed tool call fragment and reports whether it opened a
// new call.
func (a *toolCallAccumulator) add(tc openai.ToolCall) (*pendingCall, bool) {
	index := len(a.calls)
	if tc.Index != nil {
		index = *tc.Index
	} else if tc.ID == "" && len(a.calls) > 0 {
		index = a.calls[len(a.calls)-1].index
	}
	for _, call := range a.calls {
		if call.index == index {
			if call.name == "" {
				call.name = tc.Function.Name
			}
			call.args.WriteString(tc.Function.Arguments)
			return call, false
		}
	}
	call := &pendingCall{index: index, id: tc.ID, name: tc.Function.Name}
	if call.id == "" {
		call.id = "call_" + uuid.NewString()
	}
	call.args.WriteString(tc.Function.Arguments)
	a.calls = append(a.calls, call)
	return call, true
}

func (a *toolCallAccumulator) ordered() []*pendingCall {
	out := append([]*pendingCall(nil), a.calls...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}
