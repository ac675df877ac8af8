package image

import "context"

// Mode selects how generated images are returned to the caller.
type Mode string

const (
	// ModeURL returns the provider-hosted URL of the image.
	ModeURL Mode = "url"
	// ModeInline returns the base64 encoded image payload.
	ModeInline Mode = "inline"
)

// ModeFromFlag maps the IMAGE_INLINE_MODE switch onto a Mode.
func ModeFromFlag(inline bool) Mode {
	if inline {
		return ModeInline
	}
	return ModeURL
}

// Result is the payload handed back to the chat model as the tool result.
type Result struct {
	Image  string `json:"image,omitempty"`
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// Generator is the contract implemented by image providers.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}
