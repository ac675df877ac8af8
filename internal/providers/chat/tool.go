package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// ImageToolName is the only tool exposed to the model.
const ImageToolName = "generateImage"

const imageToolDescription = "Generate an image"

const imagePromptInstruction = "You generate hyper-realistic, high-resolution flower images, including raw photographs, " +
	"analog-style photos, and 4K Fujifilm-quality images. As an expert floral designer, your images must be clear, " +
	"detailed, and realistic enough for florists to use as references when creating physical bouquets. You should " +
	"only generate images of floral arrangements, bouquets, single flowers, or other flower-related designs that a " +
	"florist would sell. Avoid generating non-flower-related images. Your images should accurately reflect the " +
	"requested floral styles, colors, and compositions."

// Tools returns the tool definitions sent with every completion request.
func Tools() []openai.Tool {
	return []openai.Tool{{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ImageToolName,
			Description: imageToolDescription,
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"prompt": {
						Type:        jsonschema.String,
						Description: imagePromptInstruction,
					},
				},
				Required: []string{"prompt"},
			},
		},
	}}
}

type imageToolArgs struct {
	Prompt string `json:"prompt"`
}

func parseImageToolArgs(raw string) (imageToolArgs, error) {
	var args imageToolArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return args, fmt.Errorf("decode %s arguments: %w", ImageToolName, err)
	}
	args.Prompt = strings.TrimSpace(args.Prompt)
	if args.Prompt == "" {
		return args, fmt.Errorf("%s: prompt is required", ImageToolName)
	}
	return args, nil
}
