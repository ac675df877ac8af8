package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"flowershop/internal/domain"
	"flowershop/internal/storage"
)

const defaultImageModel = openai.CreateImageModelDallE3

// Options configures the DALL-E generator.
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	Model        string
	Mode         Mode
	HTTPClient   *http.Client
	Store        *storage.FileStore
	Logger       zerolog.Logger
}

// DalleGenerator produces single 1024x1024 images through the OpenAI images API.
type DalleGenerator struct {
	client *openai.Client
	model  string
	mode   Mode
	store  *storage.FileStore
	logger zerolog.Logger
}

// NewDalleGenerator constructs a generator from the supplied options.
func NewDalleGenerator(opts Options) *DalleGenerator {
	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	if org := strings.TrimSpace(opts.Organization); org != "" {
		cfg.OrgID = org
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	cfg.HTTPClient = httpClient

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultImageModel
	}
	mode := opts.Mode
	if mode != ModeInline {
		mode = ModeURL
	}
	return &DalleGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		mode:   mode,
		store:  opts.Store,
		logger: opts.Logger,
	}
}

// Mode reports the configured delivery mode.
func (g *DalleGenerator) Mode() Mode {
	return g.mode
}

// Generate fulfils the Generator interface.
func (g *DalleGenerator) Generate(ctx context.Context, prompt string) (*Result, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("image generator not configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("image prompt is required")
	}

	format := openai.CreateImageResponseFormatURL
	if g.mode == ModeInline {
		format = openai.CreateImageResponseFormatB64JSON
	}
	started := time.Now()
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: format,
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.model).Msg("image generation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image response", domain.ErrProviderFailure)
	}
	g.logger.Debug().
		Str("model", g.model).
		Str("mode", string(g.mode)).
		Dur("elapsed", time.Since(started)).
		Msg("image generated")

	item := resp.Data[0]
	if g.mode == ModeURL {
		if strings.TrimSpace(item.URL) == "" {
			return nil, fmt.Errorf("%w: missing image url", domain.ErrProviderFailure)
		}
		return &Result{URL: item.URL, Prompt: prompt}, nil
	}

	if strings.TrimSpace(item.B64JSON) == "" {
		return nil, fmt.Errorf("%w: missing image payload", domain.ErrProviderFailure)
	}
	result := &Result{Image: item.B64JSON, URL: item.B64JSON, Prompt: prompt}
	if g.store != nil {
		url, err := g.persist(ctx, item.B64JSON)
		if err != nil {
			return nil, err
		}
		result.URL = url
	}
	return result, nil
}

func (g *DalleGenerator) persist(ctx context.Context, payload string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: decode image payload: %v", domain.ErrProviderFailure, err)
	}
	key, err := g.store.Write(ctx, "generated/"+uuid.NewString()+".png", data)
	if err != nil {
		return "", fmt.Errorf("persist image: %w", err)
	}
	return g.store.URL(key), nil
}

var _ Generator = (*DalleGenerator)(nil)
