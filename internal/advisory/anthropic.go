package advisory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicGenerator uses the Anthropic Messages API.
type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropicGenerator(cfg Config) (*anthropicGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(newHTTPClient()),
		// Retries are owned by the advisor so the timeout budget stays in one place.
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	return &anthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(cfg.maxTokens()),
	}, nil
}

func (g *anthropicGenerator) Name() string { return ProviderAnthropic }

func (g *anthropicGenerator) Generate(ctx context.Context, req Request) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", statusError(ProviderAnthropic, apiErr.StatusCode, []byte(http.StatusText(apiErr.StatusCode)))
		}
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
