package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator uses the Gemini generative language API.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGeminiGenerator(ctx context.Context, cfg Config) (*geminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key", common.ErrMissingConfig)
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}
	model := client.GenerativeModel(name)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemInstruction)}}
	model.SetTemperature(0.4)
	model.SetMaxOutputTokens(int32(cfg.maxTokens())) //nolint:gosec // bounded by config

	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Name() string { return ProviderGemini }

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return textFromGemini(resp)
}

// Close releases the underlying client.
func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

func textFromGemini(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", common.Permanent(common.ErrEmptyAdvice)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return cleanMarkdownWrapper(b.String()), nil
}
