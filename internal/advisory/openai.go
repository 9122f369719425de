package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// openAIGenerator calls the chat completions API directly.
type openAIGenerator struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAIGenerator(cfg Config) (*openAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIURL
	}

	return &openAIGenerator{
		httpClient:  newHTTPClient(),
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: 0.4,
		maxTokens:   cfg.maxTokens(),
	}, nil
}

func (g *openAIGenerator) Name() string { return ProviderOpenAI }

func (g *openAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	requestBody := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.Prompt},
		},
		"temperature": g.temperature,
		"max_tokens":  g.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	body, err := doJSON(g.httpClient, httpReq, ProviderOpenAI)
	if err != nil {
		return "", err
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", common.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(response.Choices) == 0 {
		return "", common.Permanent(common.ErrEmptyAdvice)
	}
	return cleanMarkdownWrapper(response.Choices[0].Message.Content), nil
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// cleanMarkdownWrapper strips a surrounding ``` fence that some models add.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
