package advisory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
)

// Provider names.
const (
	ProviderNone      = "none"
	ProviderHTTP      = "http"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config selects and configures the live advisory path.
type Config struct {
	Provider    string
	Endpoint    string
	APIKey      string
	Model       string
	Cache       string
	RedisAddr   string
	Timeout     time.Duration
	CacheTTL    time.Duration
	MaxAttempts int
	MaxTokens   int
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 600
	}
	return c.MaxTokens
}

// NewGenerator builds the configured generator. It returns nil for provider "none".
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderHTTP:
		return asGenerator(newHTTPGenerator(cfg))
	case ProviderOpenAI:
		return asGenerator(newOpenAIGenerator(cfg))
	case ProviderAnthropic:
		return asGenerator(newAnthropicGenerator(cfg))
	case ProviderGemini:
		return asGenerator(newGeminiGenerator(ctx, cfg))
	default:
		return nil, fmt.Errorf("%w: unsupported advisory provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

func asGenerator[T Generator](g T, err error) (Generator, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}

// NewCache builds the configured cache. It returns nil for backend "none".
func NewCache(cfg Config) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Cache)) {
	case "", CacheNone:
		return nil, nil
	case CacheMemory:
		c, err := NewMemoryCache(1000, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case CacheRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: advisory redis address", common.ErrMissingConfig)
		}
		return NewRedisCache(cfg.RedisAddr, cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("%w: unsupported advisory cache %q", common.ErrInvalidConfig, cfg.Cache)
	}
}

// FromConfig always returns a usable advisor. A non-nil error reports a
// live-path configuration problem; the advisor then serves simulated advice.
func FromConfig(ctx context.Context, cfg Config, opts ...Option) (*Advisor, error) {
	gen, genErr := NewGenerator(ctx, cfg)

	cache, cacheErr := NewCache(cfg)
	if cacheErr == nil && cache != nil {
		opts = append(opts, WithCache(cache))
	}

	opts = append([]Option{
		WithTimeout(cfg.Timeout),
		WithRetry(common.RetryOptions{MaxAttempts: max(1, cfg.MaxAttempts)}),
	}, opts...)

	advisor := New(gen, opts...)
	if genErr != nil {
		return advisor, genErr
	}
	return advisor, cacheErr
}
