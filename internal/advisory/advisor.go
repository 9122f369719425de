// Package advisory enriches what-if results with narrative advice from a live
// model, falling back to deterministic text whenever the live call fails.
package advisory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/credit"
)

// DefaultTimeout bounds a single advisory request, retries included.
const DefaultTimeout = 15 * time.Second

// Request carries everything a generator needs.
type Request struct {
	Prompt string
	System string
	Delta  credit.Delta
}

// Result is advisory text tagged with its provenance.
type Result struct {
	Text        string `json:"text"`
	Provider    string `json:"provider,omitempty"`
	IsSimulated bool   `json:"is_simulated"`
}

// Generator produces advisory text from a live service.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Advisor never fails: any live-path error yields the simulated fallback.
type Advisor struct {
	gen     Generator
	cache   Cache
	logger  *slog.Logger
	retry   common.RetryOptions
	timeout time.Duration
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithCache stores successful live responses.
func WithCache(c Cache) Option {
	return func(a *Advisor) { a.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) { a.logger = l }
}

// WithTimeout bounds each Advise call.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRetry sets retry behaviour for the live call.
func WithRetry(opts common.RetryOptions) Option {
	return func(a *Advisor) { a.retry = opts }
}

// New creates an advisor. A nil generator always yields the fallback.
func New(gen Generator, opts ...Option) *Advisor {
	a := &Advisor{
		gen:     gen,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		retry:   common.RetryOptions{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Live reports whether a live generator is configured.
func (a *Advisor) Live() bool {
	return a.gen != nil
}

// Advise returns live advice for delta, or the simulated fallback.
func (a *Advisor) Advise(ctx context.Context, delta credit.Delta) Result {
	if a.gen == nil || ctx.Err() != nil {
		return simulated(delta)
	}

	provider := a.gen.Name()
	key := cacheKey(provider, delta)
	if a.cache != nil {
		if text, ok := a.cache.Get(ctx, key); ok {
			a.logger.Debug("advisory cache hit", "provider", provider)
			return Result{Text: text, Provider: provider}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req := Request{
		Delta:  delta,
		Prompt: BuildPrompt(delta),
		System: SystemInstruction,
	}

	var text string
	err := common.WithRetry(callCtx, func() error {
		out, genErr := a.gen.Generate(callCtx, req)
		if genErr != nil {
			return genErr
		}
		out = strings.TrimSpace(out)
		if out == "" {
			return common.Permanent(common.ErrEmptyAdvice)
		}
		text = out
		return nil
	}, a.retry)
	if err != nil {
		a.logger.Warn("advisory service failed, using simulated advice",
			"provider", provider,
			"error", err)
		return simulated(delta)
	}

	if a.cache != nil {
		if setErr := a.cache.Set(context.WithoutCancel(ctx), key, text); setErr != nil {
			a.logger.Debug("advisory cache write failed", "error", setErr)
		}
	}

	return Result{Text: text, Provider: provider}
}

// Close releases the generator and cache when they hold resources.
func (a *Advisor) Close() error {
	var errs []error
	if c, ok := a.gen.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := a.cache.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func simulated(delta credit.Delta) Result {
	return Result{
		Text:        Fallback(delta),
		IsSimulated: true,
	}
}
