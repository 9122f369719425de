package advisory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleDelta(t *testing.T) credit.Delta {
	t.Helper()
	delta, err := credit.Simulate(
		credit.Inputs{TotalCreditLimit: 500000, OutstandingDebt: 200000, OldestAccountYears: 5},
		credit.Scenario{Type: credit.ScenarioPayoff, Amount: 160000},
	)
	require.NoError(t, err)
	return delta
}

func TestAdviseWithoutGenerator(t *testing.T) {
	delta := sampleDelta(t)
	advisor := New(nil)

	result := advisor.Advise(context.Background(), delta)

	assert.False(t, advisor.Live())
	assert.True(t, result.IsSimulated)
	assert.Equal(t, Fallback(delta), result.Text)
	assert.Empty(t, result.Provider)
}

func TestAdviseLiveSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	delta := sampleDelta(t)

	gen.EXPECT().Name().Return("mock").AnyTimes()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req Request) (string, error) {
		assert.Equal(t, SystemInstruction, req.System)
		assert.Contains(t, req.Prompt, "710")
		assert.Contains(t, req.Prompt, "780")
		assert.Equal(t, delta, req.Delta)
		return "  1. Utilization drops.  ", nil
	})

	result := New(gen).Advise(context.Background(), delta)

	assert.False(t, result.IsSimulated)
	assert.Equal(t, "1. Utilization drops.", result.Text)
	assert.Equal(t, "mock", result.Provider)
}

func TestAdviseFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		generate func(ctx context.Context, req Request) (string, error)
	}{
		{
			name: "generator error",
			generate: func(context.Context, Request) (string, error) {
				return "", errors.New("connection refused")
			},
		},
		{
			name: "empty text",
			generate: func(context.Context, Request) (string, error) {
				return "   ", nil
			},
		},
		{
			name: "timeout",
			generate: func(ctx context.Context, _ Request) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gen := NewMockGenerator(ctrl)
			gen.EXPECT().Name().Return("mock").AnyTimes()
			gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(tt.generate)

			delta := sampleDelta(t)
			result := New(gen, WithTimeout(20*time.Millisecond)).Advise(context.Background(), delta)

			assert.True(t, result.IsSimulated)
			assert.Equal(t, Fallback(delta), result.Text)
		})
	}
}

func TestAdviseHonorsCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := New(gen, WithTimeout(time.Minute)).Advise(ctx, sampleDelta(t))

	assert.True(t, result.IsSimulated)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAdviseRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()
	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("503")),
		gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("second time lucky", nil),
	)

	advisor := New(gen, WithRetry(common.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}))
	result := advisor.Advise(context.Background(), sampleDelta(t))

	assert.False(t, result.IsSimulated)
	assert.Equal(t, "second time lucky", result.Text)
}

func TestAdviseDoesNotRetryPermanentErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", common.Permanent(errors.New("401"))).Times(1)

	advisor := New(gen, WithRetry(common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond}))
	assert.True(t, advisor.Advise(context.Background(), sampleDelta(t)).IsSimulated)
}

func TestAdviseUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("cached advice", nil).Times(1)

	cache, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	advisor := New(gen, WithCache(cache))
	delta := sampleDelta(t)

	first := advisor.Advise(context.Background(), delta)
	second := advisor.Advise(context.Background(), delta)

	assert.Equal(t, first, second)
	assert.Equal(t, "cached advice", second.Text)
}

func TestAdviseCancelledContextSkipsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()

	cache, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	delta := sampleDelta(t)
	require.NoError(t, cache.Set(context.Background(), cacheKey("mock", delta), "cached live text"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := New(gen, WithCache(cache)).Advise(ctx, delta)

	assert.True(t, result.IsSimulated)
	assert.Equal(t, Fallback(delta), result.Text)
}

type closingGenerator struct {
	closed bool
	err    error
}

func (g *closingGenerator) Name() string { return "closing" }

func (g *closingGenerator) Generate(context.Context, Request) (string, error) {
	return "text", nil
}

func (g *closingGenerator) Close() error {
	g.closed = true
	return g.err
}

type closingCache struct {
	closed bool
}

func (c *closingCache) Get(context.Context, string) (string, bool) { return "", false }

func (c *closingCache) Set(context.Context, string, string) error { return nil }

func (c *closingCache) Close() error {
	c.closed = true
	return nil
}

func TestAdvisorClose(t *testing.T) {
	tests := []struct {
		name    string
		genErr  error
		wantErr bool
	}{
		{name: "clean", genErr: nil},
		{name: "generator close fails", genErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &closingGenerator{err: tt.genErr}
			cache := &closingCache{}

			err := New(gen, WithCache(cache)).Close()

			assert.True(t, gen.closed)
			assert.True(t, cache.closed)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, New(nil).Close())
}

func TestFallback(t *testing.T) {
	delta := sampleDelta(t)
	text := Fallback(delta)

	assert.True(t, strings.HasPrefix(text, SimulatedPrefix))
	assert.Contains(t, text, "current score of 710")
	assert.Contains(t, text, "paying off")
	assert.Contains(t, text, "(+70 points)")
	assert.Contains(t, text, "below 10%")
	assert.Contains(t, text, "highly beneficial")
	assert.Equal(t, text, Fallback(delta))

	neutral, err := credit.Simulate(
		credit.Inputs{TotalCreditLimit: 500000, OutstandingDebt: 200000, OldestAccountYears: 5},
		credit.Scenario{Type: credit.ScenarioLimitIncrease, Amount: 1},
	)
	require.NoError(t, err)
	neutralText := Fallback(neutral)
	assert.Contains(t, neutralText, "credit limit increase")
	assert.Contains(t, neutralText, "no immediate score impact")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleDelta(t))
	assert.Contains(t, prompt, "senior credit health consultant")
	assert.Contains(t, prompt, "+70 points")
	assert.Contains(t, prompt, "four numbered points")
}
