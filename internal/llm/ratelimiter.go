package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider caps how many completions per minute reach the
// upstream API. The chat endpoint shares one provider across all
// conversations, so the cap is global, not per user.
type RateLimitedProvider struct {
	provider Provider
	limit    int
	window   time.Duration

	mu    sync.Mutex
	calls []time.Time
}

// NewRateLimitedProvider allows at most rpm completions per sliding
// minute, blocking callers once the window is full.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	return &RateLimitedProvider{provider: provider, limit: rpm, window: time.Minute}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.reserve(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

// reserve blocks until a slot opens in the window or ctx ends.
func (r *RateLimitedProvider) reserve(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-r.window)

		kept := r.calls[:0]
		for _, t := range r.calls {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		r.calls = kept

		if len(r.calls) < r.limit {
			r.calls = append(r.calls, now)
			r.mu.Unlock()
			return nil
		}
		wait := r.calls[0].Sub(cutoff)
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
