package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// throttledProvider spaces completions so a provider sees at most rpm
// requests per minute. An agent turn spends one token per completion, so a
// multi-step turn can stall mid-way when the budget runs out.
type throttledProvider struct {
	Provider
	rpm     int
	limiter *rate.Limiter
}

// Throttle wraps p so it is called at most rpm times a minute, allowing a
// burst of rpm after an idle minute. rpm <= 0 returns p unchanged.
func Throttle(p Provider, rpm int) Provider {
	if rpm <= 0 {
		return p
	}
	return &throttledProvider{
		Provider: p,
		rpm:      rpm,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

func (t *throttledProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if t.limiter.Tokens() < 1 {
		log.Debug().Str("provider", t.Name()).Int("rpm", t.rpm).Msg("llm request budget spent, waiting")
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: waiting for request budget: %w", t.Name(), err)
	}
	return t.Provider.Complete(ctx, req)
}
