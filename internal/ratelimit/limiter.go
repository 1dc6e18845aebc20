// Package ratelimit provides per-key token bucket rate limiting for the
// corpsim MCP tools.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Rule is the refill rate and bucket size of one limiter.
type Rule struct {
	// Rate is tokens per second.
	Rate float64

	// Burst is the bucket size and also the number of tokens a new key
	// starts with.
	Burst int
}

// PerMinute returns a rule allowing n calls per minute with the given burst.
func PerMinute(n float64, burst int) Rule {
	return Rule{Rate: n / 60, Burst: burst}
}

// Limiter implements a per-key token bucket rate limiter.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	rule    Rule
	buckets map[string]*bucket
	nowFunc func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter creates a rate limiter with the given rate (tokens/sec) and burst size.
func NewLimiter(rate float64, burst int) *Limiter {
	return New(Rule{Rate: rate, Burst: burst})
}

// New creates a rate limiter for rule.
func New(rule Rule) *Limiter {
	return &Limiter{
		rule:    rule,
		buckets: make(map[string]*bucket),
		nowFunc: time.Now,
	}
}

// Rule returns the limiter's configuration.
func (l *Limiter) Rule() Rule {
	return l.rule
}

// Allow takes a token for key if one is available.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.Reserve(key)
	return ok
}

// Reserve takes a token for key if one is available. When none is, it
// reports how long until the next token arrives. The wait is zero for a
// zero-rate limiter that will never refill.
func (l *Limiter) Reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key, l.nowFunc())
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if l.rule.Rate <= 0 {
		return false, 0
	}
	wait := (1 - b.tokens) / l.rule.Rate
	return false, time.Duration(math.Ceil(wait * float64(time.Second)))
}

func (l *Limiter) refill(key string, now time.Time) *bucket {
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.rule.Burst), last: now}
		l.buckets[key] = b
		return b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(l.rule.Burst), b.tokens+l.rule.Rate*elapsed)
		b.last = now
	}
	return b
}

// Tool names guarded by NewToolLimiters.
const (
	ToolOnboard    = "corpsim_onboard"
	ToolAddFeature = "corpsim_add_feature"
	ToolSimulate   = "corpsim_simulate"
	ToolStatus     = "corpsim_status"
	ToolValuation  = "corpsim_valuation"
	ToolLogo       = "corpsim_logo"
	ToolHistory    = "corpsim_history"
)

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// DefaultToolRules are the per-tool limits. Tools that call a paid model
// (onboarding asks the idea generator, logos call an image model) are the
// tightest.
var DefaultToolRules = map[string]Rule{
	ToolOnboard:    PerMinute(5, 2),
	ToolAddFeature: PerMinute(60, 10),
	ToolSimulate:   PerMinute(30, 5),
	ToolStatus:     {Rate: 1, Burst: 10},
	ToolValuation:  {Rate: 1, Burst: 10},
	ToolLogo:       PerMinute(5, 1),
	ToolHistory:    PerMinute(30, 5),
}

// NewToolLimiters creates a limiter for every tool in DefaultToolRules.
func NewToolLimiters() ToolLimiters {
	limiters := make(ToolLimiters, len(DefaultToolRules))
	for tool, rule := range DefaultToolRules {
		limiters[tool] = New(rule)
	}
	return limiters
}

// CheckLimit returns an error if toolName is over its limit. Tools without
// a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}
	allowed, wait := limiter.Reserve(toolName)
	if allowed {
		return nil
	}
	if wait > 0 {
		return fmt.Errorf("rate limit exceeded for %s, retry in %s", toolName, wait.Round(time.Millisecond))
	}
	return fmt.Errorf("rate limit exceeded for %s", toolName)
}
