package ratelimit

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(l *Limiter, now *time.Time) {
	l.nowFunc = func() time.Time { return *now }
}

func near(got, want time.Duration) bool {
	d := got - want
	return d > -time.Millisecond && d < time.Millisecond
}

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(10.0, 5)
	if got := l.Rule(); got.Rate != 10 || got.Burst != 5 {
		t.Errorf("Rule() = %+v, want {10 5}", got)
	}
}

func TestPerMinute(t *testing.T) {
	r := PerMinute(30, 4)
	if r.Rate != 0.5 || r.Burst != 4 {
		t.Errorf("PerMinute(30, 4) = %+v, want {0.5 4}", r)
	}
}

func TestAllow_Burst(t *testing.T) {
	l := NewLimiter(1.0, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("key1") {
			t.Errorf("request %d should be allowed (within burst)", i+1)
		}
	}
	if l.Allow("key1") {
		t.Error("request after burst exhaustion should be rejected")
	}
}

func TestAllow_Refill(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		burst   int
		use     int
		advance time.Duration
		allowed int
	}{
		{"full refill", 10, 2, 2, 200 * time.Millisecond, 2},
		{"partial refill", 2, 5, 3, 250 * time.Millisecond, 2},
		{"capped at burst", 100, 3, 3, 10 * time.Second, 3},
		{"zero rate never refills", 0, 2, 2, time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			l := NewLimiter(tt.rate, tt.burst)
			fixedClock(l, &now)

			for i := 0; i < tt.use; i++ {
				l.Allow("k")
			}
			now = now.Add(tt.advance)

			got := 0
			for l.Allow("k") {
				got++
				if got > tt.burst {
					t.Fatal("allowed more than burst")
				}
			}
			if got != tt.allowed {
				t.Errorf("allowed %d after refill, want %d", got, tt.allowed)
			}
		})
	}
}

func TestReserve_ReportsWait(t *testing.T) {
	now := time.Now()
	l := New(PerMinute(6, 1)) // one token every 10s
	fixedClock(l, &now)

	if ok, _ := l.Reserve("k"); !ok {
		t.Fatal("first reserve rejected")
	}
	ok, wait := l.Reserve("k")
	if ok {
		t.Fatal("second reserve allowed")
	}
	if !near(wait, 10*time.Second) {
		t.Errorf("wait = %v, want 10s", wait)
	}

	now = now.Add(4 * time.Second)
	if _, wait = l.Reserve("k"); !near(wait, 6*time.Second) {
		t.Errorf("wait after 4s = %v, want 6s", wait)
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := NewLimiter(1.0, 1)

	l.Allow("key1")
	if l.Allow("key1") {
		t.Error("key1 should be exhausted")
	}
	if !l.Allow("key2") {
		t.Error("key2 should be allowed (independent bucket)")
	}
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	now := time.Now()
	l := NewLimiter(1000.0, 100)
	fixedClock(l, &now)

	var wg sync.WaitGroup
	allowed := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Allow("concurrent-key")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for a := range allowed {
		if a {
			count++
		}
	}
	if count != 100 {
		t.Errorf("allowed %d requests, want 100 (burst limit with frozen clock)", count)
	}
}

func TestNewToolLimiters(t *testing.T) {
	limiters := NewToolLimiters()

	tests := []struct {
		tool  string
		burst int
	}{
		{ToolOnboard, 2},
		{ToolAddFeature, 10},
		{ToolSimulate, 5},
		{ToolStatus, 10},
		{ToolValuation, 10},
		{ToolLogo, 1},
		{ToolHistory, 5},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			l, ok := limiters[tt.tool]
			if !ok {
				t.Fatalf("missing rate limiter for tool: %s", tt.tool)
			}
			if l.Rule().Burst != tt.burst {
				t.Errorf("burst = %d, want %d", l.Rule().Burst, tt.burst)
			}
		})
	}
}

func TestCheckLimit(t *testing.T) {
	limiters := NewToolLimiters()

	if err := CheckLimit(limiters, ToolOnboard); err != nil {
		t.Errorf("unexpected error for %s: %v", ToolOnboard, err)
	}
	if err := CheckLimit(limiters, "unknown_tool"); err != nil {
		t.Errorf("unexpected error for unknown tool: %v", err)
	}

	CheckLimit(limiters, ToolLogo)
	err := CheckLimit(limiters, ToolLogo)
	if err == nil {
		t.Fatal("expected rate limit error after burst exhaustion")
	}
	if !strings.Contains(err.Error(), ToolLogo) || !strings.Contains(err.Error(), "retry in") {
		t.Errorf("error = %q, want tool name and retry hint", err)
	}

	limiters["frozen"] = NewLimiter(0, 0)
	if err := CheckLimit(limiters, "frozen"); err == nil || strings.Contains(err.Error(), "retry") {
		t.Errorf("zero-rate error = %v, want error without retry hint", err)
	}
}
