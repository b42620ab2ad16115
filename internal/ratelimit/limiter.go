package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"flightops/aerodata/internal/logging"
)

// Policy bounds one upstream service to Limit requests per rolling Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Built-in profiles. Production matches the upstream quota; conservative is
// for constrained environments.
var (
	ProductionPolicy   = Policy{Limit: 1000, Window: time.Hour}
	ConservativePolicy = Policy{Limit: 100, Window: time.Hour}
)

// PolicyForProfile resolves a named profile, defaulting to production.
func PolicyForProfile(profile string) Policy {
	if profile == "conservative" {
		return ConservativePolicy
	}
	return ProductionPolicy
}

// Status is a read-only snapshot of one service's window.
type Status struct {
	Allowed     bool
	Remaining   int
	Limit       int
	WindowStart time.Time
	WindowEnd   time.Time
	RetryAfter  time.Duration
}

type window struct {
	start time.Time
	count int
}

// Limiter is a sliding-window admission controller keyed by upstream service
// name. Counts live in Redis when a client is supplied; without one, or when
// Redis errors, counting happens in an in-process map. A Redis failure fails
// open: overall availability takes priority over strict quota enforcement.
type Limiter struct {
	rdb    *redis.Client
	policy Policy

	mu      sync.Mutex
	windows map[string]*window

	redisWarn sync.Once
}

// New creates a Limiter. rdb may be nil for pure in-process operation.
func New(rdb *redis.Client, policy Policy) *Limiter {
	return &Limiter{
		rdb:     rdb,
		policy:  policy,
		windows: map[string]*window{},
	}
}

// Check reports whether a request to service would be admitted right now.
// Never mutates counter state.
func (l *Limiter) Check(ctx context.Context, service string) Status {
	if l.rdb != nil {
		if st, ok := l.checkRedis(ctx, service); ok {
			return st
		}
		// Backing store unreachable: fail open
		return l.openStatus(time.Now())
	}
	return l.checkMemory(service, time.Now())
}

// Record counts one admitted request against service's active window,
// opening a new window when none is active.
func (l *Limiter) Record(ctx context.Context, service string) {
	now := time.Now()
	if l.rdb != nil {
		if l.recordRedis(ctx, service) {
			return
		}
		// Fall through to memory so the quota is still approximately tracked
	}
	l.recordMemory(service, now)
}

// Healthy reports whether the backing store is reachable. A limiter without
// Redis is always healthy: the in-process path cannot fail.
func (l *Limiter) Healthy(ctx context.Context) bool {
	if l.rdb == nil {
		return true
	}
	return l.rdb.Ping(ctx).Err() == nil
}

func (l *Limiter) openStatus(now time.Time) Status {
	return Status{
		Allowed:     true,
		Remaining:   l.policy.Limit,
		Limit:       l.policy.Limit,
		WindowStart: now,
		WindowEnd:   now.Add(l.policy.Window),
	}
}

func (l *Limiter) checkRedis(ctx context.Context, service string) (Status, bool) {
	key := redisKey(service)

	count, err := l.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		return l.openStatus(time.Now()), true
	}
	if err != nil {
		l.warnRedis(err)
		return Status{}, false
	}

	ttl, err := l.rdb.PTTL(ctx, key).Result()
	if err != nil {
		l.warnRedis(err)
		return Status{}, false
	}

	now := time.Now()
	end := now.Add(ttl)
	st := Status{
		Allowed:     count < l.policy.Limit,
		Remaining:   l.policy.Limit - count,
		Limit:       l.policy.Limit,
		WindowStart: end.Add(-l.policy.Window),
		WindowEnd:   end,
	}
	if st.Remaining < 0 {
		st.Remaining = 0
	}
	if !st.Allowed {
		st.RetryAfter = ttl
	}
	return st, true
}

func (l *Limiter) recordRedis(ctx context.Context, service string) bool {
	key := redisKey(service)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.warnRedis(err)
		return false
	}
	if count == 1 {
		// First request opens the window
		if err := l.rdb.PExpire(ctx, key, l.policy.Window).Err(); err != nil {
			l.warnRedis(err)
		}
	}
	return true
}

func (l *Limiter) checkMemory(service string, now time.Time) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, active := l.windows[service]
	if !active || now.After(w.start.Add(l.policy.Window)) {
		return l.openStatus(now)
	}

	st := Status{
		Allowed:     w.count < l.policy.Limit,
		Remaining:   l.policy.Limit - w.count,
		Limit:       l.policy.Limit,
		WindowStart: w.start,
		WindowEnd:   w.start.Add(l.policy.Window),
	}
	if st.Remaining < 0 {
		st.Remaining = 0
	}
	if !st.Allowed {
		st.RetryAfter = st.WindowEnd.Sub(now)
	}
	return st
}

func (l *Limiter) recordMemory(service string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, active := l.windows[service]
	if !active || now.After(w.start.Add(l.policy.Window)) {
		l.windows[service] = &window{start: now, count: 1}
		return
	}
	w.count++
}

func (l *Limiter) warnRedis(err error) {
	l.redisWarn.Do(func() {
		logging.Warn("Rate limiter backing store unreachable, failing open",
			"error", err.Error(),
		)
	})
}

func redisKey(service string) string {
	return "ratelimit:" + service
}
