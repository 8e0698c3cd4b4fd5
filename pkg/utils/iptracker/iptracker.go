// Package iptracker tracks inbound message rates and protocol abuse per
// remote address, and blocks addresses that exceed their allowance.
package iptracker

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// BlockDuration is how long an address stays blocked after exceeding
	// the abuse threshold.
	BlockDuration = 10 * time.Minute
	// AbuseThreshold is the number of strikes before an address is blocked.
	AbuseThreshold = 3
)

type state struct {
	strikes      int
	window       time.Time
	count        int
	blockedUntil time.Time
}

// T tracks per-address message rates and abuse strikes.
type T struct {
	perSec int
	m      *xsync.MapOf[string, state]
}

// New creates a tracker allowing perSec inbound messages per second per
// address before rate limiting kicks in.
func New(perSec int) (t *T) {
	return &T{perSec: perSec, m: xsync.NewMapOf[string, state]()}
}

// Allow records one inbound message from an address and reports whether it
// is within the configured rate. Addresses that keep sending while limited
// accumulate strikes and are eventually blocked outright.
func (t *T) Allow(addr string) (ok bool) {
	if t.perSec <= 0 {
		return true
	}
	now := time.Now()
	t.m.Compute(
		addr, func(s state, loaded bool) (state, bool) {
			if !loaded {
				s = state{window: now}
			}
			if now.Before(s.blockedUntil) {
				return s, false
			}
			if now.Sub(s.window) >= time.Second {
				s.window = now
				s.count = 0
			}
			s.count++
			if s.count <= t.perSec {
				ok = true
				return s, false
			}
			s.strikes++
			if s.strikes >= AbuseThreshold {
				s.blockedUntil = now.Add(BlockDuration)
			}
			return s, false
		},
	)
	return
}

// IsBlocked reports whether an address is currently blocked for abuse.
func (t *T) IsBlocked(addr string) (blocked bool) {
	s, found := t.m.Load(addr)
	if !found {
		return
	}
	if time.Now().After(s.blockedUntil) {
		return
	}
	return true
}

// Forget drops all state held for an address.
func (t *T) Forget(addr string) { t.m.Delete(addr) }
