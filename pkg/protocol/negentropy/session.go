package negentropy

import (
	"sync"
	"time"

	"lantern.dev/pkg/utils/errorf"
)

// Session errors.
var (
	// ErrTooManySessions is returned when a connection exceeds its
	// concurrent session cap.
	ErrTooManySessions = errorf.E("too many concurrent reconciliation sessions")
	// ErrNoSession is returned for a NEG-MSG whose subscription has no
	// open session.
	ErrNoSession = errorf.E("no open reconciliation session")
)

// Session is one reconciliation dialogue: the relay side set for the
// opening filter and the time of the last exchange.
type Session struct {
	Subscription string
	Have         IdList
	LastActive   time.Time
}

// Sessions is the per-connection session table, bounded in count and in
// idle time.
type Sessions struct {
	mx      sync.Mutex
	m       map[string]*Session
	max     int
	timeout time.Duration
}

// NewSessions creates a session table with the given cap and idle
// timeout.
func NewSessions(max int, timeout time.Duration) (s *Sessions) {
	return &Sessions{
		m:       make(map[string]*Session),
		max:     max,
		timeout: timeout,
	}
}

// Open starts a session over the given relay side set. Re-opening an
// existing subscription replaces its session; opening beyond the cap
// fails.
func (s *Sessions) Open(sub string, have IdList) (err error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if _, exists := s.m[sub]; !exists && s.max > 0 && len(s.m) >= s.max {
		return ErrTooManySessions
	}
	s.m[sub] = &Session{
		Subscription: sub, Have: have, LastActive: time.Now(),
	}
	return
}

// Round processes one exchange: given the ids the client claims to own,
// it returns the ids the relay has that the client is missing.
func (s *Sessions) Round(sub string, client IdList) (needs IdList, err error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	ses, ok := s.m[sub]
	if !ok {
		err = ErrNoSession
		return
	}
	ses.LastActive = time.Now()
	needs = ses.Have.Diff(client)
	return
}

// Close ends one session; unknown subscriptions are a no-op.
func (s *Sessions) Close(sub string) {
	s.mx.Lock()
	defer s.mx.Unlock()
	delete(s.m, sub)
}

// CloseAll ends every session, as on connection close.
func (s *Sessions) CloseAll() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.m = make(map[string]*Session)
}

// Reap removes sessions idle beyond the timeout and returns their
// subscription ids so the caller can emit NEG-ERR for each.
func (s *Sessions) Reap() (expired []string) {
	if s.timeout <= 0 {
		return
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	cutoff := time.Now().Add(-s.timeout)
	for sub, ses := range s.m {
		if ses.LastActive.Before(cutoff) {
			delete(s.m, sub)
			expired = append(expired, sub)
		}
	}
	return
}

// Len reports the number of open sessions.
func (s *Sessions) Len() (n int) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.m)
}
