package session

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is how long a session survives without messages.
const DefaultIdleTimeout = 5 * time.Minute

// entry guards one conversation. Its mutex is the conversation's exclusion:
// whoever holds it owns the session. refs counts leases held or waited for,
// so the entry is only dropped from the map when nobody references it.
type entry struct {
	mu      sync.Mutex
	session *Session
	refs    int
}

// Store maps conversation ids to sessions. At most one session exists per
// conversation id, and it is only ever mutated through a Lease.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	idle    time.Duration
	clock   Clock
}

// NewStore creates an empty store. Sessions idle for longer than idle are
// never handed out again and are removed by Sweep.
func NewStore(idle time.Duration, clock Clock) *Store {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Store{
		entries: make(map[string]*entry),
		idle:    idle,
		clock:   clock,
	}
}

// IdleTimeout returns the configured idle limit.
func (s *Store) IdleTimeout() time.Duration { return s.idle }

// Acquire blocks until the caller holds the conversation's exclusion.
// The lease must be released.
func (s *Store) Acquire(conversationID string) *Lease {
	s.mu.Lock()
	e, ok := s.entries[conversationID]
	if !ok {
		e = &entry{}
		s.entries[conversationID] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	return &Lease{store: s, id: conversationID, entry: e}
}

// Get returns a snapshot of the session, or false when none is live.
func (s *Store) Get(conversationID string) (*Session, bool) {
	l := s.Acquire(conversationID)
	defer l.Release()

	sess := l.Session()
	if sess == nil {
		return nil, false
	}
	return sess.Clone(), true
}

// GetOrCreate returns a snapshot of the conversation's session, creating it
// when absent or expired and refreshing its last activity otherwise.
func (s *Store) GetOrCreate(conversationID string, step Step, data Data) *Session {
	l := s.Acquire(conversationID)
	defer l.Release()
	return l.GetOrCreate(step, data).Clone()
}

// Delete removes the conversation's session. Deleting a missing session is a no-op.
func (s *Store) Delete(conversationID string) {
	l := s.Acquire(conversationID)
	defer l.Release()
	l.Delete()
}

// Len returns the number of live sessions. Entries held by a lease are
// counted as live, so the figure is approximate while messages are in flight.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if !e.mu.TryLock() {
			n++
			continue
		}
		if e.session != nil {
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Sweep evicts every session whose last activity is more than idleLimit
// before now and returns how many were removed. A session whose exclusion
// is currently held is in use and is skipped.
func (s *Store) Sweep(idleLimit time.Duration, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.session != nil && now.Sub(e.session.LastActivity) > idleLimit {
			e.session = nil
			removed++
		}
		if e.session == nil && e.refs == 0 {
			delete(s.entries, id)
		}
		e.mu.Unlock()
	}
	return removed
}

// SweepExpired runs Sweep with the store's own idle limit and clock.
func (s *Store) SweepExpired() int {
	return s.Sweep(s.idle, s.clock.Now())
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.LastActivity) > s.idle
}

// Lease is exclusive access to one conversation's session.
type Lease struct {
	store    *Store
	id       string
	entry    *entry
	released bool
}

// ConversationID returns the id the lease was acquired for.
func (l *Lease) ConversationID() string { return l.id }

// Session returns the live session for in-place mutation, or nil. An
// expired session is dropped and reported as nil.
func (l *Lease) Session() *Session {
	sess := l.entry.session
	if sess != nil && l.store.expired(sess, l.store.clock.Now()) {
		l.entry.session = nil
		return nil
	}
	return sess
}

// GetOrCreate returns the live session, refreshing its last activity, or
// installs a fresh one at step with data.
func (l *Lease) GetOrCreate(step Step, data Data) *Session {
	now := l.store.clock.Now()
	if sess := l.Session(); sess != nil {
		sess.LastActivity = now
		return sess
	}
	sess := &Session{
		ConversationID: l.id,
		Step:           step,
		Data:           data,
		CreatedAt:      now,
		LastActivity:   now,
	}
	l.entry.session = sess
	return sess
}

// Delete drops the session.
func (l *Lease) Delete() {
	l.entry.session = nil
}

// Release gives up the exclusion. Calling it twice is a no-op.
func (l *Lease) Release() {
	if l.released {
		return
	}
	l.released = true

	s := l.store
	s.mu.Lock()
	l.entry.refs--
	if l.entry.refs == 0 && l.entry.session == nil {
		if cur, ok := s.entries[l.id]; ok && cur == l.entry {
			delete(s.entries, l.id)
		}
	}
	s.mu.Unlock()
	l.entry.mu.Unlock()
}
