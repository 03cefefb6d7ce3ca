package session

import (
	"context"
	"sync"
	"time"
)

// State is where a user's conversation currently is. Handlers only accept
// the message kinds their state expects; everything else is ignored.
type State int

const (
	StateIdle State = iota

	// Registration flow.
	StateAwaitingLanguage
	StateAwaitingContact
	StateAwaitingAddress

	// Checkout flow.
	StateAwaitingLocation
	StateAwaitingPayment

	// Profile edits.
	StateAwaitingPhone
	StateAwaitingNewAddress

	// Product search.
	StateAwaitingQuery
)

// Data is the mutable bag a flow accumulates across messages.
type Data struct {
	Language     string
	Phone        string
	ReferralCode string
	Latitude     *float64
	Longitude    *float64
}

type Session struct {
	State State
	Data  Data

	touched time.Time
}

const shardCount = 32

type shard struct {
	mu sync.Mutex
	m  map[int64]*Session
}

// Store holds per-user sessions in memory. Sessions are sharded by user id
// so concurrent users never contend on one lock. Sessions idle longer than
// the TTL are dropped, reverting the user to Idle with no side effects.
// State does not survive a process restart.
type Store struct {
	shards [shardCount]*shard
	ttl    time.Duration
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{ttl: ttl}
	for i := range s.shards {
		s.shards[i] = &shard{m: make(map[int64]*Session)}
	}
	return s
}

func (s *Store) shardFor(userID int64) *shard {
	return s.shards[uint64(userID)%shardCount]
}

// Get returns a snapshot of the user's session. An unknown or expired user
// reads as Idle with an empty bag.
func (s *Store) Get(userID int64) Session {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.m[userID]
	if !ok || s.expired(sess) {
		delete(sh.m, userID)
		return Session{State: StateIdle}
	}
	return *sess
}

// Update mutates the user's session under its shard lock and refreshes the
// idle timer.
func (s *Store) Update(userID int64, fn func(*Session)) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.m[userID]
	if !ok || s.expired(sess) {
		sess = &Session{State: StateIdle}
		sh.m[userID] = sess
	}
	fn(sess)
	sess.touched = time.Now()
}

func (s *Store) SetState(userID int64, state State) {
	s.Update(userID, func(sess *Session) { sess.State = state })
}

// Clear discards the session entirely: state and bag.
func (s *Store) Clear(userID int64) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.m, userID)
}

func (s *Store) expired(sess *Session) bool {
	return s.ttl > 0 && time.Since(sess.touched) > s.ttl
}

// Janitor sweeps expired sessions until the context is cancelled. Expiry
// also happens lazily on access, so the sweep only bounds memory.
func (s *Store) Janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, sh := range s.shards {
				sh.mu.Lock()
				for id, sess := range sh.m {
					if s.expired(sess) {
						delete(sh.m, id)
					}
				}
				sh.mu.Unlock()
			}
		}
	}
}
