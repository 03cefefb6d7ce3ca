package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreDefaultsToIdle(t *testing.T) {
	s := NewStore(time.Minute)

	sess := s.Get(1)
	require.Equal(t, StateIdle, sess.State)
	require.Empty(t, sess.Data.Phone)
}

func TestStoreUpdateAndClear(t *testing.T) {
	s := NewStore(time.Minute)

	s.Update(1, func(sess *Session) {
		sess.State = StateAwaitingContact
		sess.Data.Language = "ru"
		sess.Data.ReferralCode = "ABCD1234"
	})

	sess := s.Get(1)
	require.Equal(t, StateAwaitingContact, sess.State)
	require.Equal(t, "ru", sess.Data.Language)
	require.Equal(t, "ABCD1234", sess.Data.ReferralCode)

	// Other users are unaffected.
	require.Equal(t, StateIdle, s.Get(2).State)

	s.Clear(1)
	sess = s.Get(1)
	require.Equal(t, StateIdle, sess.State)
	require.Empty(t, sess.Data.ReferralCode)
}

func TestStoreSetStateKeepsData(t *testing.T) {
	s := NewStore(time.Minute)

	s.Update(1, func(sess *Session) { sess.Data.Phone = "+998901234567" })
	s.SetState(1, StateAwaitingPayment)

	sess := s.Get(1)
	require.Equal(t, StateAwaitingPayment, sess.State)
	require.Equal(t, "+998901234567", sess.Data.Phone)
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore(10 * time.Millisecond)

	s.SetState(1, StateAwaitingLocation)
	require.Equal(t, StateAwaitingLocation, s.Get(1).State)

	time.Sleep(20 * time.Millisecond)

	// An expired session reads as a fresh idle one.
	require.Equal(t, StateIdle, s.Get(1).State)
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	s := NewStore(0)

	s.SetState(1, StateAwaitingQuery)
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, StateAwaitingQuery, s.Get(1).State)
}
