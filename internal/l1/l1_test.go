package l1_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewDonelson/paidy/internal/clock"
	"github.com/AndrewDonelson/paidy/internal/l1"
)

func newStore(t *testing.T, clk clock.Clock) *l1.Store {
	t.Helper()
	s := l1.New(l1.Options{TTL: 5 * time.Minute, Clock: clk})
	t.Cleanup(s.Close)
	return s
}

func TestL1_ClaimOnce(t *testing.T) {
	s := newStore(t, clock.NewMock(time.Time{}))

	v, ok := s.Claim("payment:pay_1:capture_success", "r1")
	require.True(t, ok)
	assert.Equal(t, "r1", v)

	v, ok = s.Claim("payment:pay_1:capture_success", "r2")
	assert.False(t, ok)
	assert.Equal(t, "r1", v, "duplicate returns the first receipt")

	st := s.Stats()
	assert.Equal(t, int64(1), st.Claims)
	assert.Equal(t, int64(1), st.Duplicates)
	assert.Equal(t, int64(1), st.Entries)
}

func TestL1_TTLExpiry(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	s := newStore(t, clk)

	_, ok := s.Claim("k", 1)
	require.True(t, ok)
	clk.Advance(6 * time.Minute)

	_, found := s.Get("k")
	assert.False(t, found, "entry should be expired")

	_, ok = s.Claim("k", 2)
	assert.True(t, ok, "expired key can be claimed again")
}

func TestL1_Release(t *testing.T) {
	s := newStore(t, clock.Real{})
	s.Claim("k", 1)
	s.Release("k")
	_, ok := s.Claim("k", 2)
	assert.True(t, ok)
}

func TestL1_Sweep(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	var evicted atomic.Int64
	s := l1.New(l1.Options{TTL: time.Second, Clock: clk, OnEvict: func(string, any) { evicted.Add(1) }})
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Claim(fmt.Sprintf("k%d", i), i)
	}
	clk.Advance(2 * time.Second)
	s.Sweep()
	assert.Equal(t, int64(0), s.Stats().Entries)
	assert.Equal(t, int64(10), evicted.Load())
}

func TestL1_MaxEntriesEvictsOldest(t *testing.T) {
	// One entry per shard: a second key in the same shard pushes out the first.
	s := l1.New(l1.Options{MaxEntries: 1, Clock: clock.NewMock(time.Time{})})
	defer s.Close()

	for i := 0; i < 1000; i++ {
		s.Claim(fmt.Sprintf("k%d", i), i)
	}
	assert.LessOrEqual(t, s.Stats().Entries, int64(64))
	v, ok := s.Get("k999")
	require.True(t, ok, "newest key survives")
	assert.Equal(t, 999, v)
}

func TestL1_ConcurrentClaimsSingleWinner(t *testing.T) {
	s := newStore(t, clock.Real{})
	var winners atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, ok := s.Claim("token:tok_1:activate_success", i); ok {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int64(1), winners.Load())
}

func TestL1_CloseTwice(t *testing.T) {
	s := l1.New(l1.Options{})
	s.Close()
	assert.NotPanics(t, s.Close)
}

func TestL1_PutReplaces(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	s := newStore(t, clk)

	s.Claim("k", "local")
	s.Put("k", "remote")
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "remote", v)

	v, ok = s.Claim("k", "again")
	assert.False(t, ok)
	assert.Equal(t, "remote", v)
	assert.Equal(t, int64(1), s.Stats().Entries)

	clk.Advance(4 * time.Minute)
	s.Put("k", "refreshed")
	clk.Advance(4 * time.Minute)
	_, ok = s.Get("k")
	assert.True(t, ok, "Put restarts the TTL window")
}

func TestL1_SweepKeepsLiveClaims(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	s := l1.New(l1.Options{TTL: time.Minute, Clock: clk})
	defer s.Close()

	for i := 0; i < 100; i++ {
		s.Claim(fmt.Sprintf("old%d", i), i)
	}
	clk.Advance(45 * time.Second)
	for i := 0; i < 100; i++ {
		s.Claim(fmt.Sprintf("new%d", i), i)
	}
	clk.Advance(30 * time.Second)
	s.Sweep()

	assert.Equal(t, int64(100), s.Stats().Entries)
	_, ok := s.Get("new42")
	assert.True(t, ok)
	_, ok = s.Get("old42")
	assert.False(t, ok)
}
