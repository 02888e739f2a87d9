// Package l1 provides the in-memory tier of the webhook inbox: a sharded set
// of idempotency keys with a TTL window and oldest-first eviction.
package l1

import (
	"container/list"
	"hash/maphash"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AndrewDonelson/paidy/internal/clock"
)

const buckets = 64

// Options configures an L1 Store.
type Options struct {
	// TTL is how long a claimed key blocks redelivery. Zero keeps keys
	// until they are evicted.
	TTL time.Duration
	// MaxEntries bounds the whole store; zero means unbounded.
	MaxEntries    int
	SweepInterval time.Duration
	Clock         clock.Clock
	// OnEvict is called, under the bucket lock, for every key that leaves
	// the store.
	OnEvict func(key string, value any)
}

type claim struct {
	key     string
	value   any
	expires time.Time
	pos     *list.Element
}

// bucket keeps its claims in claim order, newest at the front. All claims
// share one TTL, so the back is also the next to expire.
type bucket struct {
	mu     sync.Mutex
	claims map[string]*claim
	order  list.List
	limit  int
}

// Store is the sharded in-memory key set.
type Store struct {
	buckets    [buckets]bucket
	seed       maphash.Seed
	ttl        time.Duration
	clock      clock.Clock
	onEvict    func(key string, value any)
	claimed    atomic.Int64
	duplicates atomic.Int64
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a Store and starts its expiry sweeper.
func New(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 30 * time.Second
	}
	limit := 0
	if opts.MaxEntries > 0 {
		limit = (opts.MaxEntries + buckets - 1) / buckets
	}
	s := &Store{
		seed:    maphash.MakeSeed(),
		ttl:     opts.TTL,
		clock:   opts.Clock,
		onEvict: opts.OnEvict,
		done:    make(chan struct{}),
	}
	for i := range s.buckets {
		s.buckets[i].claims = make(map[string]*claim)
		s.buckets[i].limit = limit
	}
	go s.sweeper(opts.SweepInterval)
	return s
}

func (s *Store) bucketFor(key string) *bucket {
	return &s.buckets[maphash.String(s.seed, key)%buckets]
}

func (s *Store) live(c *claim, now time.Time) bool {
	return c.expires.IsZero() || !now.After(c.expires)
}

// Claim records key with value unless a live claim already holds it. It
// returns the held value and whether this call made the claim.
func (s *Store) Claim(key string, value any) (any, bool) {
	b := s.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	now := s.clock.Now()
	if c, ok := b.claims[key]; ok {
		if s.live(c, now) {
			s.duplicates.Add(1)
			return c.value, false
		}
		s.drop(b, c)
	}
	s.insert(b, key, value, now)
	s.claimed.Add(1)
	return value, true
}

// Put stores value under key whether or not it is claimed, restarting its
// TTL window.
func (s *Store) Put(key string, value any) {
	b := s.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.claims[key]; ok {
		b.order.Remove(c.pos)
		delete(b.claims, key)
	}
	s.insert(b, key, value, s.clock.Now())
}

// Get returns the value held for key if its claim is live.
func (s *Store) Get(key string) (any, bool) {
	b := s.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.claims[key]
	if !ok {
		return nil, false
	}
	if !s.live(c, s.clock.Now()) {
		s.drop(b, c)
		return nil, false
	}
	return c.value, true
}

// Release forgets key so a later Claim succeeds again.
func (s *Store) Release(key string) {
	b := s.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.claims[key]; ok {
		s.drop(b, c)
	}
}

// Stats holds claim, duplicate and entry counts.
type Stats struct {
	Claims     int64
	Duplicates int64
	Entries    int64
}

func (s *Store) Stats() Stats {
	var n int64
	for i := range s.buckets {
		b := &s.buckets[i]
		b.mu.Lock()
		n += int64(len(b.claims))
		b.mu.Unlock()
	}
	return Stats{Claims: s.claimed.Load(), Duplicates: s.duplicates.Load(), Entries: n}
}

// Close stops the sweeper. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Store) sweeper(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Sweep()
		case <-s.done:
			return
		}
	}
}

// Sweep drops expired claims, oldest first.
func (s *Store) Sweep() {
	now := s.clock.Now()
	for i := range s.buckets {
		b := &s.buckets[i]
		b.mu.Lock()
		for e := b.order.Back(); e != nil; e = b.order.Back() {
			c := e.Value.(*claim)
			if s.live(c, now) {
				break
			}
			s.drop(b, c)
		}
		b.mu.Unlock()
	}
}

// insert adds a claim at the front of b, evicting the oldest claim when b
// is full. b.mu must be held.
func (s *Store) insert(b *bucket, key string, value any, now time.Time) {
	if b.limit > 0 && len(b.claims) >= b.limit {
		if oldest := b.order.Back(); oldest != nil {
			s.drop(b, oldest.Value.(*claim))
		}
	}
	c := &claim{key: key, value: value}
	if s.ttl > 0 {
		c.expires = now.Add(s.ttl)
	}
	c.pos = b.order.PushFront(c)
	b.claims[key] = c
}

func (s *Store) drop(b *bucket, c *claim) {
	delete(b.claims, c.key)
	b.order.Remove(c.pos)
	if s.onEvict != nil {
		s.onEvict(c.key, c.value)
	}
}
