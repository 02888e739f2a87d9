// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// l2.go — Redis tier of the webhook inbox: SET NX claims of idempotency
// keys carrying an encoded receipt envelope, lookups of the first receipt
// for a key, and the ErrMiss sentinel for absent keys.

// Package l2 provides the Redis tier adapter of the webhook inbox.
package l2

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndrewDonelson/paidy/internal/codec"
)

// ErrMiss is returned by Get when the key does not exist in Redis.
var ErrMiss = errors.New("l2: miss")

// Store is the L2 Redis adapter.
type Store struct {
	client     redis.UniversalClient
	codec      codec.Codec
	keyPrefix  string
	claims     atomic.Int64
	duplicates atomic.Int64
}

// Options configures a new L2 Store.
type Options struct {
	Client    redis.UniversalClient
	Codec     codec.Codec
	KeyPrefix string
}

// New creates a new L2 Store. Envelopes default to MessagePack.
func New(opts Options) *Store {
	if opts.Codec == nil {
		opts.Codec = codec.MsgPack{}
	}
	return &Store{client: opts.Client, codec: opts.Codec, keyPrefix: opts.KeyPrefix}
}

// Key returns the Redis key used for an idempotency key.
func (s *Store) Key(key string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + ":" + key
	}
	return key
}

// setNX reports false when key is already held. A zero ttl stores the key
// without expiry.
func (s *Store) setNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	err := s.client.SetArgs(ctx, key, value, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Claim stores value under key unless the key is already held. claimed is
// false for a duplicate.
func (s *Store) Claim(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	b, err := s.codec.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("l2 marshal: %w", err)
	}
	k := s.Key(key)
	ok, err := s.setNX(ctx, k, b, ttl)
	if err != nil {
		return false, fmt.Errorf("l2 claim %s: %w", k, err)
	}
	if ok {
		s.claims.Add(1)
	} else {
		s.duplicates.Add(1)
	}
	return ok, nil
}

// Put stores value under key whether or not it is held, restarting its TTL.
func (s *Store) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := s.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("l2 marshal: %w", err)
	}
	k := s.Key(key)
	if err := s.client.Set(ctx, k, b, ttl).Err(); err != nil {
		return fmt.Errorf("l2 put %s: %w", k, err)
	}
	return nil
}

// Get decodes the envelope stored under key into dest.
// Returns ErrMiss when the key is missing.
func (s *Store) Get(ctx context.Context, key string, dest any) error {
	k := s.Key(key)
	b, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("l2 get %s: %w", k, err)
	}
	if err := s.codec.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("l2 unmarshal: %w", err)
	}
	return nil
}

// Release deletes key so the next delivery is claimed again.
func (s *Store) Release(ctx context.Context, key string) error {
	k := s.Key(key)
	if err := s.client.Del(ctx, k).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("l2 delete %s: %w", k, err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Stats holds claim and duplicate counts.
type Stats struct {
	Claims     int64
	Duplicates int64
}

// Stats returns current statistics.
func (s *Store) Stats() Stats {
	return Stats{Claims: s.claims.Load(), Duplicates: s.duplicates.Load()}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
