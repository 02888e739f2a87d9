// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// inbox.go — idempotent webhook intake. Each delivery is decoded, keyed by
// resource, event and timestamp, and claimed in every configured tier:
// L1 memory (always), L2 Redis SET NX, L3 Postgres journal. A delivery any
// tier has already seen is reported as a duplicate with the first receipt.

package paidy

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AndrewDonelson/paidy/internal/codec"
	"github.com/AndrewDonelson/paidy/internal/l1"
	"github.com/AndrewDonelson/paidy/internal/l2"
	"github.com/AndrewDonelson/paidy/internal/l3"
)

// Webhook kinds used in idempotency keys and metrics.
const (
	WebhookPayment = "payment"
	WebhookToken   = "token"
)

// Receipt acknowledges one webhook delivery.
type Receipt struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	Kind       string    `json:"kind"`
	ResourceID string    `json:"resource_id"`
	Event      string    `json:"event"`
	ReceivedAt time.Time `json:"received_at"`
	// Duplicate is set when an earlier delivery already holds Key; the
	// other fields then describe that earlier delivery.
	Duplicate bool `json:"-"`
}

// Inbox deduplicates webhook deliveries.
type Inbox struct {
	codecs *Codecs
	cfg    Config
	l1     *l1.Store
	l2     *l2.Store
	l3     *l3.Store
	closed atomic.Bool
}

// NewInbox creates an Inbox decoding with c. L2 is enabled by
// cfg.RedisAddr, L3 by cfg.PostgresDSN; the journal table is created when
// missing.
func NewInbox(c *Codecs, cfg Config) (*Inbox, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	in := &Inbox{codecs: c, cfg: cfg}

	in.l1 = l1.New(l1.Options{
		TTL:        cfg.DedupeTTL,
		MaxEntries: cfg.MaxDedupeEntries,
		Clock:      cfg.Clock,
	})

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		in.l2 = l2.New(l2.Options{Client: client, Codec: codec.MsgPack{}, KeyPrefix: cfg.KeyPrefix})
	}

	if cfg.PostgresDSN != "" {
		pgCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
		if err != nil {
			_ = in.Close()
			return nil, fmt.Errorf("paidy: postgres config: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
		if err != nil {
			_ = in.Close()
			return nil, fmt.Errorf("paidy: postgres pool: %w", err)
		}
		in.l3 = l3.New(pool, cfg.JournalTable)
		if err := in.l3.EnsureSchema(ctx); err != nil {
			_ = in.Close()
			return nil, fmt.Errorf("paidy: journal schema: %w", err)
		}
	}

	cfg.Logger.Info("webhook inbox ready",
		"l2", in.l2 != nil, "l3", in.l3 != nil, "dedupe_ttl", cfg.DedupeTTL.String())
	return in, nil
}

// ReceivePayment decodes and claims a payment webhook body.
func (in *Inbox) ReceivePayment(ctx context.Context, body []byte) (*PaymentWebhook, Receipt, error) {
	if in.closed.Load() {
		return nil, Receipt{}, ErrInboxClosed
	}
	wh, err := in.codecs.ParsePaymentWebhook(body)
	if err != nil {
		return nil, Receipt{}, err
	}
	rc, err := in.claim(ctx, WebhookPayment, wh.PaymentID, wh.Status.String(), wh.Timestamp, body)
	if err != nil {
		return nil, Receipt{}, err
	}
	return wh, rc, nil
}

// ReceiveToken decodes and claims a token webhook body.
func (in *Inbox) ReceiveToken(ctx context.Context, body []byte) (*TokenWebhook, Receipt, error) {
	if in.closed.Load() {
		return nil, Receipt{}, ErrInboxClosed
	}
	wh, err := in.codecs.ParseTokenWebhook(body)
	if err != nil {
		return nil, Receipt{}, err
	}
	rc, err := in.claim(ctx, WebhookToken, wh.TokenID, wh.Status.String(), wh.Timestamp, body)
	if err != nil {
		return nil, Receipt{}, err
	}
	return wh, rc, nil
}

// IdempotencyKey returns the dedupe key of a delivery.
func IdempotencyKey(kind, resourceID, event string, ts time.Time) string {
	return kind + ":" + resourceID + ":" + event + ":" + ts.UTC().Format(time.RFC3339Nano)
}

func (in *Inbox) claim(ctx context.Context, kind, resourceID, event string, ts time.Time, body []byte) (Receipt, error) {
	rc := Receipt{
		ID:         uuid.NewString(),
		Key:        IdempotencyKey(kind, resourceID, event, ts),
		Kind:       kind,
		ResourceID: resourceID,
		Event:      event,
		ReceivedAt: in.cfg.Clock.Now(),
	}

	if prior, ok := in.l1.Claim(rc.Key, rc); !ok {
		return in.duplicate(prior.(Receipt)), nil
	}

	if in.l2 != nil {
		claimed, err := in.l2.Claim(ctx, rc.Key, rc, in.cfg.DedupeTTL)
		if err != nil {
			in.l1.Release(rc.Key)
			in.cfg.Metrics.RecordError(kind, "l2_claim")
			return Receipt{}, fmt.Errorf("paidy: inbox claim %s: %w", rc.Key, err)
		}
		if !claimed {
			prior := rc
			if err := in.l2.Get(ctx, rc.Key, &prior); err != nil && !errors.Is(err, l2.ErrMiss) {
				in.cfg.Logger.Warn("inbox: read prior receipt", "key", rc.Key, "error", err)
			}
			return in.remember(prior), nil
		}
	}

	if in.l3 != nil {
		inserted, err := in.l3.Insert(ctx, l3.Entry{
			ID:         rc.ID,
			Key:        rc.Key,
			Kind:       kind,
			ResourceID: resourceID,
			Event:      event,
			Body:       body,
			ReceivedAt: rc.ReceivedAt,
		})
		if err != nil {
			in.release(rc.Key)
			in.cfg.Metrics.RecordError(kind, "l3_insert")
			return Receipt{}, fmt.Errorf("paidy: inbox journal %s: %w", rc.Key, err)
		}
		if !inserted {
			prior := rc
			if e, err := in.l3.GetByKey(ctx, rc.Key); err == nil {
				prior = receiptFromEntry(e)
			}
			in.restore(ctx, prior)
			return in.remember(prior), nil
		}
	}

	in.cfg.Logger.Debug("webhook accepted", "key", rc.Key, "id", rc.ID)
	return rc, nil
}

// remember replaces the L1 entry with the earlier receipt a lower tier
// reported, so later duplicates resolve in memory.
func (in *Inbox) remember(prior Receipt) Receipt {
	in.l1.Put(prior.Key, prior)
	return in.duplicate(prior)
}

// restore puts the journalled receipt back into Redis in place of the claim
// this delivery made there, so duplicates resolved by L2 report the first
// delivery.
func (in *Inbox) restore(ctx context.Context, prior Receipt) {
	if in.l2 == nil {
		return
	}
	if err := in.l2.Put(ctx, prior.Key, prior, in.cfg.DedupeTTL); err != nil {
		in.cfg.Logger.Warn("inbox: restore prior receipt", "key", prior.Key, "error", err)
		if err := in.l2.Release(ctx, prior.Key); err != nil {
			in.cfg.Logger.Warn("inbox: release claim", "key", prior.Key, "error", err)
		}
	}
}

func (in *Inbox) duplicate(prior Receipt) Receipt {
	prior.Duplicate = true
	in.cfg.Metrics.RecordDuplicate(prior.Kind)
	in.cfg.Logger.Debug("webhook duplicate", "key", prior.Key, "first_id", prior.ID)
	return prior
}

// release undoes the claims of a delivery that failed in a lower tier so
// a redelivery is accepted.
func (in *Inbox) release(key string) {
	in.l1.Release(key)
	if in.l2 != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := in.l2.Release(ctx, key); err != nil {
			in.cfg.Logger.Warn("inbox: release claim", "key", key, "error", err)
		}
	}
}

func receiptFromEntry(e l3.Entry) Receipt {
	return Receipt{
		ID:         e.ID,
		Key:        e.Key,
		Kind:       e.Kind,
		ResourceID: e.ResourceID,
		Event:      e.Event,
		ReceivedAt: e.ReceivedAt,
	}
}

// History lists the journalled deliveries for a payment or token id,
// oldest first. It needs the L3 journal.
func (in *Inbox) History(ctx context.Context, resourceID string) ([]Receipt, error) {
	if in.closed.Load() {
		return nil, ErrInboxClosed
	}
	if in.l3 == nil {
		return nil, ErrL3Unavailable
	}
	entries, err := in.l3.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("paidy: inbox history: %w", err)
	}
	out := make([]Receipt, len(entries))
	for i, e := range entries {
		out[i] = receiptFromEntry(e)
	}
	return out, nil
}

// Close releases every tier. Later calls to the Inbox fail with
// ErrInboxClosed.
func (in *Inbox) Close() error {
	if in.closed.Swap(true) {
		return nil
	}
	in.l1.Close()
	var err error
	if in.l2 != nil {
		err = in.l2.Close()
	}
	if in.l3 != nil {
		in.l3.Close()
	}
	return err
}
