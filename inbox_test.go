package paidy_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewDonelson/paidy"
	"github.com/AndrewDonelson/paidy/internal/clock"
	"github.com/AndrewDonelson/paidy/internal/metrics"
)

func newInbox(t *testing.T, cfg paidy.Config) *paidy.Inbox {
	t.Helper()
	c, err := paidy.New(cfg)
	require.NoError(t, err)
	in, err := paidy.NewInbox(c, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = in.Close() })
	return in
}

func tokenWebhook(ts string) []byte {
	return []byte(`{"token_id": "tok_1", "status": "suspend_success", "timestamp": "` + ts + `"}`)
}

func TestIdempotencyKey(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2026, 3, 2, 9, 0, 0, 123000000, jst)
	assert.Equal(t, "payment:pay_1:capture_success:2026-03-02T00:00:00.123Z",
		paidy.IdempotencyKey(paidy.WebhookPayment, "pay_1", "capture_success", ts))
}

func TestInbox_MemoryDuplicate(t *testing.T) {
	m := &metrics.Counter{}
	in := newInbox(t, paidy.Config{Metrics: m})
	ctx := context.Background()

	wh, first, err := in.ReceivePayment(ctx, []byte(paymentWebhookJSON))
	require.NoError(t, err)
	assert.Equal(t, paidy.PaymentEventCaptureSuccess, wh.Status)
	assert.False(t, first.Duplicate)
	assert.Equal(t, paidy.WebhookPayment, first.Kind)
	assert.Equal(t, "capture_success", first.Event)
	assert.NotEmpty(t, first.ID)

	_, again, err := in.ReceivePayment(ctx, []byte(paymentWebhookJSON))
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Key, again.Key)
	assert.Equal(t, int64(1), m.Get("duplicate:payment"))
}

func TestInbox_DistinctDeliveries(t *testing.T) {
	in := newInbox(t, paidy.Config{})
	ctx := context.Background()

	_, a, err := in.ReceiveToken(ctx, tokenWebhook("2026-03-01T00:00:00Z"))
	require.NoError(t, err)
	_, b, err := in.ReceiveToken(ctx, tokenWebhook("2026-03-01T00:00:01Z"))
	require.NoError(t, err)
	assert.False(t, b.Duplicate)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestInbox_DuplicateExpires(t *testing.T) {
	mc := clock.NewMock(time.Time{})
	in := newInbox(t, paidy.Config{Clock: mc, DedupeTTL: time.Minute})
	ctx := context.Background()
	body := []byte(tokenWebhookJSON)

	_, _, err := in.ReceiveToken(ctx, body)
	require.NoError(t, err)
	_, rc, err := in.ReceiveToken(ctx, body)
	require.NoError(t, err)
	assert.True(t, rc.Duplicate)

	mc.Advance(2 * time.Minute)
	_, rc, err = in.ReceiveToken(ctx, body)
	require.NoError(t, err)
	assert.False(t, rc.Duplicate, "claim expired")
}

func TestInbox_ConcurrentSingleWinner(t *testing.T) {
	in := newInbox(t, paidy.Config{Engine: "sonic"})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, rc, err := in.ReceiveToken(ctx, []byte(tokenWebhookJSON))
			if !assert.NoError(t, err) {
				return
			}
			if !rc.Duplicate {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestInbox_SharedRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := paidy.Config{RedisAddr: mr.Addr(), KeyPrefix: "test"}
	first := newInbox(t, cfg)
	second := newInbox(t, cfg)
	ctx := context.Background()

	_, a, err := first.ReceiveToken(ctx, []byte(tokenWebhookJSON))
	require.NoError(t, err)
	require.False(t, a.Duplicate)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "test:token:tok_0000000000000001:activate_success:"))
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))

	_, b, err := second.ReceiveToken(ctx, []byte(tokenWebhookJSON))
	require.NoError(t, err)
	assert.True(t, b.Duplicate)
	assert.Equal(t, a.ID, b.ID, "prior receipt read back from redis")
	assert.Equal(t, "activate_success", b.Event)

	// now answered from the second inbox's memory tier
	mr.FlushAll()
	_, c, err := second.ReceiveToken(ctx, []byte(tokenWebhookJSON))
	require.NoError(t, err)
	assert.True(t, c.Duplicate)
	assert.Equal(t, a.ID, c.ID)
}

func TestInbox_RedisDownReleasesClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	m := &metrics.Counter{}
	in := newInbox(t, paidy.Config{RedisAddr: mr.Addr(), Metrics: m})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mr.Close()
	_, _, err := in.ReceiveToken(ctx, []byte(tokenWebhookJSON))
	require.Error(t, err)
	assert.Equal(t, int64(1), m.Get("error:token:l2_claim"))

	require.NoError(t, mr.Restart())
	_, rc, err := in.ReceiveToken(ctx, []byte(tokenWebhookJSON))
	require.NoError(t, err)
	assert.False(t, rc.Duplicate, "failed delivery must not hold the key")
}

func TestInbox_DecodeErrorPropagates(t *testing.T) {
	in := newInbox(t, paidy.Config{})
	_, _, err := in.ReceiveToken(context.Background(), tokenWebhook("yesterday"))
	assert.ErrorIs(t, err, paidy.ErrParseFailed)

	_, _, err = in.ReceivePayment(context.Background(), []byte(`{"payment_id": "p", "status": "bogus_event"}`))
	assert.ErrorIs(t, err, paidy.ErrUnsupportedValue)
}

func TestInbox_HistoryNeedsJournal(t *testing.T) {
	in := newInbox(t, paidy.Config{})
	_, err := in.History(context.Background(), "tok_1")
	assert.ErrorIs(t, err, paidy.ErrL3Unavailable)
}

func TestInbox_Closed(t *testing.T) {
	c, err := paidy.New(paidy.Config{})
	require.NoError(t, err)
	in, err := paidy.NewInbox(c, paidy.Config{})
	require.NoError(t, err)

	require.NoError(t, in.Close())
	require.NoError(t, in.Close())

	_, _, err = in.ReceivePayment(context.Background(), []byte(paymentWebhookJSON))
	assert.ErrorIs(t, err, paidy.ErrInboxClosed)
	_, _, err = in.ReceiveToken(context.Background(), []byte(tokenWebhookJSON))
	assert.ErrorIs(t, err, paidy.ErrInboxClosed)
	_, err = in.History(context.Background(), "tok_1")
	assert.ErrorIs(t, err, paidy.ErrInboxClosed)
}

func TestNewInbox_BadConfig(t *testing.T) {
	c, err := paidy.New(paidy.Config{})
	require.NoError(t, err)

	_, err = paidy.NewInbox(c, paidy.Config{PostgresDSN: "postgres://%zz"})
	assert.Error(t, err)

	_, err = paidy.NewInbox(c, paidy.Config{Engine: "xml"})
	assert.ErrorIs(t, err, paidy.ErrUnknownEngine)
}
