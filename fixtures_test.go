package paidy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndrewDonelson/paidy"
)

// ── Wire fixtures ────────────────────────────────────────────────────────────

const paymentJSON = `{
	"id": "pay_0000000000000001",
	"created_at": "2026-03-01T10:00:00.000+09:00",
	"expires_at": "2026-03-31T10:00:00+09:00",
	"amount": 12500,
	"currency": "JPY",
	"description": "Subscription March",
	"store_name": "Paidy Store",
	"test": true,
	"status": "authorized",
	"tier": "classic",
	"buyer": {"name1": "山田太郎", "email": "yamada@example.com", "phone": "08000000001"},
	"order": {
		"tax": 300,
		"shipping": null,
		"order_ref": "ord_1",
		"items": [{"id": "item_1", "title": "Plan", "unit_price": 12500, "quantity": 1}],
		"updated_at": null
	},
	"shipping_address": {"line1": "AXISビル 10F", "city": "港区", "state": "東京都", "zip": "106-2004"},
	"captures": [{"id": "cap_1", "created_at": "2026-03-02T00:00:00Z", "amount": 12500, "tax": null, "shipping": null}],
	"metadata": {"channel": "web", "attempt": 2}
}`

const tokenJSON = `{
	"id": "tok_0000000000000001",
	"merchant_id": "mer_1",
	"wallet_id": "default",
	"status": "suspended",
	"origin": {"name1": "山田太郎", "email": "yamada@example.com", "address": {"zip": "106-2004"}},
	"kind": "recurring",
	"consumer_id": "cons_1",
	"suspensions": [{"timestamp": "2026-03-05T00:00:00Z", "authority": "merchant"}],
	"test": true,
	"version_nr": 3,
	"created_at": "2026-03-01T00:00:00Z",
	"updated_at": "2026-03-05T00:00:00Z",
	"activated_at": "2026-03-01T00:05:00Z",
	"deleted_at": "   "
}`

const paymentWebhookJSON = `{
	"payment_id": "pay_0000000000000001",
	"capture_id": "cap_1",
	"event_type": "payment",
	"status": "capture_success",
	"order_ref": "ord_1",
	"timestamp": "2026-03-02T00:00:00.123Z"
}`

const tokenWebhookJSON = `{"token_id": "tok_0000000000000001", "status": "activate_success", "timestamp": "2026-03-01T00:05:00Z"}`

const errorJSON = `{"reference": "ref_1", "status": "400", "code": "request_content.malformed", "title": "Malformed request", "description": "amount is required"}`

// ── Helpers ──────────────────────────────────────────────────────────────────

var engines = []string{"json", "sonic"}

func newCodecs(t *testing.T, engine string) *paidy.Codecs {
	t.Helper()
	c, err := paidy.New(paidy.Config{Engine: engine})
	require.NoError(t, err)
	return c
}

// forEachEngine runs fn once per JSON engine as a subtest.
func forEachEngine(t *testing.T, fn func(t *testing.T, c *paidy.Codecs)) {
	t.Helper()
	for _, e := range engines {
		t.Run(e, func(t *testing.T) {
			fn(t, newCodecs(t, e))
		})
	}
}
