// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// records.go — API responses, webhook bodies and token requests. Fields
// carried by a codec are tagged json:"-" and declared in wireFields next to
// their descriptor; everything else is plain engine (un)marshal.

package paidy

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Payments ────────────────────────────────────────────────────────────────

// PaymentResponse is a payment object returned by the payments API.
type PaymentResponse struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"-"`
	ExpiresAt       time.Time       `json:"-"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description,omitempty"`
	StoreName       string          `json:"store_name,omitempty"`
	Test            bool            `json:"test"`
	Status          PaymentStatus   `json:"-"`
	Tier            string          `json:"tier,omitempty"`
	Buyer           Buyer           `json:"buyer"`
	Order           Order           `json:"order"`
	ShippingAddress Address         `json:"shipping_address"`
	Captures        []Capture       `json:"captures"`
	Refunds         []Refund        `json:"refunds"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}

// Buyer identifies the consumer of a payment.
type Buyer struct {
	Name1 string `json:"name1"`
	Name2 string `json:"name2,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Order is the order attached to a payment.
type Order struct {
	Tax       decimal.NullDecimal `json:"tax"`
	Shipping  decimal.NullDecimal `json:"shipping"`
	OrderRef  string              `json:"order_ref,omitempty"`
	Items     []Item              `json:"items"`
	UpdatedAt *time.Time          `json:"-"`
}

// Item is one order line.
type Item struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Address is a postal address.
type Address struct {
	Line1 string `json:"line1,omitempty"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Zip   string `json:"zip"`
}

// Capture is a capture made against a payment.
type Capture struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Amount    decimal.Decimal     `json:"amount"`
	Tax       decimal.NullDecimal `json:"tax"`
	Shipping  decimal.NullDecimal `json:"shipping"`
	Items     []Item              `json:"items"`
	Metadata  map[string]any      `json:"metadata,omitempty"`
}

// Refund is a refund made against a capture.
type Refund struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	CaptureID string              `json:"capture_id"`
	Amount    decimal.NullDecimal `json:"amount"`
	Reason    string              `json:"reason,omitempty"`
	Metadata  map[string]any      `json:"metadata,omitempty"`
}

func (*PaymentResponse) RecordName() string { return "PaymentResponse" }

func (r *PaymentResponse) wireFields() []binding {
	return []binding{
		bind("created_at", timestampField, &r.CreatedAt),
		bind("expires_at", timestampField, &r.ExpiresAt),
		bind("status", enumField(KindPaymentStatus), &r.Status),
		bind("order.updated_at", nullableTimeField, &r.Order.UpdatedAt),
	}
}

// ── Tokens ──────────────────────────────────────────────────────────────────

// TokenResponse is a subscription token returned by the tokens API.
type TokenResponse struct {
	ID          string         `json:"id"`
	MerchantID  string         `json:"merchant_id"`
	WalletID    string         `json:"wallet_id,omitempty"`
	Status      TokenStatus    `json:"-"`
	Origin      Origin         `json:"origin"`
	Description string         `json:"description,omitempty"`
	Kind        string         `json:"kind"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	WebhookURL  string         `json:"webhook_url,omitempty"`
	ConsumerID  string         `json:"consumer_id"`
	Suspensions []Suspension   `json:"suspensions"`
	Test        bool           `json:"test"`
	VersionNr   int            `json:"version_nr"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
	ActivatedAt *time.Time     `json:"-"`
	DeletedAt   *time.Time     `json:"-"`
}

// Origin is the consumer a token was issued for.
type Origin struct {
	Name1   string  `json:"name1"`
	Name2   string  `json:"name2,omitempty"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// Suspension records who suspended a token and when.
type Suspension struct {
	Timestamp time.Time `json:"timestamp"`
	Authority string    `json:"authority"`
}

func (*TokenResponse) RecordName() string { return "TokenResponse" }

func (r *TokenResponse) wireFields() []binding {
	return []binding{
		bind("status", enumField(KindTokenStatus), &r.Status),
		bind("created_at", timestampField, &r.CreatedAt),
		bind("updated_at", timestampField, &r.UpdatedAt),
		bind("activated_at", nullableTimeField, &r.ActivatedAt),
		bind("deleted_at", blankableTimeField, &r.DeletedAt),
	}
}

// SuspendRequest asks for a token to be suspended.
type SuspendRequest struct {
	WalletID string        `json:"wallet_id,omitempty"`
	Reason   SuspendReason `json:"reason"`
}

// SuspendReason is the reason block of a SuspendRequest.
type SuspendReason struct {
	Code        SuspendReasonCode `json:"-"`
	Description string            `json:"description"`
}

func (*SuspendRequest) RecordName() string { return "SuspendRequest" }

func (r *SuspendRequest) wireFields() []binding {
	return []binding{bind("reason.code", enumField(KindSuspendReason), &r.Reason.Code)}
}

// ResumeRequest asks for a suspended token to be resumed.
type ResumeRequest struct {
	WalletID string       `json:"wallet_id,omitempty"`
	Reason   ResumeReason `json:"reason"`
}

// ResumeReason is the reason block of a ResumeRequest.
type ResumeReason struct {
	Code        ResumeReasonCode `json:"-"`
	Description string           `json:"description"`
}

func (*ResumeRequest) RecordName() string { return "ResumeRequest" }

func (r *ResumeRequest) wireFields() []binding {
	return []binding{bind("reason.code", enumField(KindResumeReason), &r.Reason.Code)}
}

// DeleteRequest asks for a token to be deleted.
type DeleteRequest struct {
	WalletID string       `json:"wallet_id,omitempty"`
	Reason   DeleteReason `json:"reason"`
}

// DeleteReason is the reason block of a DeleteRequest.
type DeleteReason struct {
	Code        DeleteReasonCode `json:"-"`
	Description string           `json:"description"`
}

func (*DeleteRequest) RecordName() string { return "DeleteRequest" }

func (r *DeleteRequest) wireFields() []binding {
	return []binding{bind("reason.code", enumField(KindDeleteReason), &r.Reason.Code)}
}

// ── Webhooks ────────────────────────────────────────────────────────────────

// PaymentWebhook is the body Paidy posts for payment events.
type PaymentWebhook struct {
	PaymentID string       `json:"payment_id"`
	CaptureID string       `json:"capture_id,omitempty"`
	EventType string       `json:"event_type"`
	Status    PaymentEvent `json:"-"`
	OrderRef  string       `json:"order_ref,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp time.Time    `json:"-"`
}

func (*PaymentWebhook) RecordName() string { return "PaymentWebhook" }

func (r *PaymentWebhook) wireFields() []binding {
	return []binding{
		bind("status", enumField(KindPaymentEvent), &r.Status),
		bind("timestamp", timestampField, &r.Timestamp),
	}
}

// TokenWebhook is the body Paidy posts for token events.
type TokenWebhook struct {
	TokenID   string     `json:"token_id"`
	Status    TokenEvent `json:"-"`
	Timestamp time.Time  `json:"-"`
}

func (*TokenWebhook) RecordName() string { return "TokenWebhook" }

func (r *TokenWebhook) wireFields() []binding {
	return []binding{
		bind("status", enumField(KindTokenEvent), &r.Status),
		bind("timestamp", timestampField, &r.Timestamp),
	}
}

// ── Errors ──────────────────────────────────────────────────────────────────

// ErrorResponse is the body of a non-success API response.
type ErrorResponse struct {
	Reference   string `json:"reference"`
	Status      int    `json:"-"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (*ErrorResponse) RecordName() string { return "ErrorResponse" }

func (r *ErrorResponse) wireFields() []binding {
	return []binding{bind("status", httpStatusField, &r.Status)}
}

// records returns a zero value of every record type, used to collect field
// declarations when the registry is built.
func records() []Record {
	return []Record{
		&PaymentResponse{},
		&TokenResponse{},
		&SuspendRequest{},
		&ResumeRequest{},
		&DeleteRequest{},
		&PaymentWebhook{},
		&TokenWebhook{},
		&ErrorResponse{},
	}
}

// NewRecord returns an empty record of the named type, e.g. "TokenWebhook".
func NewRecord(name string) (Record, bool) {
	for _, rec := range records() {
		if rec.RecordName() == name {
			return rec, true
		}
	}
	return nil, false
}

// RecordNames lists the record types known to the registry.
func RecordNames() []string {
	recs := records()
	names := make([]string, len(recs))
	for i, rec := range recs {
		names[i] = rec.RecordName()
	}
	return names
}

// WireValues returns the codec-carried values of rec keyed by wire path.
func WireValues(rec Record) map[string]any {
	if isNil(rec) {
		return nil
	}
	bs := rec.wireFields()
	out := make(map[string]any, len(bs))
	for _, b := range bs {
		out[b.path] = b.get()
	}
	return out
}
