package paidy_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewDonelson/paidy"
)

// errKind names the codec sentinel err matches, or "" for nil.
func errKind(err error) string {
	for _, k := range []struct {
		name string
		err  error
	}{
		{"unsupported", paidy.ErrUnsupportedValue},
		{"encode_not_supported", paidy.ErrEncodeNotSupported},
		{"decode_not_supported", paidy.ErrDecodeNotSupported},
		{"malformed", paidy.ErrMalformedToken},
		{"parse", paidy.ErrParseFailed},
	} {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	if err != nil {
		return "other: " + err.Error()
	}
	return ""
}

func TestEngineParity_Decode(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		record func() paidy.Record
	}{
		{"payment", paymentJSON, func() paidy.Record { return &paidy.PaymentResponse{} }},
		{"token", tokenJSON, func() paidy.Record { return &paidy.TokenResponse{} }},
		{"payment webhook", paymentWebhookJSON, func() paidy.Record { return &paidy.PaymentWebhook{} }},
		{"token webhook", tokenWebhookJSON, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"error", errorJSON, func() paidy.Record { return &paidy.ErrorResponse{} }},
		{"unknown event", `{"status":"bogus_event"}`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"case sensitive", `{"status":"Active"}`, func() paidy.Record { return &paidy.TokenResponse{} }},
		{"bad timestamp", `{"timestamp":"yesterday"}`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"null timestamp", `{"timestamp":null}`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"blank nullable", `{"deleted_at":""}`, func() paidy.Record { return &paidy.TokenResponse{} }},
		{"encode only", `{"reason":{"code":"general"}}`, func() paidy.Record { return &paidy.DeleteRequest{} }},
		{"scalar parent", `{"order":"none"}`, func() paidy.Record { return &paidy.PaymentResponse{} }},
		{"null parent", `{"order":null}`, func() paidy.Record { return &paidy.PaymentResponse{} }},
		{"truncated", `{"token_id":"tok`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"not an object", `["active"]`, func() paidy.Record { return &paidy.TokenResponse{} }},
		{"escaped string", `{"status":"\u0061ctive"}`, func() paidy.Record { return &paidy.TokenResponse{} }},
		{"repeated status, last valid", `{"status":"bogus_event","status":"activate_success"}`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"repeated status, last invalid", `{"status":"activate_success","status":"bogus_event"}`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"repeated timestamp", `{"timestamp":"bad","timestamp":"2026-03-01T00:05:00Z"}`, func() paidy.Record { return &paidy.TokenWebhook{} }},
		{"repeated parent", `{"order":{"updated_at":"bad"},"order":{"updated_at":null}}`, func() paidy.Record { return &paidy.PaymentResponse{} }},
		{"invalid utf-8", "{\"status\":\"\xff\xfe\"}", func() paidy.Record { return &paidy.TokenWebhook{} }},
	}

	std := newCodecs(t, "json")
	fast := newCodecs(t, "sonic")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := tc.record(), tc.record()
			errA := std.Decode([]byte(tc.body), a)
			errB := fast.Decode([]byte(tc.body), b)
			require.Equal(t, errKind(errA), errKind(errB), "json=%v sonic=%v", errA, errB)
			if errA == nil {
				assert.Equal(t, a, b)
				return
			}
			var ceA, ceB *paidy.CodecError
			if errors.As(errA, &ceA) && errors.As(errB, &ceB) {
				assert.Equal(t, ceA.Type, ceB.Type)
				assert.Equal(t, ceA.Value, ceB.Value)
			}
		})
	}
}

func TestEngineParity_RepeatedKeyLastWins(t *testing.T) {
	body := []byte(`{"token_id":"tok_1","status":"activate_success","timestamp":"bad","status":"delete_success","timestamp":"2026-03-01T00:05:00Z"}`)
	forEachEngine(t, func(t *testing.T, c *paidy.Codecs) {
		wh, err := c.ParseTokenWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, paidy.TokenEventDeleteSuccess, wh.Status)
		assert.True(t, wh.Timestamp.Equal(time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC)))
	})
}

func TestEngineParity_InvalidUTF8Value(t *testing.T) {
	forEachEngine(t, func(t *testing.T, c *paidy.Codecs) {
		_, err := c.ParseTokenWebhook([]byte("{\"status\":\"\xff\xfe\"}"))
		var ce *paidy.CodecError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "\ufffd\ufffd", ce.Value)
	})
}

func TestEngineParity_Encode(t *testing.T) {
	recs := []paidy.Record{
		&paidy.SuspendRequest{WalletID: "default", Reason: paidy.SuspendReason{Code: paidy.SuspendReasonMerchantRequested, Description: "<overdue> & unpaid"}},
		&paidy.ResumeRequest{Reason: paidy.ResumeReason{Code: paidy.ResumeReasonConsumerRequested}},
		&paidy.DeleteRequest{Reason: paidy.DeleteReason{Code: paidy.DeleteReasonFraudDetected}},
		&paidy.DeleteRequest{},
		&paidy.PaymentWebhook{Status: paidy.PaymentEventCloseSuccess},
	}
	std := newCodecs(t, "json")
	fast := newCodecs(t, "sonic")
	for _, rec := range recs {
		t.Run(rec.RecordName(), func(t *testing.T) {
			outA, errA := std.Encode(rec)
			outB, errB := fast.Encode(rec)
			require.Equal(t, errKind(errA), errKind(errB))
			if errA == nil {
				assert.JSONEq(t, string(outA), string(outB))
			}
		})
	}
}
