package paidy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewDonelson/paidy/internal/wire"
)

func TestKinds_RegisteredWithDirection(t *testing.T) {
	want := map[string]wire.Direction{
		KindPaymentStatus: wire.Decode,
		KindPaymentEvent:  wire.Decode,
		KindTokenStatus:   wire.Decode,
		KindTokenEvent:    wire.Decode,
		KindSuspendReason: wire.Encode,
		KindResumeReason:  wire.Encode,
		KindDeleteReason:  wire.Encode,
	}
	for kind, dir := range want {
		c, err := wire.Default().Build(enumField(kind))
		require.NoError(t, err, kind)
		assert.Equal(t, dir, c.Direction(), kind)
	}
}

func TestKinds_EnumsTakeNoParams(t *testing.T) {
	_, err := wire.Default().Build(wire.Descriptor{Kind: KindTokenEvent, Params: wire.Params{Locale: "ja-JP"}})
	assert.ErrorIs(t, err, wire.ErrCodecConstruction)
}

func TestKinds_PaymentEventUnknownUnmapped(t *testing.T) {
	c, err := wire.NewEnumCodec(paymentEventMapping)
	require.NoError(t, err)
	for _, p := range paymentEventMapping.Pairs {
		assert.NotEqual(t, PaymentEventUnknown, p.Value)
		v, err := c.DecodeString(p.Wire)
		require.NoError(t, err)
		assert.Equal(t, p.Value, v)
	}
}

func TestRecords_DeclarationsAreUnique(t *testing.T) {
	seen := make(map[wire.FieldKey]bool)
	for _, rec := range records() {
		for _, b := range rec.wireFields() {
			k := b.key(rec)
			assert.False(t, seen[k], "duplicate declaration %s", k)
			seen[k] = true
		}
	}
	assert.Len(t, seen, 17)
}

func TestBind_NilResultResetsField(t *testing.T) {
	var status TokenStatus = TokenStatusActive
	b := bind("status", enumField(KindTokenStatus), &status)
	require.NoError(t, b.set(nil))
	assert.Equal(t, TokenStatusUnknown, status)

	err := b.set("active")
	assert.ErrorIs(t, err, errFieldType)
}

type wirePair struct {
	value any
	wire  string
}

func TestKinds_WireTables(t *testing.T) {
	cases := []struct {
		kind     string
		dir      wire.Direction
		declared int
		unset    any
		pairs    []wirePair
	}{
		{KindPaymentStatus, wire.Decode, len(paymentStatusMapping.Pairs), PaymentStatusUnknown, []wirePair{
			{PaymentStatusAuthorized, "authorized"},
			{PaymentStatusClosed, "closed"},
		}},
		{KindPaymentEvent, wire.Decode, len(paymentEventMapping.Pairs), PaymentEventUnknown, []wirePair{
			{PaymentEventAuthorizeSuccess, "authorize_success"},
			{PaymentEventCaptureSuccess, "capture_success"},
			{PaymentEventRefundSuccess, "refund_success"},
			{PaymentEventUpdateSuccess, "update_success"},
			{PaymentEventCloseSuccess, "close_success"},
		}},
		{KindTokenStatus, wire.Decode, len(tokenStatusMapping.Pairs), TokenStatusUnknown, []wirePair{
			{TokenStatusActive, "active"},
			{TokenStatusSuspended, "suspended"},
			{TokenStatusDeleted, "deleted"},
		}},
		{KindTokenEvent, wire.Decode, len(tokenEventMapping.Pairs), TokenEventUnknown, []wirePair{
			{TokenEventActivateSuccess, "activate_success"},
			{TokenEventSuspendSuccess, "suspend_success"},
			{TokenEventResumeSuccess, "resume_success"},
			{TokenEventDeleteSuccess, "delete_success"},
		}},
		{KindSuspendReason, wire.Encode, len(suspendReasonMapping.Pairs), SuspendReasonUnset, []wirePair{
			{SuspendReasonConsumerRequested, "consumer.requested"},
			{SuspendReasonMerchantRequested, "merchant.requested"},
			{SuspendReasonFraudDetected, "fraud.detected"},
			{SuspendReasonGeneral, "general"},
		}},
		{KindResumeReason, wire.Encode, len(resumeReasonMapping.Pairs), ResumeReasonUnset, []wirePair{
			{ResumeReasonConsumerRequested, "consumer.requested"},
			{ResumeReasonMerchantRequested, "merchant.requested"},
			{ResumeReasonGeneral, "general"},
		}},
		{KindDeleteReason, wire.Encode, len(deleteReasonMapping.Pairs), DeleteReasonUnset, []wirePair{
			{DeleteReasonConsumerRequested, "consumer.requested"},
			{DeleteReasonSubscriptionExpired, "subscription.expired"},
			{DeleteReasonMerchantRequested, "merchant.requested"},
			{DeleteReasonFraudDetected, "fraud.detected"},
			{DeleteReasonGeneral, "general"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			c, err := wire.Default().Build(enumField(tc.kind))
			require.NoError(t, err)
			require.Equal(t, tc.dir, c.Direction())
			assert.Equal(t, len(tc.pairs), tc.declared, "every declared pair is listed")

			for _, p := range tc.pairs {
				switch tc.dir {
				case wire.Decode:
					got, err := c.Decode(wire.String(p.wire))
					require.NoError(t, err, p.wire)
					assert.Equal(t, p.value, got)

					_, err = c.Encode(p.value)
					assert.ErrorIs(t, err, wire.ErrEncodeNotSupported, p.wire)
				case wire.Encode:
					tok, err := c.Encode(p.value)
					require.NoError(t, err, p.wire)
					assert.Equal(t, wire.String(p.wire), tok)

					_, err = c.Decode(wire.String(p.wire))
					assert.ErrorIs(t, err, wire.ErrDecodeNotSupported, p.wire)
				}
			}

			switch tc.dir {
			case wire.Decode:
				_, err = c.Encode(tc.unset)
				assert.ErrorIs(t, err, wire.ErrEncodeNotSupported)
			case wire.Encode:
				_, err = c.Encode(tc.unset)
				assert.ErrorIs(t, err, wire.ErrUnsupportedValue)
				_, err = c.Decode(wire.String("unmapped_value"))
				assert.ErrorIs(t, err, wire.ErrDecodeNotSupported)
			}
		})
	}
}
