package paidy

import (
	"strconv"

	"github.com/AndrewDonelson/paidy/internal/wire"
)

// PaymentStatus is the state of a payment as reported by the API.
type PaymentStatus uint8

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentStatusAuthorized
	PaymentStatusClosed
)

// PaymentEvent is the status carried by a payment webhook.
type PaymentEvent uint8

const (
	// PaymentEventUnknown is never produced by decoding.
	PaymentEventUnknown PaymentEvent = iota
	PaymentEventAuthorizeSuccess
	PaymentEventCaptureSuccess
	PaymentEventRefundSuccess
	PaymentEventUpdateSuccess
	PaymentEventCloseSuccess
)

// TokenStatus is the state of a subscription token.
type TokenStatus uint8

const (
	TokenStatusUnknown TokenStatus = iota
	TokenStatusActive
	TokenStatusSuspended
	TokenStatusDeleted
)

// TokenEvent is the status carried by a token webhook.
type TokenEvent uint8

const (
	TokenEventUnknown TokenEvent = iota
	TokenEventActivateSuccess
	TokenEventSuspendSuccess
	TokenEventResumeSuccess
	TokenEventDeleteSuccess
)

// SuspendReasonCode explains a token suspension request. The zero value is
// unset and cannot be encoded.
type SuspendReasonCode uint8

const (
	SuspendReasonUnset SuspendReasonCode = iota
	SuspendReasonConsumerRequested
	SuspendReasonMerchantRequested
	SuspendReasonFraudDetected
	SuspendReasonGeneral
)

// ResumeReasonCode explains a token resume request.
type ResumeReasonCode uint8

const (
	ResumeReasonUnset ResumeReasonCode = iota
	ResumeReasonConsumerRequested
	ResumeReasonMerchantRequested
	ResumeReasonGeneral
)

// DeleteReasonCode explains a token deletion request.
type DeleteReasonCode uint8

const (
	DeleteReasonUnset DeleteReasonCode = iota
	DeleteReasonConsumerRequested
	DeleteReasonSubscriptionExpired
	DeleteReasonMerchantRequested
	DeleteReasonFraudDetected
	DeleteReasonGeneral
)

// Wire mappings. Direction is per type and deliberately asymmetric: API
// responses and webhooks are only ever read, request reasons only written.
var (
	paymentStatusMapping = wire.Mapping[PaymentStatus]{
		TypeName:  "PaymentStatus",
		Direction: wire.Decode,
		Pairs: []wire.Pair[PaymentStatus]{
			{Value: PaymentStatusAuthorized, Wire: "authorized"},
			{Value: PaymentStatusClosed, Wire: "closed"},
		},
	}

	paymentEventMapping = wire.Mapping[PaymentEvent]{
		TypeName:  "PaymentEvent",
		Direction: wire.Decode,
		Pairs: []wire.Pair[PaymentEvent]{
			{Value: PaymentEventAuthorizeSuccess, Wire: "authorize_success"},
			{Value: PaymentEventCaptureSuccess, Wire: "capture_success"},
			{Value: PaymentEventRefundSuccess, Wire: "refund_success"},
			{Value: PaymentEventUpdateSuccess, Wire: "update_success"},
			{Value: PaymentEventCloseSuccess, Wire: "close_success"},
		},
	}

	tokenStatusMapping = wire.Mapping[TokenStatus]{
		TypeName:  "TokenStatus",
		Direction: wire.Decode,
		Pairs: []wire.Pair[TokenStatus]{
			{Value: TokenStatusActive, Wire: "active"},
			{Value: TokenStatusSuspended, Wire: "suspended"},
			{Value: TokenStatusDeleted, Wire: "deleted"},
		},
	}

	tokenEventMapping = wire.Mapping[TokenEvent]{
		TypeName:  "TokenEvent",
		Direction: wire.Decode,
		Pairs: []wire.Pair[TokenEvent]{
			{Value: TokenEventActivateSuccess, Wire: "activate_success"},
			{Value: TokenEventSuspendSuccess, Wire: "suspend_success"},
			{Value: TokenEventResumeSuccess, Wire: "resume_success"},
			{Value: TokenEventDeleteSuccess, Wire: "delete_success"},
		},
	}

	suspendReasonMapping = wire.Mapping[SuspendReasonCode]{
		TypeName:  "SuspendReasonCode",
		Direction: wire.Encode,
		Pairs: []wire.Pair[SuspendReasonCode]{
			{Value: SuspendReasonConsumerRequested, Wire: "consumer.requested"},
			{Value: SuspendReasonMerchantRequested, Wire: "merchant.requested"},
			{Value: SuspendReasonFraudDetected, Wire: "fraud.detected"},
			{Value: SuspendReasonGeneral, Wire: "general"},
		},
	}

	resumeReasonMapping = wire.Mapping[ResumeReasonCode]{
		TypeName:  "ResumeReasonCode",
		Direction: wire.Encode,
		Pairs: []wire.Pair[ResumeReasonCode]{
			{Value: ResumeReasonConsumerRequested, Wire: "consumer.requested"},
			{Value: ResumeReasonMerchantRequested, Wire: "merchant.requested"},
			{Value: ResumeReasonGeneral, Wire: "general"},
		},
	}

	deleteReasonMapping = wire.Mapping[DeleteReasonCode]{
		TypeName:  "DeleteReasonCode",
		Direction: wire.Encode,
		Pairs: []wire.Pair[DeleteReasonCode]{
			{Value: DeleteReasonConsumerRequested, Wire: "consumer.requested"},
			{Value: DeleteReasonSubscriptionExpired, Wire: "subscription.expired"},
			{Value: DeleteReasonMerchantRequested, Wire: "merchant.requested"},
			{Value: DeleteReasonFraudDetected, Wire: "fraud.detected"},
			{Value: DeleteReasonGeneral, Wire: "general"},
		},
	}
)

// wireName returns the mapped wire string for v, or "Type(n)" when v has
// none.
func wireName[T comparable](m wire.Mapping[T], v T, n uint8) string {
	for _, p := range m.Pairs {
		if p.Value == v {
			return p.Wire
		}
	}
	return m.TypeName + "(" + strconv.Itoa(int(n)) + ")"
}

func (s PaymentStatus) String() string     { return wireName(paymentStatusMapping, s, uint8(s)) }
func (e PaymentEvent) String() string      { return wireName(paymentEventMapping, e, uint8(e)) }
func (s TokenStatus) String() string       { return wireName(tokenStatusMapping, s, uint8(s)) }
func (e TokenEvent) String() string        { return wireName(tokenEventMapping, e, uint8(e)) }
func (c SuspendReasonCode) String() string { return wireName(suspendReasonMapping, c, uint8(c)) }
func (c ResumeReasonCode) String() string  { return wireName(resumeReasonMapping, c, uint8(c)) }
func (c DeleteReasonCode) String() string  { return wireName(deleteReasonMapping, c, uint8(c)) }
