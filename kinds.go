package paidy

import "github.com/AndrewDonelson/paidy/internal/wire"

// Codec kinds for the domain enums. Time and status-code kinds are built
// into the wire layer.
const (
	KindPaymentStatus = "payment_status"
	KindPaymentEvent  = "payment_event"
	KindTokenStatus   = "token_status"
	KindTokenEvent    = "token_event"
	KindSuspendReason = "suspend_reason"
	KindResumeReason  = "resume_reason"
	KindDeleteReason  = "delete_reason"
)

func init() {
	wire.Register(KindPaymentStatus, wire.EnumBuilder(KindPaymentStatus, paymentStatusMapping))
	wire.Register(KindPaymentEvent, wire.EnumBuilder(KindPaymentEvent, paymentEventMapping))
	wire.Register(KindTokenStatus, wire.EnumBuilder(KindTokenStatus, tokenStatusMapping))
	wire.Register(KindTokenEvent, wire.EnumBuilder(KindTokenEvent, tokenEventMapping))
	wire.Register(KindSuspendReason, wire.EnumBuilder(KindSuspendReason, suspendReasonMapping))
	wire.Register(KindResumeReason, wire.EnumBuilder(KindResumeReason, resumeReasonMapping))
	wire.Register(KindDeleteReason, wire.EnumBuilder(KindDeleteReason, deleteReasonMapping))
}

// Descriptor shorthands used by record field declarations.

func enumField(kind string) wire.Descriptor { return wire.Descriptor{Kind: kind} }

var (
	timestampField     = wire.Descriptor{Kind: wire.KindTime}
	nullableTimeField  = wire.Descriptor{Kind: wire.KindNullableTime}
	blankableTimeField = wire.Descriptor{Kind: wire.KindNullableTime, Params: wire.Params{BlankAsNull: true}}
	httpStatusField    = wire.Descriptor{Kind: wire.KindHTTPStatus}
)
