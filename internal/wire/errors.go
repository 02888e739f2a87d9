package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors. Every failure returned by this package matches exactly one of
// these through errors.Is.
var (
	ErrUnsupportedValue   = errors.New("wire: unsupported value")
	ErrEncodeNotSupported = errors.New("wire: encode not supported")
	ErrDecodeNotSupported = errors.New("wire: decode not supported")
	ErrMalformedToken     = errors.New("wire: malformed token")
	ErrParseFailed        = errors.New("wire: scalar parse failed")
	ErrCodecConstruction  = errors.New("wire: codec construction failed")
)

// CodecError is a decode or encode failure. Err is one of the sentinels
// above; Cause, when set, is the underlying parser or engine error.
type CodecError struct {
	Err   error
	Type  string
	Value string
	Cause error
}

func (e *CodecError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	b.WriteString(": type=")
	b.WriteString(e.Type)
	if e.Value != "" {
		fmt.Fprintf(&b, " value=%q", e.Value)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// ConstructionError reports a descriptor the factory could not turn into a
// codec. It always matches ErrCodecConstruction.
type ConstructionError struct {
	Kind   string
	Reason string
	Cause  error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("%s: kind=%q: %s", ErrCodecConstruction, e.Kind, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConstructionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCodecConstruction}
	}
	return []error{ErrCodecConstruction, e.Cause}
}

func unsupported(typeName, value string) error {
	return &CodecError{Err: ErrUnsupportedValue, Type: typeName, Value: value}
}

func malformed(typeName string, tok Token, want Kind) error {
	return &CodecError{
		Err:   ErrMalformedToken,
		Type:  typeName,
		Value: tok.Text,
		Cause: fmt.Errorf("got %s, want %s", tok.Kind, want),
	}
}

func directionErr(typeName string, want Direction) error {
	if want == Encode {
		return &CodecError{Err: ErrEncodeNotSupported, Type: typeName}
	}
	return &CodecError{Err: ErrDecodeNotSupported, Type: typeName}
}
