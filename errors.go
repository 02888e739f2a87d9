// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go — sentinel error variables returned by the public API: codec
// failures re-exported from the wire layer, configuration and record misuse,
// webhook inbox state, and the APIError carrier for Paidy error payloads.

// Package paidy provides the wire codec layer of a Paidy payments SDK:
// typed conversion of status, event and reason-code enums, nullable
// timestamps and quoted status codes to and from JSON, on either of two
// interchangeable JSON engines, plus idempotent webhook intake.
package paidy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AndrewDonelson/paidy/internal/wire"
)

// Codec errors. Every decode or encode failure matches exactly one of these
// through errors.Is; CodecError carries the details.
var (
	ErrUnsupportedValue   = wire.ErrUnsupportedValue
	ErrEncodeNotSupported = wire.ErrEncodeNotSupported
	ErrDecodeNotSupported = wire.ErrDecodeNotSupported
	ErrMalformedToken     = wire.ErrMalformedToken
	ErrParseFailed        = wire.ErrParseFailed
	ErrCodecConstruction  = wire.ErrCodecConstruction
)

// CodecError is the structured form of a codec failure.
type CodecError = wire.CodecError

// ConstructionError is the structured form of a codec construction failure.
type ConstructionError = wire.ConstructionError

// Config errors
var (
	ErrInvalidConfig = errors.New("paidy: invalid configuration")
	ErrUnknownEngine = errors.New("paidy: unknown JSON engine")
)

// Record errors
var (
	ErrNilRecord = errors.New("paidy: record must be a non-nil pointer")
)

// Inbox errors
var (
	ErrInboxClosed   = errors.New("paidy: webhook inbox closed")
	ErrL3Unavailable = errors.New("paidy: L3 Postgres journal unavailable")
)

// APIError is a non-success response from the Paidy API. The payload is
// decoded into an ErrorResponse on first use.
type APIError struct {
	StatusCode int
	Payload    []byte

	once sync.Once
	resp *ErrorResponse
	err  error
}

// NewAPIError wraps a status code and raw response body.
func NewAPIError(statusCode int, payload []byte) *APIError {
	return &APIError{StatusCode: statusCode, Payload: payload}
}

// Response decodes the payload with c. The result is cached, so later calls
// ignore c.
func (e *APIError) Response(c *Codecs) (*ErrorResponse, error) {
	e.once.Do(func() {
		var r ErrorResponse
		if err := c.Decode(e.Payload, &r); err != nil {
			e.err = err
			return
		}
		e.resp = &r
	})
	return e.resp, e.err
}

func (e *APIError) Error() string {
	if e.resp != nil {
		return fmt.Sprintf("paidy: api error %d: %s: %s", e.StatusCode, e.resp.Code, e.resp.Title)
	}
	return fmt.Sprintf("paidy: api error %d", e.StatusCode)
}
