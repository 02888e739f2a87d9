// Package codec provides the serialization engines the SDK runs on: two JSON
// backends that move wire tokens in and out of documents, and a MessagePack
// codec for values the webhook inbox stores.
package codec

import (
	"errors"
	"fmt"

	"github.com/AndrewDonelson/paidy/internal/wire"
)

// Codec encodes and decodes whole values.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// Backend is a JSON engine that can also address a single member of a
// document as a wire token. Backends translate cursor operations only; all
// value mapping happens in the wire codecs.
type Backend interface {
	Codec
	// ReadToken returns the value at path inside the JSON object data.
	// ok is false when a member on the path is absent or a parent is null.
	ReadToken(data []byte, path []string) (tok wire.Token, ok bool, err error)
	// WriteToken returns data with the member at path set to tok, creating
	// intermediate objects as needed.
	WriteToken(data []byte, path []string, tok wire.Token) ([]byte, error)
}

// ErrUnknownBackend is returned by Lookup for an unregistered name.
var ErrUnknownBackend = errors.New("codec: unknown backend")

// Lookup returns the backend called name. The empty name selects JSON.
func Lookup(name string) (Backend, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "sonic":
		return Sonic{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Backends returns every available JSON backend.
func Backends() []Backend { return []Backend{JSON{}, Sonic{}} }

const documentType = "json document"

// malformed reports an engine failure as the shared wire error so callers
// see the same error kind whichever backend is in use.
func malformed(engine string, err error) error {
	return &wire.CodecError{Err: wire.ErrMalformedToken, Type: documentType, Cause: fmt.Errorf("%s: %w", engine, err)}
}

var (
	errInvalidJSON = errors.New("invalid JSON")
	errEmptyPath   = errors.New("empty member path")
	errNotObject   = errors.New("parent is not an object")
	errCompound    = errors.New("cannot write object or array token")
)
