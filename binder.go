// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// binder.go — moves codec-carried fields between records and JSON documents.
// Plain members go through the engine's own (un)marshal; each declared
// binding is then read or written as a single wire token at its path.

package paidy

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/AndrewDonelson/paidy/internal/codec"
	"github.com/AndrewDonelson/paidy/internal/wire"
)

// Record is implemented by every wire record in this package.
type Record interface {
	// RecordName is the registry name of the record type.
	RecordName() string
	wireFields() []binding
}

// binding ties a dotted wire path and its codec descriptor to one Go field.
type binding struct {
	path string
	desc wire.Descriptor
	set  func(v any) error
	get  func() any
}

var errFieldType = errors.New("paidy: codec result does not fit field")

// bind declares that the member at path is carried by the codec described
// by d and stored in *ptr.
func bind[T any](path string, d wire.Descriptor, ptr *T) binding {
	return binding{
		path: path,
		desc: d,
		set: func(v any) error {
			if v == nil {
				var zero T
				*ptr = zero
				return nil
			}
			t, ok := v.(T)
			if !ok {
				return fmt.Errorf("%w: got %T, want %T", errFieldType, v, *ptr)
			}
			*ptr = t
			return nil
		},
		get: func() any { return *ptr },
	}
}

func (b binding) key(rec Record) wire.FieldKey {
	return wire.FieldKey{Record: rec.RecordName(), Path: b.path}
}

func fieldErr(rec Record, path string, err error) error {
	return fmt.Errorf("paidy: %s.%s: %w", rec.RecordName(), path, err)
}

func isNil(rec Record) bool {
	if rec == nil {
		return true
	}
	v := reflect.ValueOf(rec)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// engineErr reports a failure of the engine's plain (un)marshal with the
// same error kind on every backend.
func engineErr(backend codec.Backend, err error) error {
	if errors.Is(err, wire.ErrMalformedToken) {
		return err
	}
	return &wire.CodecError{Err: wire.ErrMalformedToken, Type: "json document", Cause: fmt.Errorf("%s: %w", backend.Name(), err)}
}

// decodeRecord fills rec from data. Absent members leave the field as is;
// present members always go through their codec.
func decodeRecord(backend codec.Backend, reg *wire.Registry, data []byte, rec Record, onField func(path string)) error {
	if err := backend.Unmarshal(data, rec); err != nil {
		return engineErr(backend, err)
	}
	for _, b := range rec.wireFields() {
		c, ok := reg.Lookup(b.key(rec))
		if !ok {
			return fieldErr(rec, b.path, errUnregistered)
		}
		tok, present, err := backend.ReadToken(data, strings.Split(b.path, "."))
		if err != nil {
			return fieldErr(rec, b.path, err)
		}
		if !present {
			continue
		}
		v, err := c.Decode(tok)
		if err != nil {
			return fieldErr(rec, b.path, err)
		}
		if err := b.set(v); err != nil {
			return fieldErr(rec, b.path, err)
		}
		if onField != nil {
			onField(b.path)
		}
	}
	return nil
}

// encodeRecord renders rec as JSON, writing every bound field through its
// codec.
func encodeRecord(backend codec.Backend, reg *wire.Registry, rec Record) ([]byte, error) {
	data, err := backend.Marshal(rec)
	if err != nil {
		return nil, engineErr(backend, err)
	}
	for _, b := range rec.wireFields() {
		c, ok := reg.Lookup(b.key(rec))
		if !ok {
			return nil, fieldErr(rec, b.path, errUnregistered)
		}
		tok, err := c.Encode(b.get())
		if err != nil {
			return nil, fieldErr(rec, b.path, err)
		}
		if data, err = backend.WriteToken(data, strings.Split(b.path, "."), tok); err != nil {
			return nil, fieldErr(rec, b.path, err)
		}
	}
	return data, nil
}

var errUnregistered = errors.New("paidy: field has no registered codec")
