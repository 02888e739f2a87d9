// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// factory.go — builds codecs from descriptors. Codec kinds register a typed
// builder under a static key; the factory never enumerates kinds itself.

package wire

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Built-in codec kinds.
const (
	KindTime         = "time"
	KindNullableTime = "nullable_time"
	KindHTTPStatus   = "http_status"
)

// Params are the construction arguments a descriptor passes to a builder.
// The zero value means "no arguments".
type Params struct {
	// Layout is a Go time layout. Empty selects the locale's default parser.
	Layout string
	// Locale names a registered Locale ("", "en-US", "ja-JP").
	Locale string
	// BlankAsNull makes nullable codecs decode blank strings to nil.
	BlankAsNull bool
}

// IsZero reports whether p carries no arguments.
func (p Params) IsZero() bool { return p == Params{} }

// Descriptor names a codec kind and its arguments. It is declared next to
// the field it applies to and consumed once at registry build time.
type Descriptor struct {
	Kind   string
	Params Params
}

// Builder constructs a codec for one kind. It must reject params it cannot
// honour instead of ignoring them.
type Builder func(p Params) (Codec, error)

// Factory maps codec kinds to builders.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{builders: make(map[string]Builder)}
}

// Register adds a builder for kind. It panics if kind is empty, b is nil or
// kind is already registered.
func (f *Factory) Register(kind string, b Builder) {
	if kind == "" {
		panic("wire: Register with empty kind")
	}
	if b == nil {
		panic("wire: Register builder is nil for kind " + kind)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.builders[kind]; dup {
		panic("wire: Register called twice for kind " + kind)
	}
	f.builders[kind] = b
}

// Kinds returns the registered kinds in sorted order.
func (f *Factory) Kinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.builders))
	for k := range f.builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build constructs the codec described by d. Any failure, including a
// panicking builder, is returned as a *ConstructionError and no codec.
func (f *Factory) Build(d Descriptor) (c Codec, err error) {
	f.mu.RLock()
	b, ok := f.builders[d.Kind]
	f.mu.RUnlock()
	if !ok {
		return nil, &ConstructionError{Kind: d.Kind, Reason: "unknown codec kind"}
	}

	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = &ConstructionError{Kind: d.Kind, Reason: fmt.Sprintf("builder panicked: %v", r)}
		}
	}()

	c, err = b(d.Params)
	if err != nil {
		var ce *ConstructionError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &ConstructionError{Kind: d.Kind, Reason: "builder failed", Cause: err}
	}
	if c == nil {
		return nil, &ConstructionError{Kind: d.Kind, Reason: "builder returned no codec"}
	}
	return c, nil
}

var defaultFactory = NewFactory()

// Default returns the process-wide factory that Register populates.
func Default() *Factory { return defaultFactory }

// Register adds a builder to the default factory. Call it from init.
func Register(kind string, b Builder) { defaultFactory.Register(kind, b) }

// NoParams returns a builder for kinds that take no arguments.
func NoParams(kind string, build func() (Codec, error)) Builder {
	return func(p Params) (Codec, error) {
		if !p.IsZero() {
			return nil, &ConstructionError{Kind: kind, Reason: fmt.Sprintf("takes no arguments, got %+v", p)}
		}
		return build()
	}
}

// EnumBuilder returns a builder that compiles m. Enum kinds take no
// arguments.
func EnumBuilder[T comparable](kind string, m Mapping[T]) Builder {
	return NoParams(kind, func() (Codec, error) {
		c, err := NewEnumCodec(m)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

func buildTime(p Params) (Codec, error) {
	if p.BlankAsNull {
		return nil, &ConstructionError{Kind: KindTime, Reason: "blank-as-null needs " + KindNullableTime}
	}
	tc, err := NewTimeCodec(p.Layout, p.Locale)
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func buildNullableTime(p Params) (Codec, error) {
	tc, err := NewTimeCodec(p.Layout, p.Locale)
	if err != nil {
		return nil, err
	}
	return NewNullable[time.Time](tc, p.BlankAsNull), nil
}

// RegisterBuiltins adds the time, nullable_time and http_status kinds to f.
func RegisterBuiltins(f *Factory) {
	f.Register(KindTime, buildTime)
	f.Register(KindNullableTime, buildNullableTime)
	f.Register(KindHTTPStatus, NoParams(KindHTTPStatus, func() (Codec, error) {
		return StatusCodeCodec{}, nil
	}))
}

func init() {
	RegisterBuiltins(defaultFactory)
}
