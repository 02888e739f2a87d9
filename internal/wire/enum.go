// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// enum.go — string-keyed enum codec built from a static wire mapping.

package wire

import "fmt"

// Pair binds one domain variant to its wire string.
type Pair[T comparable] struct {
	Value T
	Wire  string
}

// Mapping is the complete wire table for one enum type.
type Mapping[T comparable] struct {
	TypeName  string
	Direction Direction
	Pairs     []Pair[T]
}

// EnumCodec maps a closed set of variants to fixed wire strings. Values
// outside the mapping are rejected in both directions.
type EnumCodec[T comparable] struct {
	typeName string
	dir      Direction
	byWire   map[string]T
	byValue  map[T]string
}

// NewEnumCodec compiles m. Wire strings and variants must be unique.
func NewEnumCodec[T comparable](m Mapping[T]) (*EnumCodec[T], error) {
	if m.TypeName == "" {
		return nil, &ConstructionError{Kind: "enum", Reason: "mapping has no type name"}
	}
	if m.Direction&Both == 0 {
		return nil, &ConstructionError{Kind: m.TypeName, Reason: "mapping declares no direction"}
	}
	if len(m.Pairs) == 0 {
		return nil, &ConstructionError{Kind: m.TypeName, Reason: "mapping is empty"}
	}
	c := &EnumCodec[T]{
		typeName: m.TypeName,
		dir:      m.Direction,
		byWire:   make(map[string]T, len(m.Pairs)),
		byValue:  make(map[T]string, len(m.Pairs)),
	}
	for _, p := range m.Pairs {
		if _, dup := c.byWire[p.Wire]; dup {
			return nil, &ConstructionError{Kind: m.TypeName, Reason: fmt.Sprintf("duplicate wire string %q", p.Wire)}
		}
		if _, dup := c.byValue[p.Value]; dup {
			return nil, &ConstructionError{Kind: m.TypeName, Reason: fmt.Sprintf("duplicate variant %v", p.Value)}
		}
		c.byWire[p.Wire] = p.Value
		c.byValue[p.Value] = p.Wire
	}
	return c, nil
}

func (c *EnumCodec[T]) TypeName() string     { return c.typeName }
func (c *EnumCodec[T]) Direction() Direction { return c.dir }

// DecodeString returns the variant for s.
func (c *EnumCodec[T]) DecodeString(s string) (T, error) {
	var zero T
	if !c.dir.CanDecode() {
		return zero, directionErr(c.typeName, Decode)
	}
	v, ok := c.byWire[s]
	if !ok {
		return zero, unsupported(c.typeName, s)
	}
	return v, nil
}

// EncodeValue returns the wire string for v.
func (c *EnumCodec[T]) EncodeValue(v T) (string, error) {
	if !c.dir.CanEncode() {
		return "", directionErr(c.typeName, Encode)
	}
	s, ok := c.byValue[v]
	if !ok {
		return "", unsupported(c.typeName, fmt.Sprint(v))
	}
	return s, nil
}

// Decode implements Codec. The token must be a JSON string.
func (c *EnumCodec[T]) Decode(tok Token) (any, error) {
	if !c.dir.CanDecode() {
		return nil, directionErr(c.typeName, Decode)
	}
	if tok.Kind != KindString {
		return nil, malformed(c.typeName, tok, KindString)
	}
	v, err := c.DecodeString(tok.Text)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Encode implements Codec. v must be a T.
func (c *EnumCodec[T]) Encode(v any) (Token, error) {
	if !c.dir.CanEncode() {
		return Token{}, directionErr(c.typeName, Encode)
	}
	tv, ok := v.(T)
	if !ok {
		return Token{}, unsupported(c.typeName, fmt.Sprintf("%T", v))
	}
	s, err := c.EncodeValue(tv)
	if err != nil {
		return Token{}, err
	}
	return String(s), nil
}
