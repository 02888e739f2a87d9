// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// token.go — engine-neutral JSON token handed between the serialization
// backends and the field codecs.

// Package wire implements the field codecs that translate typed Paidy values
// to and from their JSON wire tokens, the factory that builds them from
// descriptors, and the registry that maps record fields to codecs.
package wire

// Kind is the JSON shape of a Token.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindString:  "string",
	KindNumber:  "number",
	KindBool:    "bool",
	KindObject:  "object",
	KindArray:   "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Token is a single JSON value as seen by a codec. Text holds the unquoted
// string for KindString, the literal for KindNumber and "true"/"false" for
// KindBool. Objects and arrays carry no text; codecs never consume them.
type Token struct {
	Kind Kind
	Text string
}

// Null returns the JSON null token.
func Null() Token { return Token{Kind: KindNull} }

// String returns a JSON string token.
func String(s string) Token { return Token{Kind: KindString, Text: s} }

// Number returns a JSON number token holding the literal s.
func Number(s string) Token { return Token{Kind: KindNumber, Text: s} }

// IsNull reports whether t is JSON null.
func (t Token) IsNull() bool { return t.Kind == KindNull }
