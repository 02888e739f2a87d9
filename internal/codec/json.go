// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// json.go — encoding/json backend. json.Decoder.Token is the read cursor;
// writes go through a generic map so untouched members survive.

package codec

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/AndrewDonelson/paidy/internal/wire"
)

// JSON is the default backend using standard library encoding/json.
type JSON struct{}

// Marshal serializes v to JSON bytes.
func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into v.
func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name returns "json".
func (JSON) Name() string { return "json" }

// ReadToken implements Backend.
func (JSON) ReadToken(data []byte, path []string) (wire.Token, bool, error) {
	if len(path) == 0 {
		return wire.Token{}, false, malformed("json", errEmptyPath)
	}
	if !json.Valid(data) {
		return wire.Token{}, false, malformed("json", errInvalidJSON)
	}
	raw := json.RawMessage(data)
	for _, k := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return wire.Token{}, false, malformed("json", errNotObject)
		}
		member, ok := obj[k]
		if !ok {
			return wire.Token{}, false, nil
		}
		raw = member
	}
	tok, err := readToken(raw)
	if err != nil {
		return wire.Token{}, false, malformed("json", err)
	}
	return tok, true, nil
}

func readToken(raw json.RawMessage) (wire.Token, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	t, err := dec.Token()
	if err != nil {
		return wire.Token{}, err
	}
	switch v := t.(type) {
	case nil:
		return wire.Null(), nil
	case string:
		return wire.String(v), nil
	case json.Number:
		return wire.Number(v.String()), nil
	case bool:
		return wire.Token{Kind: wire.KindBool, Text: strconv.FormatBool(v)}, nil
	case json.Delim:
		if v == '{' {
			return wire.Token{Kind: wire.KindObject}, nil
		}
		return wire.Token{Kind: wire.KindArray}, nil
	}
	return wire.Token{}, errInvalidJSON
}

// WriteToken implements Backend. Object keys come out sorted.
func (JSON) WriteToken(data []byte, path []string, tok wire.Token) ([]byte, error) {
	if len(path) == 0 {
		return nil, malformed("json", errEmptyPath)
	}
	val, err := tokenValue(tok)
	if err != nil {
		return nil, malformed("json", err)
	}
	var root map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, malformed("json", err)
	}
	if root == nil {
		root = make(map[string]any)
	}
	cur := root
	for _, k := range path[:len(path)-1] {
		switch next := cur[k].(type) {
		case map[string]any:
			cur = next
		case nil:
			m := make(map[string]any)
			cur[k] = m
			cur = m
		default:
			return nil, malformed("json", errNotObject)
		}
	}
	cur[path[len(path)-1]] = val
	return json.Marshal(root)
}

func tokenValue(tok wire.Token) (any, error) {
	switch tok.Kind {
	case wire.KindNull:
		return nil, nil
	case wire.KindString:
		return tok.Text, nil
	case wire.KindNumber:
		return json.Number(tok.Text), nil
	case wire.KindBool:
		return tok.Text == "true", nil
	}
	return nil, errCompound
}
