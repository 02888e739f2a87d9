// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// scalar.go — single-value codecs with an optional layout and locale. The
// timestamp codec is the only scalar the Paidy payloads need today.

package wire

import (
	"fmt"
	"strings"
	"time"
)

// ScalarCodec parses and formats one scalar type from its string form.
// Nullable wraps a ScalarCodec to add null handling.
type ScalarCodec[T any] interface {
	Codec
	Parse(s string) (T, error)
	Format(v T) (string, error)
}

// Locale supplies the default parse layouts and the location used for
// layouts that carry no zone.
type Locale struct {
	Name     string
	Location *time.Location
	Layouts  []string
}

var invariantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var locales = map[string]Locale{
	"": {
		Name:     "",
		Location: time.UTC,
		Layouts:  invariantLayouts,
	},
	"en-US": {
		Name:     "en-US",
		Location: time.UTC,
		Layouts:  append(append([]string{}, invariantLayouts...), "01/02/2006 15:04:05", "01/02/2006 3:04:05 PM", "01/02/2006"),
	},
	"ja-JP": {
		Name:     "ja-JP",
		Location: time.FixedZone("JST", 9*60*60),
		Layouts:  append(append([]string{}, invariantLayouts...), "2006/01/02 15:04:05", "2006/01/02 15:04", "2006/01/02"),
	},
}

// LookupLocale returns the locale registered under name. The empty name is
// the invariant locale.
func LookupLocale(name string) (Locale, bool) {
	l, ok := locales[name]
	return l, ok
}

const timeTypeName = "time.Time"

// layoutProbe is formatted and re-parsed to validate caller layouts.
var layoutProbe = time.Date(2021, time.November, 23, 14, 5, 6, 0, time.UTC)

// TimeCodec converts timestamps. With no layout it parses through the
// locale's default layouts and formats as RFC 3339 with nanoseconds.
type TimeCodec struct {
	layout string
	locale Locale
}

// NewTimeCodec validates layout and locale. An empty layout selects the
// locale-aware default parser.
func NewTimeCodec(layout, locale string) (*TimeCodec, error) {
	loc, ok := LookupLocale(locale)
	if !ok {
		return nil, &ConstructionError{Kind: KindTime, Reason: fmt.Sprintf("unknown locale %q", locale)}
	}
	if layout != "" {
		probe := layoutProbe.Format(layout)
		if probe == layout {
			return nil, &ConstructionError{Kind: KindTime, Reason: fmt.Sprintf("layout %q has no time elements", layout)}
		}
		if _, err := time.Parse(layout, probe); err != nil {
			return nil, &ConstructionError{Kind: KindTime, Reason: fmt.Sprintf("layout %q does not round-trip", layout), Cause: err}
		}
	}
	return &TimeCodec{layout: layout, locale: loc}, nil
}

func (c *TimeCodec) TypeName() string     { return timeTypeName }
func (c *TimeCodec) Direction() Direction { return Both }

// Parse converts s to a time.
func (c *TimeCodec) Parse(s string) (time.Time, error) {
	if c.layout != "" {
		t, err := time.ParseInLocation(c.layout, s, c.locale.Location)
		if err != nil {
			return time.Time{}, &CodecError{Err: ErrParseFailed, Type: timeTypeName, Value: s, Cause: err}
		}
		return t, nil
	}
	trimmed := strings.TrimSpace(s)
	var firstErr error
	for _, layout := range c.locale.Layouts {
		t, err := time.ParseInLocation(layout, trimmed, c.locale.Location)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &CodecError{Err: ErrParseFailed, Type: timeTypeName, Value: s, Cause: firstErr}
}

// Format renders t with the configured layout, or RFC 3339 with its own
// offset when there is none.
func (c *TimeCodec) Format(t time.Time) (string, error) {
	if c.layout == "" {
		return t.Format(time.RFC3339Nano), nil
	}
	if c.locale.Name != "" {
		t = t.In(c.locale.Location)
	}
	return t.Format(c.layout), nil
}

// Decode implements Codec. Null is not a time; use Nullable for that.
func (c *TimeCodec) Decode(tok Token) (any, error) {
	if tok.Kind != KindString {
		return nil, malformed(timeTypeName, tok, KindString)
	}
	return c.Parse(tok.Text)
}

// Encode implements Codec.
func (c *TimeCodec) Encode(v any) (Token, error) {
	t, ok := v.(time.Time)
	if !ok {
		return Token{}, unsupported(timeTypeName, fmt.Sprintf("%T", v))
	}
	s, err := c.Format(t)
	if err != nil {
		return Token{}, err
	}
	return String(s), nil
}
