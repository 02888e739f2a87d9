package wire

import (
	"fmt"
	"strings"
)

// Nullable adds null handling to a scalar codec. JSON null always decodes
// to a nil *T. With blankAsNull, an empty or whitespace-only string also
// decodes to nil and never reaches the inner parser. Encoding nil always
// writes JSON null; blankAsNull affects decoding only.
type Nullable[T any] struct {
	inner       ScalarCodec[T]
	blankAsNull bool
}

// NewNullable wraps inner.
func NewNullable[T any](inner ScalarCodec[T], blankAsNull bool) *Nullable[T] {
	return &Nullable[T]{inner: inner, blankAsNull: blankAsNull}
}

func (n *Nullable[T]) TypeName() string     { return "*" + n.inner.TypeName() }
func (n *Nullable[T]) Direction() Direction { return n.inner.Direction() }

// BlankAsNull reports whether blank strings decode to nil.
func (n *Nullable[T]) BlankAsNull() bool { return n.blankAsNull }

// DecodeValue is the typed form of Decode.
func (n *Nullable[T]) DecodeValue(tok Token) (*T, error) {
	if !n.inner.Direction().CanDecode() {
		return nil, directionErr(n.TypeName(), Decode)
	}
	switch tok.Kind {
	case KindNull:
		return nil, nil
	case KindString:
	default:
		return nil, malformed(n.TypeName(), tok, KindString)
	}
	if n.blankAsNull && strings.TrimSpace(tok.Text) == "" {
		return nil, nil
	}
	v, err := n.inner.Parse(tok.Text)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Decode implements Codec. The result is always a *T, nil for null.
func (n *Nullable[T]) Decode(tok Token) (any, error) {
	v, err := n.DecodeValue(tok)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Encode implements Codec. v may be a T, a *T or untyped nil.
func (n *Nullable[T]) Encode(v any) (Token, error) {
	if !n.inner.Direction().CanEncode() {
		return Token{}, directionErr(n.TypeName(), Encode)
	}
	var val T
	switch tv := v.(type) {
	case nil:
		return Null(), nil
	case *T:
		if tv == nil {
			return Null(), nil
		}
		val = *tv
	case T:
		val = tv
	default:
		return Token{}, unsupported(n.TypeName(), fmt.Sprintf("%T", v))
	}
	s, err := n.inner.Format(val)
	if err != nil {
		return Token{}, err
	}
	return String(s), nil
}
