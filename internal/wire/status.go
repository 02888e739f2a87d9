package wire

import "strconv"

const statusTypeName = "http.StatusCode"

// StatusCodeCodec reads an HTTP status carried as a quoted numeric string
// (a bare number is accepted too). It never encodes.
type StatusCodeCodec struct{}

func (StatusCodeCodec) TypeName() string     { return statusTypeName }
func (StatusCodeCodec) Direction() Direction { return Decode }

// DecodeValue is the typed form of Decode.
func (StatusCodeCodec) DecodeValue(tok Token) (int, error) {
	if tok.Kind != KindString && tok.Kind != KindNumber {
		return 0, malformed(statusTypeName, tok, KindString)
	}
	n, err := strconv.Atoi(tok.Text)
	if err != nil {
		return 0, &CodecError{Err: ErrParseFailed, Type: statusTypeName, Value: tok.Text, Cause: err}
	}
	if n < 0 {
		return 0, unsupported(statusTypeName, tok.Text)
	}
	return n, nil
}

func (c StatusCodeCodec) Decode(tok Token) (any, error) {
	n, err := c.DecodeValue(tok)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (StatusCodeCodec) Encode(any) (Token, error) {
	return Token{}, directionErr(statusTypeName, Encode)
}
