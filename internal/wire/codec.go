package wire

// Direction is the set of operations a codec supports.
type Direction uint8

const (
	Decode Direction = 1 << iota
	Encode

	Both = Decode | Encode
)

// CanDecode reports whether d includes Decode.
func (d Direction) CanDecode() bool { return d&Decode != 0 }

// CanEncode reports whether d includes Encode.
func (d Direction) CanEncode() bool { return d&Encode != 0 }

func (d Direction) String() string {
	switch d {
	case Decode:
		return "decode"
	case Encode:
		return "encode"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// Codec converts between one typed value and its wire token. Implementations
// hold no mutable state and are safe for concurrent use.
type Codec interface {
	// TypeName identifies the domain type in errors.
	TypeName() string
	// Direction reports which of Decode and Encode are supported. The
	// unsupported direction fails with ErrDecodeNotSupported or
	// ErrEncodeNotSupported.
	Direction() Direction
	Decode(tok Token) (any, error)
	Encode(v any) (Token, error)
}
