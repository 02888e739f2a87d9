package codec

import (
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"

	"github.com/AndrewDonelson/paidy/internal/wire"
)

// Sonic is a backend on bytedance/sonic. Its lazily parsed ast.Node is the
// cursor for both reads and in-place writes, so member order is preserved.
type Sonic struct{}

// Marshal serializes v with sonic.
func (Sonic) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// Unmarshal deserializes data into v with sonic.
func (Sonic) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Name returns "sonic".
func (Sonic) Name() string { return "sonic" }

func present(n *ast.Node) bool {
	return n != nil && n.Valid() && n.Exists()
}

// ReadToken implements Backend.
func (Sonic) ReadToken(data []byte, path []string) (wire.Token, bool, error) {
	if len(path) == 0 {
		return wire.Token{}, false, malformed("sonic", errEmptyPath)
	}
	if !sonic.Valid(data) {
		return wire.Token{}, false, malformed("sonic", errInvalidJSON)
	}
	root, err := sonic.Get(data)
	if err != nil {
		return wire.Token{}, false, malformed("sonic", err)
	}
	n := &root
	for _, k := range path {
		switch n.TypeSafe() {
		case ast.V_OBJECT:
		case ast.V_NULL:
			return wire.Token{}, false, nil
		default:
			return wire.Token{}, false, malformed("sonic", errNotObject)
		}
		child, err := member(n, k)
		if err != nil {
			return wire.Token{}, false, malformed("sonic", err)
		}
		if !present(child) {
			return wire.Token{}, false, nil
		}
		n = child
	}
	tok, err := nodeToken(n)
	if err != nil {
		return wire.Token{}, false, malformed("sonic", err)
	}
	return tok, true, nil
}

// member returns the last member of object n named k, or nil. A repeated
// key resolves like encoding/json and sonic.Unmarshal: the last one wins.
func member(n *ast.Node, k string) (*ast.Node, error) {
	it, err := n.Properties()
	if err != nil {
		return nil, err
	}
	var (
		p    ast.Pair
		last *ast.Node
	)
	for it.Next(&p) {
		if p.Key == k {
			v := p.Value
			last = &v
		}
	}
	return last, nil
}

// replaceInvalidUTF8 swaps each byte that is not valid UTF-8 for U+FFFD,
// the substitution encoding/json makes when it unquotes a string.
func replaceInvalidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func nodeToken(n *ast.Node) (wire.Token, error) {
	switch n.TypeSafe() {
	case ast.V_NULL:
		return wire.Null(), nil
	case ast.V_TRUE:
		return wire.Token{Kind: wire.KindBool, Text: "true"}, nil
	case ast.V_FALSE:
		return wire.Token{Kind: wire.KindBool, Text: "false"}, nil
	case ast.V_STRING:
		s, err := n.String()
		if err != nil {
			return wire.Token{}, err
		}
		return wire.String(replaceInvalidUTF8(s)), nil
	case ast.V_NUMBER:
		raw, err := n.Raw()
		if err != nil {
			return wire.Token{}, err
		}
		return wire.Number(raw), nil
	case ast.V_OBJECT:
		return wire.Token{Kind: wire.KindObject}, nil
	case ast.V_ARRAY:
		return wire.Token{Kind: wire.KindArray}, nil
	}
	if err := n.Check(); err != nil {
		return wire.Token{}, err
	}
	return wire.Token{}, errInvalidJSON
}

func tokenNode(tok wire.Token) (ast.Node, error) {
	switch tok.Kind {
	case wire.KindNull:
		return ast.NewNull(), nil
	case wire.KindString:
		return ast.NewString(tok.Text), nil
	case wire.KindNumber:
		return ast.NewNumber(tok.Text), nil
	case wire.KindBool:
		return ast.NewBool(tok.Text == "true"), nil
	}
	return ast.Node{}, errCompound
}

// WriteToken implements Backend.
func (Sonic) WriteToken(data []byte, path []string, tok wire.Token) ([]byte, error) {
	if len(path) == 0 {
		return nil, malformed("sonic", errEmptyPath)
	}
	val, err := tokenNode(tok)
	if err != nil {
		return nil, malformed("sonic", err)
	}
	if !sonic.Valid(data) {
		return nil, malformed("sonic", errInvalidJSON)
	}
	root, err := sonic.Get(data)
	if err != nil {
		return nil, malformed("sonic", err)
	}
	switch root.TypeSafe() {
	case ast.V_OBJECT:
	case ast.V_NULL:
		root = ast.NewObject(nil)
	default:
		return nil, malformed("sonic", errNotObject)
	}
	n := &root
	for _, k := range path[:len(path)-1] {
		child := n.Get(k)
		if !present(child) || child.TypeSafe() == ast.V_NULL {
			if _, err := n.Set(k, ast.NewObject(nil)); err != nil {
				return nil, malformed("sonic", err)
			}
			child = n.Get(k)
		} else if child.TypeSafe() != ast.V_OBJECT {
			return nil, malformed("sonic", errNotObject)
		}
		n = child
	}
	if _, err := n.Set(path[len(path)-1], val); err != nil {
		return nil, malformed("sonic", err)
	}
	out, err := root.MarshalJSON()
	if err != nil {
		return nil, malformed("sonic", err)
	}
	return out, nil
}
