// Package ast defines the KSON syntax tree: a tagged union of node types
// carrying full source fidelity (comment trivia, exact token locations)
// plus Error nodes marking where the parser recovered from malformed
// input. A tree with no Error node anywhere in it can be lowered to a
// canonical Value (see package value); one that does have an Error node
// cannot.
package ast

import "github.com/kson-lang/kson/internal/kson/token"

// Node is implemented by every AST node. It never carries behavior beyond
// its own location — visitors switch on the concrete type.
type Node interface {
	Location() token.Location
	node()
}

// Trivia holds comments attached to a node during parsing: a contiguous
// run of leading '#' comment lines, and a same-line trailing comment.
type Trivia struct {
	LeadingComments []string
	TrailingComment string
}

// Root is the top-level parse result: exactly one value, plus any trivia
// that trails the final token (a comment on its own line at EOF).
type Root struct {
	Value      Node
	Loc        token.Location
	EOFTrivia  []string
}

func (r *Root) Location() token.Location { return r.Loc }
func (*Root) node()                      {}

// Object is a curly-braced or indentation-delimited set of properties.
type Object struct {
	Properties []*Property
	Loc        token.Location
	Trivia
}

func (o *Object) Location() token.Location { return o.Loc }
func (*Object) node()                      {}

// Property is a single "key: value" pair inside an Object.
type Property struct {
	Key   *String
	Value Node
	Loc   token.Location
	Trivia
}

func (p *Property) Location() token.Location { return p.Loc }
func (*Property) node()                      {}

// ListStyle records which of the three surface syntaxes produced a List,
// purely so the formatter can round-trip style on request.
type ListStyle int

const (
	ListStyleBracket ListStyle = iota
	ListStyleDash
	ListStyleAngle
)

// List is an ordered sequence of values, written as "[...]", as a run of
// "- value" lines, or as "<...>".
type List struct {
	Items []Node
	Style ListStyle
	Loc   token.Location
	Trivia
}

func (l *List) Location() token.Location { return l.Loc }
func (*List) node()                      {}

// String is a scalar string value. Raw holds the untouched source text
// between (and including) the quotes, or the bare text for an unquoted
// string; Decoded holds the escape-processed value. Unquoted is true for
// bare identifiers used as strings (keys or values).
type String struct {
	Raw      string
	Decoded  string
	Unquoted bool
	Loc      token.Location
	Trivia
}

func (s *String) Location() token.Location { return s.Loc }
func (*String) node()                       {}

// NumberKind distinguishes an exact integer literal from one carrying a
// fractional part or exponent, per spec.md's numeric model.
type NumberKind int

const (
	NumberInteger NumberKind = iota
	NumberDecimal
)

// Number is a scalar numeric value, holding both the literal source text
// and its parsed form (exactly one of Int/Float is meaningful, per Kind).
type Number struct {
	Raw   string
	Kind  NumberKind
	Int   int64
	Float float64
	Loc   token.Location
	Trivia
}

func (n *Number) Location() token.Location { return n.Loc }
func (*Number) node()                       {}

// Boolean is a scalar `true`/`false` literal.
type Boolean struct {
	Value bool
	Loc   token.Location
	Trivia
}

func (b *Boolean) Location() token.Location { return b.Loc }
func (*Boolean) node()                       {}

// Null is the `null` literal.
type Null struct {
	Loc token.Location
	Trivia
}

func (n *Null) Location() token.Location { return n.Loc }
func (*Null) node()                       {}

// EmbedBlock is a `%%`/`$$`-delimited raw text block. Body is already
// unescaped and dedented by the embed codec; Raw is the literal block text
// (open delimiter through close delimiter) for formatter round-tripping.
type EmbedBlock struct {
	Delim byte
	Len   int
	Tag   string
	Body  string
	Raw   string
	Loc   token.Location
	Trivia
}

func (e *EmbedBlock) Location() token.Location { return e.Loc }
func (*EmbedBlock) node()                       {}

// Error marks a span the parser could not make sense of. Its presence
// anywhere in a tree means the tree cannot be lowered to a Value.
type Error struct {
	Message string
	Loc     token.Location
	Trivia
}

func (e *Error) Location() token.Location { return e.Loc }
func (*Error) node()                       {}

// TriviaOf returns the comment trivia attached to n, or a zero Trivia for
// node types that don't carry any (Root).
func TriviaOf(n Node) Trivia {
	switch v := n.(type) {
	case *Object:
		return v.Trivia
	case *Property:
		return v.Trivia
	case *List:
		return v.Trivia
	case *String:
		return v.Trivia
	case *Number:
		return v.Trivia
	case *Boolean:
		return v.Trivia
	case *Null:
		return v.Trivia
	case *EmbedBlock:
		return v.Trivia
	case *Error:
		return v.Trivia
	default:
		return Trivia{}
	}
}

// HasError reports whether node, or any node reachable from it, is an
// *Error — the gate value.Lower uses to refuse lowering a broken tree.
func HasError(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *Error:
		return true
	case *Root:
		return HasError(v.Value)
	case *Object:
		for _, p := range v.Properties {
			if HasError(p.Key) || HasError(p.Value) {
				return true
			}
		}
		return false
	case *Property:
		return HasError(v.Key) || HasError(v.Value)
	case *List:
		for _, item := range v.Items {
			if HasError(item) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
