// Package value defines KSON's canonical value model: the comment-free,
// error-free tree every downstream consumer (JSON/YAML transpilers,
// schema validator) actually operates on. A Value is produced from an
// ast.Root by Lower, which refuses to run if the tree contains any
// ast.Error node — there is deliberately no way to construct a Value that
// doesn't correspond to a fully-parsed document.
package value

import (
	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/token"
)

// Kind discriminates the Value union.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindDecimal
	KindBoolean
	KindNull
	KindObject
	KindList
	KindEmbed
)

// Value is the canonical, immutable representation of a KSON document.
// Exactly the fields matching Kind are meaningful.
type Value struct {
	Kind  Kind
	Loc   token.Location
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Props *Object
	Items []*Value
	Embed *Embed
}

// Object is an ordered, first-writer-wins map: later duplicate keys are
// dropped (with a diagnostic raised at parse time, not here) so lookups
// and iteration agree on a single winner per key.
type Object struct {
	keys   []string
	values map[string]*Value
}

func newObject() *Object {
	return &Object{values: make(map[string]*Value)}
}

func (o *Object) set(key string, v *Value) {
	if _, exists := o.values[key]; exists {
		return
	}
	o.keys = append(o.keys, key)
	o.values[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns property names in first-occurrence source order.
func (o *Object) Keys() []string { return o.keys }

// Len reports the number of distinct keys.
func (o *Object) Len() int { return len(o.keys) }

// Embed is the canonical form of an embed block.
type Embed struct {
	Tag  string
	Body string
}

// Lower converts a parsed tree into its canonical Value. It returns
// (nil, false) if root contains any ast.Error node — the parser already
// raised a diagnostic for every such node, so Lower doesn't raise its own;
// callers should check parse diagnostics before calling Lower, not after.
func Lower(root *ast.Root) (*Value, bool) {
	if root == nil || ast.HasError(root.Value) {
		return nil, false
	}
	return lowerNode(root.Value), true
}

func lowerNode(n ast.Node) *Value {
	switch v := n.(type) {
	case *ast.Object:
		obj := newObject()
		for _, p := range v.Properties {
			if p.Key == nil {
				continue
			}
			obj.set(p.Key.Decoded, lowerNode(p.Value))
		}
		return &Value{Kind: KindObject, Loc: v.Loc, Props: obj}
	case *ast.List:
		items := make([]*Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = lowerNode(item)
		}
		return &Value{Kind: KindList, Loc: v.Loc, Items: items}
	case *ast.String:
		return &Value{Kind: KindString, Loc: v.Loc, Str: v.Decoded}
	case *ast.Number:
		if v.Kind == ast.NumberInteger {
			return &Value{Kind: KindInteger, Loc: v.Loc, Int: v.Int}
		}
		return &Value{Kind: KindDecimal, Loc: v.Loc, Float: v.Float}
	case *ast.Boolean:
		return &Value{Kind: KindBoolean, Loc: v.Loc, Bool: v.Value}
	case *ast.Null:
		return &Value{Kind: KindNull, Loc: v.Loc}
	case *ast.EmbedBlock:
		return &Value{Kind: KindEmbed, Loc: v.Loc, Embed: &Embed{Tag: v.Tag, Body: v.Body}}
	default:
		return &Value{Kind: KindNull, Loc: n.Location()}
	}
}
