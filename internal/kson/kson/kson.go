// Package kson is the public facade tying the lexer, parser, value model,
// formatter, and transpilers together into the handful of entry points a
// caller (the CLI, an editor integration, a build step) actually needs.
package kson

import (
	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/format"
	"github.com/kson-lang/kson/internal/kson/jsonenc"
	"github.com/kson-lang/kson/internal/kson/lexer"
	"github.com/kson-lang/kson/internal/kson/parser"
	"github.com/kson-lang/kson/internal/kson/schema"
	"github.com/kson-lang/kson/internal/kson/value"
	"github.com/kson-lang/kson/internal/kson/yamlenc"
)

// Document is the result of a full parse: the syntax tree, any
// diagnostics raised along the way, and — only if there were no
// unrecoverable errors — the lowered canonical value.
type Document struct {
	Root        *ast.Root
	Diagnostics diag.Diagnostics
	Value       *value.Value // nil if the tree contains any ast.Error
}

// Analyze lexes and parses source, lowering the result to a Value when the
// tree is error-free.
func Analyze(source string) *Document {
	toks, lexDiags := lexer.New(source).Lex()
	root, parseDiags := parser.Parse(toks)

	all := make(diag.Diagnostics, 0, len(lexDiags)+len(parseDiags))
	all = append(all, lexDiags...)
	all = append(all, parseDiags...)

	doc := &Document{Root: root, Diagnostics: all}
	if v, ok := value.Lower(root); ok {
		doc.Value = v
	}
	return doc
}

// Format re-renders source in the requested style, preserving comments.
// It operates even over a document with errors, since reformatting
// malformed-but-parseable input is a normal editor workflow.
func Format(source string, opts format.Options) (string, diag.Diagnostics) {
	toks, lexDiags := lexer.New(source).Lex()
	root, parseDiags := parser.Parse(toks)
	diags := append(append(diag.Diagnostics{}, lexDiags...), parseDiags...)
	return format.Format(root, opts), diags
}

// ToJSON transpiles source to JSON. It refuses (returning ok=false) if the
// document contains any unrecoverable parse error.
func ToJSON(source string, opts jsonenc.Options) (out string, diags diag.Diagnostics, ok bool) {
	doc := Analyze(source)
	if doc.Value == nil {
		return "", doc.Diagnostics, false
	}
	return jsonenc.Encode(doc.Value, opts), doc.Diagnostics, true
}

// ToYAML transpiles source to YAML, carrying comments through via the
// underlying yaml.v3 node tree.
func ToYAML(source string) (out string, diags diag.Diagnostics, ok bool) {
	doc := Analyze(source)
	if doc.Value == nil {
		return "", doc.Diagnostics, false
	}
	rendered, err := yamlenc.Encode(doc.Root)
	if err != nil {
		return "", doc.Diagnostics, false
	}
	return rendered, doc.Diagnostics, true
}

// SchemaValidator is an immutable, reusable compiled Draft-7 schema,
// returned by ParseSchema. It may be shared across goroutines: Validate
// allocates no state shared between calls.
type SchemaValidator struct {
	inner *schema.Validator
}

// ParseSchema parses and compiles a Draft-7 schema document. It refuses
// (ok=false) if the schema source itself fails to parse, matching
// ToJSON/ToYAML's contract of never operating over a broken tree.
func ParseSchema(source string) (validator *SchemaValidator, diags diag.Diagnostics, ok bool) {
	doc := Analyze(source)
	if doc.Value == nil {
		return nil, doc.Diagnostics, false
	}
	v, compileDiags := schema.NewValidator(doc.Value)
	all := append(append(diag.Diagnostics{}, doc.Diagnostics...), compileDiags...)
	return &SchemaValidator{inner: v}, all, true
}

// Validate parses source as a KSON value and checks it against the
// receiver's compiled schema, returning every violation found.
func (sv *SchemaValidator) Validate(source string) (diags diag.Diagnostics, ok bool) {
	doc := Analyze(source)
	if doc.Value == nil {
		return doc.Diagnostics, false
	}
	violations := sv.inner.Validate(doc.Value)
	return append(append(diag.Diagnostics{}, doc.Diagnostics...), violations...), true
}
