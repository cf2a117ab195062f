package parser

import (
	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/token"
)

func (p *Parser) parseBracedObject() *ast.Object {
	open := p.advance() // '{'
	obj := p.parseObjectBody(true, nil)
	obj.Loc = token.Span(open.tok.Location, obj.Loc)
	applyTrivia(&obj.Trivia, open)
	return obj
}

// parseObjectBody parses a run of "key: value" properties. When firstKey is
// non-nil the caller has already consumed the first property's key (the
// brace-less implicit-object case); otherwise the first key is read here.
// Properties are separated by a comma or a newline — the lexer folds
// newlines into WHITESPACE tokens, so the grammar only needs to look at
// what token follows, not count newlines itself.
func (p *Parser) parseObjectBody(braced bool, firstKey *ast.String) *ast.Object {
	obj := &ast.Object{}

	closer := func() bool {
		if braced {
			return p.check(token.CurlyBraceR) || p.check(token.EOF)
		}
		return p.check(token.EOF)
	}

	key := firstKey
	for {
		if key == nil {
			if closer() {
				break
			}
			if !p.check(token.StringOpenQuote) && !p.check(token.UnquotedString) {
				prop := &ast.Property{Value: p.errorHere("a property key")}
				prop.Loc = prop.Value.Location()
				obj.Properties = append(obj.Properties, prop)
				if closer() {
					break
				}
				continue
			}
			key = p.parseScalarString()
		}

		if st, ok := p.match(token.Colon); !ok {
			p.addDiag(diag.CodeMissingColon, diag.CategoryStructural, diag.Error, key.Location(), key.Decoded)
			_ = st
		}
		value := p.parseValue()
		prop := &ast.Property{
			Key:   key,
			Value: value,
			Loc:   token.Span(key.Location(), value.Location()),
		}
		prop.LeadingComments = key.LeadingComments
		prop.TrailingComment = ast.TriviaOf(value).TrailingComment
		obj.Properties = append(obj.Properties, prop)

		key = nil
		if _, ok := p.match(token.Comma); ok {
			continue
		}
		if closer() {
			break
		}
	}

	if braced {
		closeTok := p.consume(token.CurlyBraceR, "'}'")
		obj.Loc = token.Span(obj.Loc, closeTok.tok.Location)
		if len(obj.Properties) > 0 {
			obj.Loc = token.Span(obj.Properties[0].Loc, closeTok.tok.Location)
		}
	} else if len(obj.Properties) > 0 {
		obj.Loc = token.Span(obj.Properties[0].Loc, obj.Properties[len(obj.Properties)-1].Loc)
	}

	checkDuplicateKeys(obj, &p.diags)
	return obj
}

func checkDuplicateKeys(obj *ast.Object, diags *diag.Diagnostics) {
	seen := make(map[string]bool, len(obj.Properties))
	for _, prop := range obj.Properties {
		if prop.Key == nil {
			continue
		}
		k := prop.Key.Decoded
		if seen[k] {
			*diags = append(*diags, diag.New(diag.CodeDuplicateKey, diag.CategoryStructural, diag.Warning, prop.Key.Location(), k))
			continue
		}
		seen[k] = true
	}
}
