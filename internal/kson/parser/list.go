package parser

import (
	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/token"
)

func (p *Parser) parseBracketList() *ast.List {
	return p.parseDelimitedList(token.SquareBracketL, token.SquareBracketR, ast.ListStyleBracket, "']'")
}

func (p *Parser) parseAngleList() *ast.List {
	return p.parseDelimitedList(token.AngleBracketL, token.AngleBracketR, ast.ListStyleAngle, "'>'")
}

func (p *Parser) parseDelimitedList(openKind, closeKind token.Kind, style ast.ListStyle, closeDesc string) *ast.List {
	open := p.advance()
	list := &ast.List{Style: style}
	applyTrivia(&list.Trivia, open)

	for !p.check(closeKind) && !p.check(token.EOF) {
		list.Items = append(list.Items, p.parseValue())
		if _, ok := p.match(token.Comma); ok {
			continue
		}
		if p.check(closeKind) {
			break
		}
	}
	closeTok := p.consume(closeKind, closeDesc)
	list.Loc = token.Span(open.tok.Location, closeTok.tok.Location)
	return list
}

// parseDashList parses a "- value" run. Each item must start with
// LIST_DASH; the list ends at END_DASH, EOF, or the first token that isn't
// a dash (a dedent back to an enclosing container).
func (p *Parser) parseDashList() *ast.List {
	list := &ast.List{Style: ast.ListStyleDash}
	first := p.current()
	applyTrivia(&list.Trivia, first)

	startLoc := first.tok.Location
	endLoc := startLoc
	for p.check(token.ListDash) {
		dash := p.advance()
		item := p.parseValue()
		list.Items = append(list.Items, item)
		endLoc = item.Location()
		_ = dash
	}
	if end, ok := p.match(token.EndDash); ok {
		endLoc = end.tok.Location
	}
	list.Loc = token.Span(startLoc, endLoc)
	return list
}
