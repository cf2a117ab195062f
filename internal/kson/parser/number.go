package parser

import (
	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/numparse"
)

func (p *Parser) parseNumber() *ast.Number {
	st := p.advance()
	result := numparse.Parse(st.tok.Lexeme)
	n := &ast.Number{
		Raw: st.tok.Lexeme,
		Loc: st.tok.Location,
	}
	switch result.Kind {
	case numparse.Integer:
		n.Kind = ast.NumberInteger
		n.Int = result.Int
	case numparse.Decimal:
		n.Kind = ast.NumberDecimal
		n.Float = result.Float
	}
	if result.OutOfRange {
		p.addDiag(diag.CodeNumberOutOfRange, diag.CategoryLexical, diag.Error, st.tok.Location, st.tok.Lexeme)
	}
	applyTrivia(&n.Trivia, st)
	return n
}
