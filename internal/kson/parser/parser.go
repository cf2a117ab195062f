// Package parser builds a KSON syntax tree from a token stream. It never
// panics: malformed input produces *ast.Error nodes plus diagnostics, and
// the parser resynchronizes at the next stabilizer token (a closing
// bracket, a comma, or EOF) so one bad value doesn't cascade into a wall
// of errors.
package parser

import (
	"strconv"
	"strings"

	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/embed"
	"github.com/kson-lang/kson/internal/kson/strcontent"
	"github.com/kson-lang/kson/internal/kson/token"
)

// maxParseDepth bounds how deeply parseValue may recurse through nested
// containers, so a maliciously or accidentally deep document fails with a
// diagnostic instead of overflowing the goroutine stack.
const maxParseDepth = 512

// Parser turns a token stream into an *ast.Root.
type Parser struct {
	toks  []sigToken
	pos   int
	diags diag.Diagnostics
	depth int
}

// New constructs a Parser over raw, the full token stream from the lexer
// (including WHITESPACE and COMMENT tokens, which New filters into trivia).
func New(raw []token.Token) *Parser {
	return &Parser{toks: buildStream(raw)}
}

// Parse consumes the token stream and returns the resulting tree plus any
// diagnostics. The tree is always non-nil, even on total failure.
func Parse(raw []token.Token) (*ast.Root, diag.Diagnostics) {
	p := New(raw)
	return p.parseRoot(), p.diags
}

func (p *Parser) parseRoot() *ast.Root {
	value := p.parseValue()
	eofLeading := p.current().leading
	eof := p.current().tok
	if !p.check(token.EOF) {
		p.addDiag(diag.CodeUnexpectedToken, diag.CategoryStructural, diag.Error, p.current().tok.Location,
			p.current().tok.Kind.String(), "end of input")
	}
	return &ast.Root{
		Value:     value,
		Loc:       token.Span(value.Location(), eof.Location),
		EOFTrivia: eofLeading,
	}
}

func (p *Parser) current() sigToken {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // EOF is always last
}

func (p *Parser) peek() token.Token { return p.current().tok }

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() sigToken {
	st := p.current()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return st
}

func (p *Parser) match(k token.Kind) (sigToken, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return sigToken{}, false
}

func (p *Parser) consume(k token.Kind, context string) sigToken {
	if st, ok := p.match(k); ok {
		return st
	}
	p.addDiag(diag.CodeUnexpectedToken, diag.CategoryStructural, diag.Error, p.peek().Location,
		p.peek().Kind.String(), context)
	return p.current()
}

func (p *Parser) addDiag(code diag.Code, cat diag.Category, sev diag.Severity, loc token.Location, args ...string) {
	p.diags = append(p.diags, diag.New(code, cat, sev, loc, args...))
}

// applyTrivia copies a token's comment trivia onto a node's Trivia field.
func applyTrivia(t *ast.Trivia, st sigToken) {
	t.LeadingComments = st.leading
	t.TrailingComment = st.trailing
}

// synchronize skips tokens until a stabilizer (a closing bracket, a comma,
// or EOF) so a single malformed value doesn't derail the whole parse.
func (p *Parser) synchronize() {
	for {
		switch p.peek().Kind {
		case token.Comma, token.CurlyBraceR, token.SquareBracketR, token.AngleBracketR, token.EOF:
			return
		}
		p.advance()
	}
}

func (p *Parser) errorHere(message string) *ast.Error {
	st := p.current()
	loc := st.tok.Location
	if !p.check(token.EOF) {
		p.advance()
	}
	p.addDiag(diag.CodeUnexpectedToken, diag.CategoryStructural, diag.Error, loc, st.tok.Kind.String(), message)
	e := &ast.Error{Message: message, Loc: loc}
	applyTrivia(&e.Trivia, st)
	p.synchronize()
	return e
}

// parseValue dispatches on the current token's kind. KSON's grammar lets a
// bare key:value pair open an implicit (brace-less) object, which is why
// the STRING_OPEN_QUOTE/UNQUOTED_STRING case has to look one token ahead
// after parsing the scalar.
func (p *Parser) parseValue() ast.Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		loc := p.peek().Location
		p.addDiag(diag.CodeRecursionLimitExceeded, diag.CategoryValue, diag.Error, loc, strconv.Itoa(maxParseDepth))
		e := &ast.Error{Message: "maximum nesting depth exceeded", Loc: loc}
		p.synchronize()
		return e
	}
	switch p.peek().Kind {
	case token.CurlyBraceL:
		return p.parseBracedObject()
	case token.SquareBracketL:
		return p.parseBracketList()
	case token.AngleBracketL:
		return p.parseAngleList()
	case token.ListDash:
		return p.parseDashList()
	case token.True, token.False:
		return p.parseBoolean()
	case token.Null:
		return p.parseNull()
	case token.Number:
		return p.parseNumber()
	case token.EmbedOpenDelim:
		return p.parseEmbed()
	case token.StringOpenQuote, token.UnquotedString:
		return p.parseStringOrImplicitObject()
	default:
		return p.errorHere("a value")
	}
}

func (p *Parser) parseStringOrImplicitObject() ast.Node {
	key := p.parseScalarString()
	if p.check(token.Colon) {
		return p.parseObjectBody(false, key)
	}
	return key
}

func (p *Parser) parseScalarString() *ast.String {
	st := p.current()
	if p.check(token.UnquotedString) {
		p.advance()
		s := &ast.String{Raw: st.tok.Lexeme, Decoded: st.tok.Lexeme, Unquoted: true, Loc: st.tok.Location}
		applyTrivia(&s.Trivia, st)
		return s
	}

	open := p.consume(token.StringOpenQuote, "a string")
	var inner []token.Token
	var rawParts []string
	rawParts = append(rawParts, open.tok.Lexeme)
	for !p.check(token.StringCloseQuote) && !p.check(token.EOF) {
		tk := p.current().tok
		inner = append(inner, tk)
		rawParts = append(rawParts, tk.Lexeme)
		p.advance()
	}
	closeTok := p.consume(token.StringCloseQuote, "a closing quote")
	rawParts = append(rawParts, closeTok.tok.Lexeme)

	decoded, _ := strcontent.Decode(inner)
	s := &ast.String{
		Raw:     strings.Join(rawParts, ""),
		Decoded: decoded,
		Loc:     token.Span(open.tok.Location, closeTok.tok.Location),
	}
	applyTrivia(&s.Trivia, open)
	return s
}

func (p *Parser) parseBoolean() *ast.Boolean {
	st := p.advance()
	b := &ast.Boolean{Value: st.tok.Kind == token.True, Loc: st.tok.Location}
	applyTrivia(&b.Trivia, st)
	return b
}

func (p *Parser) parseNull() *ast.Null {
	st := p.advance()
	n := &ast.Null{Loc: st.tok.Location}
	applyTrivia(&n.Trivia, st)
	return n
}

func (p *Parser) parseEmbed() *ast.EmbedBlock {
	open := p.advance() // EMBED_OPEN_DELIM
	delim := open.tok.Lexeme[0]
	n := len(open.tok.Lexeme)

	var tag string
	if p.check(token.EmbedTag) {
		tagTok := p.advance()
		tag = strings.TrimSpace(tagTok.tok.Lexeme)
	}

	var rawContent string
	if p.check(token.EmbedPreambleNewline) {
		p.advance()
	}
	if p.check(token.EmbedContent) {
		rawContent = p.current().tok.Lexeme
		p.advance()
	}

	end := open.tok.Location
	if p.check(token.EmbedCloseDelim) {
		closeTok := p.advance()
		end = closeTok.tok.Location
	} else {
		p.addDiag(diag.CodeUnterminatedEmbedBlock, diag.CategoryStructural, diag.Error, open.tok.Location, strings.Repeat(string(delim), n))
	}

	e := &ast.EmbedBlock{
		Delim: delim,
		Len:   n,
		Tag:   tag,
		Body:  embed.Decode(rawContent, delim, n),
		Raw:   rawContent,
		Loc:   token.Span(open.tok.Location, end),
	}
	applyTrivia(&e.Trivia, open)
	return e
}
