// Package lexer scans KSON source text into a token stream plus
// diagnostics. It never throws: illegal bytes are recorded as diagnostics
// and the scanner resynchronizes at the next whitespace or structural
// character, so every input — however malformed — produces a token stream
// ending in EOF.
//
// Thread Safety: a Lexer is not safe for concurrent use; each goroutine
// must construct its own via New.
package lexer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/token"
)

// Lexer scans KSON source into tokens.
type Lexer struct {
	source string
	start  int // byte offset of the token currently being scanned
	current int // byte offset of the scan cursor

	line   int // zero-based line of the scan cursor
	column int // zero-based UTF-16 column of the scan cursor

	startLine, startColumn int // position captured at the start of a token

	tokens []token.Token
	diags  diag.Diagnostics
}

// New creates a Lexer over source. A leading UTF-8 BOM is skipped silently
// per spec.md §6.
func New(source string) *Lexer {
	if strings.HasPrefix(source, "\xef\xbb\xbf") {
		source = strings.TrimPrefix(source, "\xef\xbb\xbf")
	}
	return &Lexer{source: source, line: 0, column: 0}
}

// Lex scans the entire source and returns the token stream (always
// EOF-terminated) and any diagnostics collected along the way.
func (l *Lexer) Lex() ([]token.Token, diag.Diagnostics) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine, l.startColumn = l.line, l.column
		l.scanToken()
	}
	l.emit(token.EOF, "")
	return l.tokens, l.diags
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// peekRune returns the rune at the cursor without consuming it.
func (l *Lexer) peekRune() (rune, int) {
	if l.isAtEnd() {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	return r, size
}

func (l *Lexer) peekByte() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.current+off >= len(l.source) {
		return 0
	}
	return l.source[l.current+off]
}

// advance consumes and returns the current rune, updating line/column.
func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	if size == 0 {
		return 0
	}
	l.current += size
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column += utf16RuneWidth(r)
	}
	return r
}

func utf16RuneWidth(r rune) int {
	if r1, r2 := utf16.EncodeRune(r); r1 == utf8.RuneError && r2 == utf8.RuneError {
		return 1
	}
	return len(utf16.Encode([]rune{r}))
}

func (l *Lexer) matchByte(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) here() token.Position {
	return token.Position{Offset: l.current, Line: l.line, Column: l.column}
}

func (l *Lexer) startPos() token.Position {
	return token.Position{Offset: l.start, Line: l.startLine, Column: l.startColumn}
}

func (l *Lexer) locFromStart() token.Location {
	return token.Location{Start: l.startPos(), End: l.here()}
}

// emit appends a token spanning [start, current) with an explicit lexeme
// (used when the lexeme isn't simply source[start:current], e.g. synthetic
// tokens).
func (l *Lexer) emit(kind token.Kind, lexeme string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: lexeme, Location: l.locFromStart()})
}

// emitSpan appends a token covering the raw source between start and current.
func (l *Lexer) emitSpan(kind token.Kind) {
	l.emit(kind, l.source[l.start:l.current])
}

func (l *Lexer) addDiag(code diag.Code, category diag.Category, severity diag.Severity, loc token.Location, args ...string) {
	l.diags = append(l.diags, diag.New(code, category, severity, loc, args...))
}

// scanToken scans the next token. High cyclomatic complexity is inherent
// to a character-dispatch lexer; actual logic lives in the delegated
// handlers below.
func (l *Lexer) scanToken() { //nolint:gocyclo
	r, _ := l.peekRune()

	switch {
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		l.scanWhitespace()
	case r == '#':
		l.scanComment()
	case r == '{':
		l.advance()
		l.emitSpan(token.CurlyBraceL)
	case r == '}':
		l.advance()
		l.emitSpan(token.CurlyBraceR)
	case r == '[':
		l.advance()
		l.emitSpan(token.SquareBracketL)
	case r == ']':
		l.advance()
		l.emitSpan(token.SquareBracketR)
	case r == '<':
		l.advance()
		l.emitSpan(token.AngleBracketL)
	case r == '>':
		l.advance()
		l.emitSpan(token.AngleBracketR)
	case r == ':':
		l.advance()
		l.emitSpan(token.Colon)
	case r == ',':
		l.advance()
		l.emitSpan(token.Comma)
	case r == '.':
		l.scanDot()
	case r == '-':
		l.scanDash()
	case r == '"' || r == '\'':
		l.scanString(byte(r))
	case r == '%' || r == '$':
		l.scanPercentOrDollar(byte(r))
	case isDigit(r):
		l.scanNumber()
	case isIdentStart(r):
		l.scanIdentifier()
	default:
		l.advance()
		l.addDiag(diag.CodeIllegalChar, diag.CategoryLexical, diag.Error, l.locFromStart(), string(r))
		l.emitSpan(token.IllegalChar)
	}
}

func (l *Lexer) scanWhitespace() {
	for {
		r, _ := l.peekRune()
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			l.advance()
			continue
		}
		break
	}
	l.emitSpan(token.Whitespace)
}

func (l *Lexer) scanComment() {
	for {
		r, _ := l.peekRune()
		if r == 0 || r == '\n' {
			break
		}
		l.advance()
	}
	l.emitSpan(token.Comment)
}

// scanDot decides between a DOT and an END_DASH: a lone '.' flanked by
// whitespace (or input boundaries) on both sides closes a dash list.
func (l *Lexer) scanDot() {
	precededByWS := l.start == 0 || isWSByte(l.source[l.start-1])
	l.advance()
	followedByWS := l.isAtEnd() || isWSByte(l.peekByte())
	if precededByWS && followedByWS {
		l.emitSpan(token.EndDash)
		return
	}
	l.emitSpan(token.Dot)
}

func isWSByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// scanDash decides between a number, a dash-list marker, and an illegal
// character: '-' followed by a digit is a negative number; '-' followed by
// whitespace is LIST_DASH; anything else is illegal.
func (l *Lexer) scanDash() {
	next := l.peekByteAt(1)
	if next >= '0' && next <= '9' {
		l.scanNumber()
		return
	}
	if isWSByte(next) {
		l.advance() // consume '-'
		l.emitSpan(token.ListDash)
		return
	}
	l.advance()
	l.addDiag(diag.CodeIllegalChar, diag.CategoryLexical, diag.Error, l.locFromStart(), "-")
	l.emitSpan(token.IllegalChar)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || isDigit(r) || r == '-'
}

// scanIdentifier scans a maximal identifier run, classifying it as a
// keyword (true/false/null) or UNQUOTED_STRING.
func (l *Lexer) scanIdentifier() {
	for {
		r, _ := l.peekRune()
		if !isIdentCont(r) {
			break
		}
		l.advance()
	}
	text := l.source[l.start:l.current]
	switch text {
	case "true":
		l.emitSpan(token.True)
	case "false":
		l.emitSpan(token.False)
	case "null":
		l.emitSpan(token.Null)
	default:
		l.emitSpan(token.UnquotedString)
	}
}
