package lexer

import (
	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/token"
)

// scanString scans a quoted string as a sequence of fine-grained tokens:
// STRING_OPEN_QUOTE, alternating STRING_CONTENT / STRING_ESCAPE /
// STRING_UNICODE_ESCAPE / STRING_ILLEGAL_CONTROL_CHARACTER runs, and
// STRING_CLOSE_QUOTE. The string content transformer later concatenates
// the raw lexemes between the quotes and decodes them in one pass.
func (l *Lexer) scanString(quote byte) {
	l.advance() // opening quote
	l.emitSpan(token.StringOpenQuote)

	for {
		if l.isAtEnd() {
			l.addDiag(diag.CodeUnterminatedString, diag.CategoryLexical, diag.Error, l.locFromStart())
			return
		}
		c := l.peekByte()
		switch {
		case c == quote:
			l.start, l.startLine, l.startColumn = l.current, l.line, l.column
			l.advance()
			l.emitSpan(token.StringCloseQuote)
			return
		case c == '\n':
			l.addDiag(diag.CodeUnterminatedString, diag.CategoryLexical, diag.Error, l.locFromStart())
			return
		case c == '\\':
			l.scanStringEscape()
		case c < 0x20:
			l.scanIllegalControlChar()
		default:
			l.scanStringContentRun(quote)
		}
	}
}

func (l *Lexer) scanStringContentRun(quote byte) {
	l.start, l.startLine, l.startColumn = l.current, l.line, l.column
	for !l.isAtEnd() {
		c := l.peekByte()
		if c == quote || c == '\\' || c == '\n' || c < 0x20 {
			break
		}
		l.advance()
	}
	if l.current > l.start {
		l.emitSpan(token.StringContent)
	}
}

func (l *Lexer) scanIllegalControlChar() {
	l.start, l.startLine, l.startColumn = l.current, l.line, l.column
	c := l.peekByte()
	l.advance()
	l.addDiag(diag.CodeStringIllegalControlChar, diag.CategoryLexical, diag.Error, l.locFromStart(), hexByte(c))
	l.emitSpan(token.StringIllegalControlCharacter)
}

func (l *Lexer) scanStringEscape() {
	l.start, l.startLine, l.startColumn = l.current, l.line, l.column
	l.advance() // backslash
	if l.isAtEnd() {
		l.addDiag(diag.CodeUnterminatedString, diag.CategoryLexical, diag.Error, l.locFromStart())
		return
	}
	c := l.peekByte()
	switch c {
	case '"', '\'', '\\', '/', 'b', 'f', 'n', 'r', 't':
		l.advance()
		l.emitSpan(token.StringEscape)
	case 'u':
		l.advance()
		digits := 0
		for digits < 4 && isHexByte(l.peekByte()) {
			l.advance()
			digits++
		}
		if digits < 4 {
			l.addDiag(diag.CodeStringBadUnicodeEscape, diag.CategoryLexical, diag.Error, l.locFromStart(), l.source[l.start+2:l.current])
		}
		l.emitSpan(token.StringUnicodeEscape)
	default:
		l.advance()
		l.addDiag(diag.CodeStringBadEscape, diag.CategoryLexical, diag.Error, l.locFromStart(), string(c))
		l.emitSpan(token.StringEscape)
	}
}

func isHexByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexByte(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{'0', '0', digits[b>>4], digits[b&0xF]})
}
