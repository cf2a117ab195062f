package lexer

import "github.com/kson-lang/kson/internal/kson/token"

// scanNumber consumes a maximal JSON-shaped number lexeme: an optional
// leading '-', an integer part, an optional fractional part, and an
// optional exponent. Classification into an exact integer or a decimal is
// left to the number parser; the lexer only delimits the lexeme.
func (l *Lexer) scanNumber() {
	if l.peekByte() == '-' {
		l.advance()
	}
	for isDigitByte(l.peekByte()) {
		l.advance()
	}
	if l.peekByte() == '.' && isDigitByte(l.peekByteAt(1)) {
		l.advance()
		for isDigitByte(l.peekByte()) {
			l.advance()
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		savedCurrent, savedLine, savedColumn := l.current, l.line, l.column
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		if isDigitByte(l.peekByte()) {
			for isDigitByte(l.peekByte()) {
				l.advance()
			}
		} else {
			l.current, l.line, l.column = savedCurrent, savedLine, savedColumn
		}
	}
	l.emitSpan(token.Number)
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }
