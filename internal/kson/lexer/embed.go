package lexer

import (
	"strings"

	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/token"
)

// scanPercentOrDollar handles a run of '%' or '$' starting at the cursor.
// A run of two or more opens an embed block; anything shorter is illegal
// outside that context.
func (l *Lexer) scanPercentOrDollar(c byte) {
	n := 0
	for l.peekByteAt(n) == c {
		n++
	}
	if n < 2 {
		l.advance()
		l.addDiag(diag.CodeIllegalChar, diag.CategoryLexical, diag.Error, l.locFromStart(), string(c))
		l.emitSpan(token.IllegalChar)
		return
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	l.emitSpan(token.EmbedOpenDelim)

	l.scanEmbedTag()
	if !l.scanEmbedPreambleNewline(c, n) {
		return
	}
	l.scanEmbedContent(c, n)
}

func (l *Lexer) scanEmbedTag() {
	start := l.here()
	begin := l.current
	for l.current < len(l.source) && l.source[l.current] != '\n' && l.source[l.current] != '\r' {
		l.advance()
	}
	if l.current > begin {
		l.emitToken(token.EmbedTag, start, l.source[begin:l.current])
	}
}

// scanEmbedPreambleNewline consumes the newline that must follow the open
// delimiter/tag. It reports CodeUnterminatedEmbedBlock and returns false if
// the block ends (or the source ends) before one is found.
func (l *Lexer) scanEmbedPreambleNewline(delim byte, n int) bool {
	start := l.here()
	begin := l.current
	if l.current < len(l.source) && l.source[l.current] == '\r' {
		l.advance()
	}
	if l.current < len(l.source) && l.source[l.current] == '\n' {
		l.advance()
		l.emitToken(token.EmbedPreambleNewline, start, l.source[begin:l.current])
		return true
	}
	l.diags = append(l.diags, diag.New(diag.CodeUnterminatedEmbedBlock, diag.CategoryLexical, diag.Error,
		token.Location{Start: start, End: l.here()}, strings.Repeat(string(delim), n)))
	return false
}

// scanEmbedContent consumes raw lines until it finds one whose only
// non-indentation content is exactly n copies of delim, which becomes the
// EMBED_CLOSE_DELIM token. A line with MORE than n copies is left as
// ordinary (escaped) content for the embed codec to unescape later.
func (l *Lexer) scanEmbedContent(delim byte, n int) {
	contentStart := l.current
	contentStartPos := l.here()

	for {
		lineStart := l.current
		lineStartPos := l.here()

		i := lineStart
		for i < len(l.source) && (l.source[i] == ' ' || l.source[i] == '\t') {
			i++
		}
		runLen := 0
		for i+runLen < len(l.source) && l.source[i+runLen] == delim {
			runLen++
		}
		closer := false
		if runLen == n {
			j := i + runLen
			for j < len(l.source) && (l.source[j] == ' ' || l.source[j] == '\t') {
				j++
			}
			closer = j >= len(l.source) || l.source[j] == '\n' || l.source[j] == '\r'
		}

		if closer {
			if lineStart > contentStart {
				l.tokens = append(l.tokens, token.Token{
					Kind:     token.EmbedContent,
					Lexeme:   l.source[contentStart:lineStart],
					Location: token.Location{Start: contentStartPos, End: lineStartPos},
				})
			}
			for l.current < len(l.source) && l.source[l.current] != '\n' && l.source[l.current] != '\r' {
				l.advance()
			}
			l.tokens = append(l.tokens, token.Token{
				Kind:     token.EmbedCloseDelim,
				Lexeme:   l.source[lineStart:l.current],
				Location: token.Location{Start: lineStartPos, End: l.here()},
			})
			return
		}

		if lineStart >= len(l.source) {
			if l.current > contentStart {
				l.tokens = append(l.tokens, token.Token{
					Kind:     token.EmbedContent,
					Lexeme:   l.source[contentStart:l.current],
					Location: token.Location{Start: contentStartPos, End: l.here()},
				})
			}
			l.diags = append(l.diags, diag.New(diag.CodeUnterminatedEmbedBlock, diag.CategoryLexical, diag.Error,
				token.Location{Start: contentStartPos, End: l.here()}, strings.Repeat(string(delim), n)))
			return
		}

		for l.current < len(l.source) && l.source[l.current] != '\n' {
			l.advance()
		}
		if l.current < len(l.source) {
			l.advance()
		}
	}
}

// emitToken appends a token with an explicit start position, for callers
// that need to emit out of lockstep with l.start (embed tag/newline/content
// scanning spans multiple helper calls).
func (l *Lexer) emitToken(kind token.Kind, start token.Position, lexeme string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: lexeme, Location: token.Location{Start: start, End: l.here()}})
}
