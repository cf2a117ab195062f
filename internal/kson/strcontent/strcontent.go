// Package strcontent decodes the raw token stream inside a quoted string
// into its string value, in a single pass, while recording an offset map
// from decoded-string byte positions back to the raw source locations
// responsible for them. OffsetMap.Locate maps a decoded offset back to
// source; the parser keeps only the decoded string, so no later stage
// consults the map, and schema diagnostics anchor to the whole string.
package strcontent

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/kson-lang/kson/internal/kson/token"
)

// Mapping associates a half-open decoded-byte range with the raw source
// location that produced it.
type Mapping struct {
	DecodedStart int
	DecodedEnd   int
	Raw          token.Location
}

// OffsetMap is the ordered, non-overlapping list of Mappings produced by
// Decode; ordering is monotone in both decoded offset and raw offset.
type OffsetMap struct {
	Mappings []Mapping
}

// Locate returns the raw location responsible for the decoded byte at
// offset. If offset falls past the end of the string (e.g. a diagnostic
// anchored to an empty trailing match) the last mapping is used.
func (m OffsetMap) Locate(offset int) token.Location {
	for _, mp := range m.Mappings {
		if offset >= mp.DecodedStart && offset < mp.DecodedEnd {
			return mp.Raw
		}
	}
	if len(m.Mappings) > 0 {
		return m.Mappings[len(m.Mappings)-1].Raw
	}
	return token.Location{}
}

// Decode concatenates the STRING_CONTENT / STRING_ESCAPE /
// STRING_UNICODE_ESCAPE / STRING_ILLEGAL_CONTROL_CHARACTER tokens between a
// string's open and close quotes into its decoded value. Escapes the
// lexer already flagged as invalid are decoded best-effort (the literal
// escaped character, or U+FFFD for an incomplete \u) so downstream stages
// always see a usable string rather than having to special-case failure.
func Decode(tokens []token.Token) (string, OffsetMap) {
	var b strings.Builder
	var mappings []Mapping

	var pendingHigh uint16
	var pendingHighLoc token.Location
	hasPendingHigh := false

	flushPendingHigh := func() {
		if !hasPendingHigh {
			return
		}
		r := utf16.DecodeRune(rune(pendingHigh), 0xFFFD)
		start := b.Len()
		b.WriteRune(r)
		mappings = append(mappings, Mapping{DecodedStart: start, DecodedEnd: b.Len(), Raw: pendingHighLoc})
		hasPendingHigh = false
	}

	appendRuneAt := func(r rune, loc token.Location) {
		start := b.Len()
		b.WriteRune(r)
		mappings = append(mappings, Mapping{DecodedStart: start, DecodedEnd: b.Len(), Raw: loc})
	}

	for _, tk := range tokens {
		switch tk.Kind {
		case token.StringContent, token.StringIllegalControlCharacter:
			flushPendingHigh()
			start := b.Len()
			b.WriteString(tk.Lexeme)
			mappings = append(mappings, Mapping{DecodedStart: start, DecodedEnd: b.Len(), Raw: tk.Location})

		case token.StringEscape:
			flushPendingHigh()
			appendRuneAt(decodeSimpleEscape(tk.Lexeme), tk.Location)

		case token.StringUnicodeEscape:
			unit, ok := decodeUnicodeEscape(tk.Lexeme)
			if !ok {
				flushPendingHigh()
				appendRuneAt(0xFFFD, tk.Location)
				continue
			}
			if utf16.IsSurrogate(rune(unit)) {
				if hasPendingHigh {
					appendRuneAt(utf16.DecodeRune(rune(pendingHigh), rune(unit)), token.Span(pendingHighLoc, tk.Location))
					hasPendingHigh = false
					continue
				}
				pendingHigh, pendingHighLoc, hasPendingHigh = unit, tk.Location, true
				continue
			}
			flushPendingHigh()
			appendRuneAt(rune(unit), tk.Location)
		}
	}
	flushPendingHigh()

	return b.String(), OffsetMap{Mappings: mappings}
}

func decodeSimpleEscape(lexeme string) rune {
	if len(lexeme) < 2 {
		return 0xFFFD
	}
	switch lexeme[1] {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case '"':
		return '"'
	case '\'':
		return '\''
	case '\\':
		return '\\'
	case '/':
		return '/'
	default:
		return rune(lexeme[1])
	}
}

func decodeUnicodeEscape(lexeme string) (uint16, bool) {
	if len(lexeme) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(lexeme[2:], 16, 32)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
