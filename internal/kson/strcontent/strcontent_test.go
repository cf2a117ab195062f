package strcontent

import (
	"testing"

	"github.com/kson-lang/kson/internal/kson/lexer"
	"github.com/kson-lang/kson/internal/kson/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentTokens lexes src (a single quoted string) and returns the tokens
// strictly between the open and close quote.
func contentTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, diags := lexer.New(src).Lex()
	require.True(t, len(toks) >= 2)
	require.Equal(t, token.StringOpenQuote, toks[0].Kind)
	_ = diags
	var inner []token.Token
	for _, tk := range toks[1:] {
		if tk.Kind == token.StringCloseQuote {
			break
		}
		inner = append(inner, tk)
	}
	return inner
}

func TestDecodeSimpleEscapes(t *testing.T) {
	decoded, _ := Decode(contentTokens(t, `"a\nb\tc"`))
	assert.Equal(t, "a\nb\tc", decoded)
}

func TestDecodeUnicodeEscape(t *testing.T) {
	decoded, _ := Decode(contentTokens(t, `"\u0041"`))
	assert.Equal(t, "A", decoded)
}

func TestDecodeSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as a UTF-16 surrogate pair.
	decoded, _ := Decode(contentTokens(t, `"\ud83d\ude00"`))
	assert.Equal(t, "😀", decoded)
}

func TestDecodeOffsetMapLocatesRawPosition(t *testing.T) {
	toks := contentTokens(t, `"ab\ncd"`)
	decoded, offsets := Decode(toks)
	require.Equal(t, "ab\ncd", decoded)

	// Byte 0 ('a') maps back to the STRING_CONTENT run "ab".
	loc := offsets.Locate(0)
	assert.Equal(t, 1, loc.Start.Column) // column 1 == right after the opening quote

	// Byte 2 ('\n', the decoded escape) maps back to the `\n` escape token.
	escLoc := offsets.Locate(2)
	assert.Equal(t, loc.End.Column, escLoc.Start.Column)
}

func TestDecodeLoneHighSurrogateFallsBackToReplacementChar(t *testing.T) {
	decoded, _ := Decode(contentTokens(t, `"\ud83d"`))
	assert.Equal(t, "�", decoded)
}
