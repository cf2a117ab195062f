package lexer

import (
	"testing"

	"github.com/kson-lang/kson/internal/kson/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexStructuralTokens(t *testing.T) {
	toks, diags := New(`{a: [1, 2]}`).Lex()
	require.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.CurlyBraceL, token.UnquotedString, token.Colon, token.Whitespace,
		token.SquareBracketL, token.Number, token.Comma, token.Whitespace, token.Number,
		token.SquareBracketR, token.CurlyBraceR, token.EOF,
	}, kinds(toks))
}

func TestLexKeywords(t *testing.T) {
	toks, diags := New(`true false null`).Lex()
	require.Empty(t, diags)
	assert.Equal(t, token.True, toks[0].Kind)
	assert.Equal(t, token.False, toks[2].Kind)
	assert.Equal(t, token.Null, toks[4].Kind)
}

func TestLexDashList(t *testing.T) {
	toks, diags := New("- 1\n- 2\n.").Lex()
	require.Empty(t, diags)
	assert.Equal(t, token.ListDash, toks[0].Kind)
	assert.Equal(t, token.EndDash, toks[len(toks)-2].Kind)
}

func TestLexNegativeNumberVsListDash(t *testing.T) {
	toks, diags := New("- -5").Lex()
	require.Empty(t, diags)
	assert.Equal(t, token.ListDash, toks[0].Kind)
	assert.Equal(t, token.Number, toks[2].Kind)
	assert.Equal(t, "-5", toks[2].Lexeme)
}

func TestLexStringEscapes(t *testing.T) {
	toks, diags := New(`"a\nb\u00e9"`).Lex()
	require.Empty(t, diags)
	assert.Equal(t, token.StringOpenQuote, toks[0].Kind)
	assert.Equal(t, token.StringContent, toks[1].Kind)
	assert.Equal(t, "a", toks[1].Lexeme)
	assert.Equal(t, token.StringEscape, toks[2].Kind)
	assert.Equal(t, token.StringContent, toks[3].Kind)
	assert.Equal(t, token.StringUnicodeEscape, toks[4].Kind)
	assert.Equal(t, token.StringCloseQuote, toks[5].Kind)
}

func TestLexStringBadEscapeStillProducesToken(t *testing.T) {
	toks, diags := New(`"a\qb"`).Lex()
	require.Len(t, diags, 1)
	assert.Equal(t, "L002", string(diags[0].Code))
	var sawEscape bool
	for _, tk := range toks {
		if tk.Kind == token.StringEscape {
			sawEscape = true
		}
	}
	assert.True(t, sawEscape)
}

func TestLexUnterminatedString(t *testing.T) {
	_, diags := New(`"abc`).Lex()
	require.Len(t, diags, 1)
	assert.Equal(t, "L005", string(diags[0].Code))
}

func TestLexEmbedBlock(t *testing.T) {
	src := "%%%yaml\nfoo: bar\n%%%\n"
	toks, diags := New(src).Lex()
	require.Empty(t, diags)
	assert.Equal(t, token.EmbedOpenDelim, toks[0].Kind)
	assert.Equal(t, "%%%", toks[0].Lexeme)
	assert.Equal(t, token.EmbedTag, toks[1].Kind)
	assert.Equal(t, "yaml", toks[1].Lexeme)
	assert.Equal(t, token.EmbedPreambleNewline, toks[2].Kind)
	assert.Equal(t, token.EmbedContent, toks[3].Kind)
	assert.Equal(t, "foo: bar\n", toks[3].Lexeme)
	assert.Equal(t, token.EmbedCloseDelim, toks[4].Kind)
}

func TestLexEmbedBlockWithEscapedInteriorRun(t *testing.T) {
	src := "%%\n%%%\nliteral percent line\n%%\n"
	toks, diags := New(src).Lex()
	require.Empty(t, diags)
	var content string
	for _, tk := range toks {
		if tk.Kind == token.EmbedContent {
			content += tk.Lexeme
		}
	}
	assert.Equal(t, "%%%\nliteral percent line\n", content)
}

func TestLexUnterminatedEmbedBlock(t *testing.T) {
	_, diags := New("%%\nfoo\n").Lex()
	require.Len(t, diags, 1)
	assert.Equal(t, "L006", string(diags[0].Code))
}

func TestLexNumberExponent(t *testing.T) {
	toks, diags := New("1.5e-10").Lex()
	require.Empty(t, diags)
	assert.Equal(t, "1.5e-10", toks[0].Lexeme)
}

func TestLexIllegalChar(t *testing.T) {
	_, diags := New("@").Lex()
	require.Len(t, diags, 1)
	assert.Equal(t, "L001", string(diags[0].Code))
}

func TestLexColumnsCountUTF16Width(t *testing.T) {
	// U+1F600 lies outside the BMP: one rune, two UTF-16 code units.
	toks, _ := New(`"😀"`).Lex()
	require.NotEmpty(t, toks)
	assert.Equal(t, 1, toks[1].Location.Start.Column)
	assert.Equal(t, 3, toks[1].Location.End.Column)
}
