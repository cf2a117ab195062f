package jsonenc

import (
	"testing"

	"github.com/kson-lang/kson/internal/kson/lexer"
	"github.com/kson-lang/kson/internal/kson/parser"
	"github.com/kson-lang/kson/internal/kson/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, src string, opts Options) string {
	t.Helper()
	toks, _ := lexer.New(src).Lex()
	root, diags := parser.Parse(toks)
	require.Empty(t, diags)
	v, ok := value.Lower(root)
	require.True(t, ok)
	return Encode(v, opts)
}

func TestEncodeCompactObject(t *testing.T) {
	out := encode(t, `{a: 1, b: "x"}`, Options{})
	assert.Equal(t, `{"a":1,"b":"x"}`, out)
}

func TestEncodeIndented(t *testing.T) {
	out := encode(t, `{a: 1}`, Options{Indent: "  "})
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestEncodeIntegerVsDecimal(t *testing.T) {
	out := encode(t, "[1, 1.0]", Options{})
	assert.Equal(t, "[1,1]", out)
}

func TestEncodeEscapesForwardSlash(t *testing.T) {
	out := encode(t, `"a/b"`, Options{})
	assert.Equal(t, `"a\/b"`, out)
}

func TestEncodeEmptyContainers(t *testing.T) {
	assert.Equal(t, "{}", encode(t, "{}", Options{}))
	assert.Equal(t, "[]", encode(t, "[]", Options{}))
}

func TestEncodeEmbedRetainsTagByDefault(t *testing.T) {
	out := encode(t, "key: %%sh\nhello\n%%", Options{RetainTags: true})
	assert.Equal(t, `{"key":{"embedTag":"sh","embedContent":"hello\n"}}`, out)
}

func TestEncodeEmbedWithoutRetainTagsDegradesToString(t *testing.T) {
	out := encode(t, "key: %%sh\nhello\n%%", Options{RetainTags: false})
	assert.Equal(t, `{"key":"hello\n"}`, out)
}
