package parser

import (
	"strings"
	"testing"

	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.Root, []string) {
	t.Helper()
	toks, lexDiags := lexer.New(src).Lex()
	require.Empty(t, lexDiags)
	root, diags := Parse(toks)
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return root, msgs
}

func TestParseBracedObject(t *testing.T) {
	root, diags := parse(t, `{a: 1, b: "two"}`)
	require.Empty(t, diags)
	obj, ok := root.Value.(*ast.Object)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)
	assert.Equal(t, "a", obj.Properties[0].Key.Decoded)
	num := obj.Properties[0].Value.(*ast.Number)
	assert.Equal(t, ast.NumberInteger, num.Kind)
	assert.Equal(t, int64(1), num.Int)
	str := obj.Properties[1].Value.(*ast.String)
	assert.Equal(t, "two", str.Decoded)
}

func TestParseImplicitObject(t *testing.T) {
	root, diags := parse(t, "name: alice\nage: 30")
	require.Empty(t, diags)
	obj, ok := root.Value.(*ast.Object)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)
	assert.Equal(t, "name", obj.Properties[0].Key.Decoded)
	assert.Equal(t, "age", obj.Properties[1].Key.Decoded)
}

func TestParseDeepNestingHitsRecursionLimit(t *testing.T) {
	src := strings.Repeat("[", 600) + "1" + strings.Repeat("]", 600)
	toks, lexDiags := lexer.New(src).Lex()
	require.Empty(t, lexDiags)
	_, diags := Parse(toks)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == diag.CodeRecursionLimitExceeded {
			found = true
		}
	}
	assert.True(t, found, "expected a recursion-limit diagnostic among %d diagnostics", len(diags))
}

func TestParseBracketList(t *testing.T) {
	root, diags := parse(t, "[1, 2, 3]")
	require.Empty(t, diags)
	list, ok := root.Value.(*ast.List)
	require.True(t, ok)
	assert.Equal(t, ast.ListStyleBracket, list.Style)
	require.Len(t, list.Items, 3)
}

func TestParseDashList(t *testing.T) {
	root, diags := parse(t, "- 1\n- 2\n.")
	require.Empty(t, diags)
	list, ok := root.Value.(*ast.List)
	require.True(t, ok)
	assert.Equal(t, ast.ListStyleDash, list.Style)
	require.Len(t, list.Items, 2)
}

func TestParseNestedStructure(t *testing.T) {
	root, diags := parse(t, `{users: [{name: "a"}, {name: "b"}]}`)
	require.Empty(t, diags)
	obj := root.Value.(*ast.Object)
	list := obj.Properties[0].Value.(*ast.List)
	require.Len(t, list.Items, 2)
	first := list.Items[0].(*ast.Object)
	assert.Equal(t, "a", first.Properties[0].Value.(*ast.String).Decoded)
}

func TestParseLeadingCommentAttachesToProperty(t *testing.T) {
	root, diags := parse(t, "{\n  # a comment\n  a: 1\n}")
	require.Empty(t, diags)
	obj := root.Value.(*ast.Object)
	require.Equal(t, []string{"a comment"}, obj.Properties[0].LeadingComments)
}

func TestParseTrailingCommentAttachesToProperty(t *testing.T) {
	root, diags := parse(t, "{a: 1 # trailing\n}")
	require.Empty(t, diags)
	obj := root.Value.(*ast.Object)
	assert.Equal(t, "trailing", obj.Properties[0].TrailingComment)
}

func TestParseDuplicateKeyWarns(t *testing.T) {
	_, diags := parse(t, `{a: 1, a: 2}`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "duplicate")
}

func TestParseEmbedBlock(t *testing.T) {
	root, diags := parse(t, "%%%yaml\nfoo: bar\n%%%\n")
	require.Empty(t, diags)
	e, ok := root.Value.(*ast.EmbedBlock)
	require.True(t, ok)
	assert.Equal(t, "yaml", e.Tag)
	assert.Equal(t, "foo: bar\n", e.Body)
}

func TestParseUnexpectedTokenProducesErrorNode(t *testing.T) {
	root, diags := parse(t, "}")
	require.NotEmpty(t, diags)
	assert.True(t, ast.HasError(root.Value))
}
