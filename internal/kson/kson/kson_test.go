package kson

import (
	"testing"

	"github.com/kson-lang/kson/internal/kson/format"
	"github.com/kson-lang/kson/internal/kson/jsonenc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeLowersCleanDocument(t *testing.T) {
	doc := Analyze(`{a: 1}`)
	require.Empty(t, doc.Diagnostics)
	require.NotNil(t, doc.Value)
}

func TestAnalyzeRefusesLoweringOnParseError(t *testing.T) {
	doc := Analyze(`{a: }`)
	assert.Nil(t, doc.Value)
}

func TestFormatRoundTrips(t *testing.T) {
	out, diags := Format(`{a: 1}`, format.Options{Style: format.Plain})
	require.Empty(t, diags)
	assert.Equal(t, "a: 1\n", out)
}

func TestToJSON(t *testing.T) {
	out, diags, ok := ToJSON(`{a: 1, b: "x"}`, jsonenc.Options{})
	require.True(t, ok)
	require.Empty(t, diags)
	assert.Equal(t, `{"a":1,"b":"x"}`, out)
}

func TestToYAML(t *testing.T) {
	out, diags, ok := ToYAML(`{a: 1}`)
	require.True(t, ok)
	require.Empty(t, diags)
	assert.Equal(t, "a: 1\n", out)
}

func TestParseSchemaAndValidate(t *testing.T) {
	validator, diags, ok := ParseSchema(`{type: "object", required: ["name"]}`)
	require.True(t, ok)
	require.Empty(t, diags)

	violations, ok := validator.Validate(`{}`)
	require.True(t, ok)
	require.Len(t, violations, 1)
	assert.Equal(t, "Q404", string(violations[0].Code))

	clean, ok := validator.Validate(`{name: "x"}`)
	require.True(t, ok)
	assert.Empty(t, clean)
}
