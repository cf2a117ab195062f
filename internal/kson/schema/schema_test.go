package schema

import (
	"strings"
	"testing"

	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/lexer"
	"github.com/kson-lang/kson/internal/kson/parser"
	"github.com/kson-lang/kson/internal/kson/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deeplyNestedPropertiesSchema builds a schema n levels deep via nested
// "properties", and a value with the same nesting so Validate walks it.
func deeplyNestedPropertiesSchema(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(`{properties: {a: `)
	}
	b.WriteString(`{type: "string"}`)
	for i := 0; i < n; i++ {
		b.WriteString(`}}`)
	}
	return b.String()
}

func deeplyNestedValue(n int, key string) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(`{` + key + `: `)
	}
	b.WriteString(`null`)
	for i := 0; i < n; i++ {
		b.WriteString(`}`)
	}
	return b.String()
}

func lower(t *testing.T, src string) *value.Value {
	t.Helper()
	toks, _ := lexer.New(src).Lex()
	root, diags := parser.Parse(toks)
	require.Empty(t, diags)
	v, ok := value.Lower(root)
	require.True(t, ok)
	return v
}

func compile(t *testing.T, schemaSrc string) *Validator {
	t.Helper()
	v, diags := NewValidator(lower(t, schemaSrc))
	require.Empty(t, diags)
	return v
}

func TestValidateTypeMismatch(t *testing.T) {
	v := compile(t, `{type: "string"}`)
	diags := v.Validate(lower(t, "1"))
	require.Len(t, diags, 1)
	assert.Equal(t, "Q401", string(diags[0].Code))
}

func TestValidateRequiredMissing(t *testing.T) {
	v := compile(t, `{type: "object", required: ["a", "b"]}`)
	diags := v.Validate(lower(t, "{a: 1}"))
	require.Len(t, diags, 1)
	assert.Equal(t, "Q404", string(diags[0].Code))
}

func TestValidateAdditionalPropertiesForbidden(t *testing.T) {
	v := compile(t, `{type: "object", properties: {a: {type: "integer"}}, additionalProperties: false}`)
	diags := v.Validate(lower(t, "{a: 1, b: 2}"))
	require.Len(t, diags, 1)
	assert.Equal(t, "Q405", string(diags[0].Code))
}

func TestValidatePattern(t *testing.T) {
	v := compile(t, `{type: "string", pattern: "^[a-z]+$"}`)
	diags := v.Validate(lower(t, `"ABC"`))
	require.Len(t, diags, 1)
	assert.Equal(t, "Q414", string(diags[0].Code))
}

func TestValidateMinimumMaximum(t *testing.T) {
	v := compile(t, `{type: "integer", minimum: 0, maximum: 10}`)
	assert.Empty(t, v.Validate(lower(t, "5")))
	assert.NotEmpty(t, v.Validate(lower(t, "-1")))
	assert.NotEmpty(t, v.Validate(lower(t, "11")))
}

func TestValidateUniqueItemsTreatsIntAndDecimalAsEqual(t *testing.T) {
	v := compile(t, `{type: "array", uniqueItems: true}`)
	diags := v.Validate(lower(t, "[1.0, 1]"))
	require.Len(t, diags, 1)
	assert.Equal(t, "Q408", string(diags[0].Code))
}

func TestValidateOneOfExactlyOne(t *testing.T) {
	v := compile(t, `{oneOf: [{type: "integer"}, {minimum: 0}]}`)
	assert.Empty(t, v.Validate(lower(t, "-5")))
	assert.NotEmpty(t, v.Validate(lower(t, "5")))
}

func TestCompileDeeplyNestedSchemaHitsRecursionLimit(t *testing.T) {
	_, diags := NewValidator(lower(t, deeplyNestedPropertiesSchema(600)))
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.CodeRecursionLimitExceeded, diags[0].Code)
}

func TestValidateRecursiveSchemaOnDeeplyNestedValueHitsRecursionLimit(t *testing.T) {
	v := compile(t, `{
		"$id": "#node",
		type: "object",
		properties: {next: {"$ref": "#node"}},
	}`)
	diags := v.Validate(lower(t, deeplyNestedValue(600, "next")))
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == diag.CodeRecursionLimitExceeded {
			found = true
		}
	}
	assert.True(t, found, "expected a recursion-limit diagnostic among %d diagnostics", len(diags))
}

func TestValidateNestedObjectAccumulatesMultipleErrors(t *testing.T) {
	v := compile(t, `{
		type: "object",
		properties: {
			name: {type: "string", minLength: 1},
			age: {type: "integer", minimum: 0},
		},
		required: ["name", "age"],
	}`)
	diags := v.Validate(lower(t, `{name: "", age: -1}`))
	assert.Len(t, diags, 2)
}
