package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kson version:")
}

func TestFormatCommandReadsStdinWritesStdout(t *testing.T) {
	out, _, err := runCLI(t, "{a: 1}", "format", "--style", "plain")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", out)
}

func TestFormatCommandRejectsUnknownStyle(t *testing.T) {
	_, _, err := runCLI(t, "{a: 1}", "format", "--style", "bogus")
	assert.Error(t, err)
}

func TestJSONCommandTranspiles(t *testing.T) {
	out, _, err := runCLI(t, `{a: 1, b: "x"}`, "json")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1,\"b\":\"x\"}\n", out)
}

func TestJSONCommandFailsOnParseError(t *testing.T) {
	_, _, err := runCLI(t, `{a: }`, "json")
	assert.Error(t, err)
}

func TestFormatCommandShowTokens(t *testing.T) {
	out, _, err := runCLI(t, "{a: 1}", "format", "--show-tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "CURLY_BRACE_L")
	assert.Contains(t, out, "NUMBER")
}

func TestFormatCommandDiffShowsNoChangesForCleanInput(t *testing.T) {
	out, _, err := runCLI(t, "a: 1\n", "format", "--style", "plain", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "no changes needed")
}

func TestJSONCommandDefaultRetainsEmbedTags(t *testing.T) {
	out, _, err := runCLI(t, "key: %%sh\nhello\n%%", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"embedTag":"sh"`)
}

func TestJSONCommandRetainTagsDisabled(t *testing.T) {
	out, _, err := runCLI(t, "key: %%sh\nhello\n%%", "json", "--retain-tags=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "embedTag")
}

func TestYAMLCommandTranspiles(t *testing.T) {
	out, _, err := runCLI(t, `{a: 1}`, "yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", out)
}

func TestValidateCommandReportsViolations(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.kson")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{type: "object", required: ["name"]}`), 0644))

	_, stderr, err := runCLI(t, `{}`, "validate", "--schema", schemaPath)
	assert.Error(t, err)
	assert.Contains(t, stderr, "missing required property 'name'")
}

func TestValidateCommandPassesCleanDocument(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.kson")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{type: "object", required: ["name"]}`), 0644))

	out, _, err := runCLI(t, `{name: "x"}`, "validate", "--schema", schemaPath)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}
