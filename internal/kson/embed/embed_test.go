package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStripsSharedIndent(t *testing.T) {
	raw := "  foo: 1\n  bar: 2\n"
	assert.Equal(t, "foo: 1\nbar: 2\n", Decode(raw, '%', 2))
}

func TestDecodeStripsMinimumNotMaximum(t *testing.T) {
	raw := "  a\n    b\n"
	assert.Equal(t, "a\n  b\n", Decode(raw, '%', 2))
}

func TestDecodeUnescapesAmbiguousDelimiterLine(t *testing.T) {
	raw := "\\%%\nbody\n"
	assert.Equal(t, "%%\nbody\n", Decode(raw, '%', 2))
}

func TestDecodeLeavesShortRunsAlone(t *testing.T) {
	raw := "%x\n"
	assert.Equal(t, "%x\n", Decode(raw, '%', 2))
}

func TestDecodeRemovesExactlyOneBackslashWhenAlreadyEscaped(t *testing.T) {
	raw := "\\\\%%\nbody\n"
	assert.Equal(t, "\\%%\nbody\n", Decode(raw, '%', 2))
}

func TestEncodeEscapesThenDecodeRoundTrips(t *testing.T) {
	body := "%%\nordinary line\n"
	encoded := Encode(body, '%', 2, "  ")
	assert.Equal(t, "  \\%%\n  ordinary line\n", encoded)

	decoded := Decode("\\%%\nordinary line\n", '%', 2)
	assert.Equal(t, body, decoded)
}

func TestEncodeDecodeRoundTripsArbitraryBody(t *testing.T) {
	bodies := []string{
		"plain text\n",
		"%% looks close but has trailing text\n",
		"$$$\nnested dollar run\n",
		"no trailing newline",
	}
	for _, body := range bodies {
		encoded := Encode(body, '$', 3, "")
		decoded := Decode(encoded, '$', 3)
		assert.Equal(t, body, decoded, "round trip for %q", body)
	}
}
