package numparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInteger(t *testing.T) {
	r := Parse("-42")
	assert.Equal(t, Integer, r.Kind)
	assert.Equal(t, int64(-42), r.Int)
}

func TestParseDecimal(t *testing.T) {
	r := Parse("3.14")
	assert.Equal(t, Decimal, r.Kind)
	assert.InDelta(t, 3.14, r.Float, 1e-9)
}

func TestParseExponent(t *testing.T) {
	r := Parse("1e10")
	assert.Equal(t, Decimal, r.Kind)
	assert.InDelta(t, 1e10, r.Float, 1)
}

func TestParseOverflowIntegerDemotesToDecimal(t *testing.T) {
	r := Parse("99999999999999999999999999")
	assert.Equal(t, Decimal, r.Kind)
}

func TestParseInt32BoundaryStaysInteger(t *testing.T) {
	r := Parse("2147483647")
	assert.Equal(t, Integer, r.Kind)
	assert.Equal(t, int64(2147483647), r.Int)
}

func TestParseBeyondInt32DemotesToDecimal(t *testing.T) {
	r := Parse("5000000000")
	assert.Equal(t, Decimal, r.Kind)
	assert.InDelta(t, 5e9, r.Float, 1)
	assert.False(t, r.OutOfRange)
}

func TestParseBeyondDoublePrecisionSetsOutOfRange(t *testing.T) {
	r := Parse("1" + strings.Repeat("0", 400))
	assert.Equal(t, Decimal, r.Kind)
	assert.True(t, r.OutOfRange)
	assert.True(t, r.Float > 0)
}
