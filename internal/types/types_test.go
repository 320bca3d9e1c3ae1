package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmountScrubsFormatting(t *testing.T) {
	assert.Equal(t, "118000.5", ParseAmount("1,18,000.50").String())
	assert.Equal(t, "500", ParseAmount("₹ 500").String())
	assert.Equal(t, "-42.1", ParseAmount(" -42.10 ").String())
}

func TestParseAmountBlankAndGarbageAreZero(t *testing.T) {
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("n/a").IsZero())
}
