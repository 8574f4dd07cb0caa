package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIdentityCodeSquawk tests the pulse rearrangement against codes worked
// out by hand.
func TestIdentityCodeSquawk(t *testing.T) {
	tests := []struct {
		name   string
		code   IdentityCode
		squawk string
	}{
		{name: "mixed digits", code: 0x08A6, squawk: "5502"},
		{name: "single pulse", code: 0x0800, squawk: "1000"},
		{name: "leading zero", code: 0x141B, squawk: "0635"},
		{name: "hijack", code: 0x0AA2, squawk: "7500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.squawk, tt.code.Squawk().String())
		})
	}
}

// TestIdentityCodeIdent tests the SPI pulse bit.
func TestIdentityCodeIdent(t *testing.T) {
	assert.True(t, IdentityCode(0x0040).Ident())
	assert.False(t, IdentityCode(0x08A6).Ident())

	// The pulse does not disturb the code itself.
	assert.Equal(t, IdentityCode(0x08A6|0x0040).Squawk(), IdentityCode(0x08A6).Squawk())
}

// TestSquawkEmergency tests the reserved emergency codes.
func TestSquawkEmergency(t *testing.T) {
	assert.True(t, SquawkHijack.IsEmergency())
	assert.True(t, SquawkRadioFailure.IsEmergency())
	assert.True(t, SquawkEmergency.IsEmergency())
	assert.False(t, Squawk(0o1200).IsEmergency())
	assert.False(t, Squawk(0).IsEmergency())
}

// TestSquawkString tests that codes display as four octal digits.
func TestSquawkString(t *testing.T) {
	assert.Equal(t, "7700", SquawkEmergency.String())
	assert.Equal(t, "0635", Squawk(0o0635).String())
	assert.Equal(t, "0000", Squawk(0).String())
}
