package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAltitudeCodeNoData tests that empty altitude fields decode to nothing.
func TestAltitudeCodeNoData(t *testing.T) {
	for _, code := range []AltitudeCode{0, 0x1FFF} {
		_, ok := code.Decode()
		assert.False(t, ok, "code %#04x should carry no data", uint16(code))
	}
}

// TestAltitudeCode25ft tests decoding of codes with the Q bit set.
func TestAltitudeCode25ft(t *testing.T) {
	tests := []struct {
		code AltitudeCode
		feet int32
	}{
		{0x18B0, 38600},
		{0x0E11, 21425},
		{0x1038, 25200},
		{0x0C39, 18825},
		{0x1719, 36025},
		{0x1295, 28725},
		{0x1690, 35000},
		{0x17B0, 37000},
		{0x089B, 12875},
		{0x1498, 32000},
		{0x01BA, 2050},
		{0x019C, 1700},
		{0x1998, 40000},
		{0x053F, 7775},
		{0x091C, 13700},
		{0x15B8, 34000},
	}

	for _, tt := range tests {
		alt, ok := tt.code.Decode()
		assert.True(t, ok)
		assert.Equal(t, Altitude{Value: tt.feet, Unit: UnitFeet}, alt, "code %#04x", uint16(tt.code))
	}
}

// TestAltitudeCodeMetric tests that the M bit switches the unit to meters.
func TestAltitudeCodeMetric(t *testing.T) {
	alt, ok := AltitudeCode(0x07E8).Decode()
	assert.True(t, ok)
	assert.Equal(t, Altitude{Value: 1000, Unit: UnitMeters}, alt)
	assert.Equal(t, "1000 m", alt.String())
}

// TestAltitudeCodeGillham tests the 100 ft path taken when M and Q are both
// clear.
func TestAltitudeCodeGillham(t *testing.T) {
	tests := []struct {
		code AltitudeCode
		feet int32
	}{
		{0x0002, -400},  // B4 pulse alone
		{0x0100, -1100}, // C4 pulse alone
	}

	for _, tt := range tests {
		alt, ok := tt.code.Decode()
		assert.True(t, ok)
		assert.Equal(t, tt.feet, alt.Value, "code %#04x", uint16(tt.code))
		assert.Equal(t, UnitFeet, alt.Unit)
	}
}

// TestAltitudeCode12 tests the 12-bit airborne position variant.
func TestAltitudeCode12(t *testing.T) {
	_, ok := AltitudeCode12(0).Decode()
	assert.False(t, ok, "zero field carries no data")

	alt, ok := AltitudeCode12(0xC38).Decode()
	assert.True(t, ok)
	assert.Equal(t, Altitude{Value: 38000, Unit: UnitFeet}, alt)

	// All ones is a legitimate code here, the top of the 25 ft scale.
	alt, ok = AltitudeCode12(0xFFF).Decode()
	assert.True(t, ok)
	assert.Equal(t, Altitude{Value: 50175, Unit: UnitFeet}, alt)

	// Q clear falls back to the 100 ft Gillham scale.
	alt, ok = AltitudeCode12(0x002).Decode()
	assert.True(t, ok)
	assert.Equal(t, Altitude{Value: -400, Unit: UnitFeet}, alt)
}

// TestAltitudeString tests the display format.
func TestAltitudeString(t *testing.T) {
	assert.Equal(t, "38600 ft", Altitude{Value: 38600, Unit: UnitFeet}.String())
	assert.Equal(t, "-400 ft", Altitude{Value: -400, Unit: UnitFeet}.String())
}
