package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDecodeIdentification tests a type code 4 callsign broadcast.
func TestDecodeIdentification(t *testing.T) {
	me := [7]byte{0x20, 0x2C, 0xC3, 0x71, 0xC3, 0x2C, 0xE0} // KLM1023

	msg := DecodeMessage(me)
	ident, ok := msg.(Identification)
	assert.True(t, ok, "got %T", msg)
	assert.Equal(t, AircraftCategory{TypeCode: 4, Category: 0}, ident.Category)
	assert.Equal(t, "A0", ident.Category.String())

	callsign, err := ident.Callsign.Decode()
	assert.NoError(t, err)
	assert.Equal(t, "KLM1023", callsign.String())
}

// TestDecodeAirbornePosition tests both halves of a known even and odd
// position pair.
func TestDecodeAirbornePosition(t *testing.T) {
	tests := []struct {
		name   string
		me     [7]byte
		format CprFormat
		lat    uint32
		lon    uint32
	}{
		{
			name:   "even",
			me:     [7]byte{0x58, 0xC3, 0x82, 0xD6, 0x90, 0xC8, 0xAC},
			format: CprEven,
			lat:    93000,
			lon:    51372,
		},
		{
			name:   "odd",
			me:     [7]byte{0x58, 0xC3, 0x86, 0x43, 0x5C, 0xC4, 0x12},
			format: CprOdd,
			lat:    74158,
			lon:    50194,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := DecodeMessage(tt.me)
			pos, ok := msg.(AirbornePosition)
			assert.True(t, ok, "got %T", msg)

			assert.Equal(t, SourceBarometric, pos.Source)
			assert.Equal(t, SurveillanceStatusNoCondition, pos.Status)
			assert.False(t, pos.SingleAntenna)
			assert.False(t, pos.Time)

			alt, ok := pos.Altitude()
			assert.True(t, ok)
			assert.Equal(t, Altitude{Value: 38000, Unit: UnitFeet}, alt)

			if assert.NotNil(t, pos.Position) {
				assert.Equal(t, CPR{Format: tt.format, Latitude: tt.lat, Longitude: tt.lon}, *pos.Position)
			}
		})
	}
}

// TestDecodeAirbornePositionVariants tests the type code driven altitude
// source, the status bits and the empty type code 0.
func TestDecodeAirbornePositionVariants(t *testing.T) {
	// Type code 20 carries GNSS height.
	gnss := DecodeMessage([7]byte{0xA0, 0xC3, 0x82, 0xD6, 0x90, 0xC8, 0xAC})
	assert.Equal(t, SourceGNSS, gnss.(AirbornePosition).Source)

	// Type code 9 with surveillance status and the single antenna flag set.
	flagged := DecodeMessage([7]byte{0x4D, 0xC3, 0x82, 0xD6, 0x90, 0xC8, 0xAC}).(AirbornePosition)
	assert.Equal(t, SurveillanceStatusTemporaryAlert, flagged.Status)
	assert.True(t, flagged.SingleAntenna)

	// Type code 0 carries no position at all.
	empty := DecodeMessage([7]byte{0x00, 0xC3, 0x80, 0x00, 0x00, 0x00, 0x00}).(AirbornePosition)
	assert.Nil(t, empty.Position)
	alt, ok := empty.Altitude()
	assert.True(t, ok, "altitude may still be present without a position")
	assert.Equal(t, int32(38000), alt.Value)
}

// TestDecodeSurfacePosition tests the movement, track and position fields.
func TestDecodeSurfacePosition(t *testing.T) {
	me := [7]byte{0x3F, 0xCC, 0x06, 0xAB, 0xCD, 0x12, 0x34}

	msg := DecodeMessage(me)
	pos, ok := msg.(SurfacePosition)
	assert.True(t, ok, "got %T", msg)

	assert.Equal(t, Movement(124), pos.Movement)
	knots, ok := pos.Movement.Knots()
	assert.True(t, ok)
	assert.Equal(t, 175.0, knots)

	assert.True(t, pos.TrackValid)
	assert.Equal(t, 180.0, pos.Track.Degrees())
	assert.False(t, pos.Time)

	assert.Equal(t, CprOdd, pos.Position.Format)
	assert.Equal(t, uint32(0x155E6), pos.Position.Latitude)
	assert.Equal(t, uint32(0x11234), pos.Position.Longitude)
}

// TestMovement tests the piecewise ground speed encoding at its seams.
func TestMovement(t *testing.T) {
	tests := []struct {
		code   Movement
		eighth uint16
		ok     bool
	}{
		{0, 0, false},
		{1, 0, true},
		{2, 1, true},
		{8, 7, true},
		{9, 8, true},
		{12, 14, true},
		{13, 16, true},
		{38, 116, true},
		{39, 120, true},
		{93, 552, true},
		{94, 560, true},
		{108, 784, true},
		{109, 800, true},
		{123, 1360, true},
		{124, 1400, true},
		{125, 0, false},
		{127, 0, false},
	}

	for _, tt := range tests {
		v, ok := tt.code.EighthKnots()
		assert.Equal(t, tt.ok, ok, "code %d", tt.code)
		assert.Equal(t, tt.eighth, v, "code %d", tt.code)

		knots, _ := tt.code.Knots()
		assert.Equal(t, float64(tt.eighth)*0.125, knots, "code %d", tt.code)
	}
}

// TestGroundTrack tests the 128-step track encoding.
func TestGroundTrack(t *testing.T) {
	assert.Equal(t, 0.0, GroundTrack(0).Degrees())
	assert.Equal(t, 90.0, GroundTrack(32).Degrees())
	assert.Equal(t, 180.0, GroundTrack(64).Degrees())
	assert.Equal(t, 357.1875, GroundTrack(127).Degrees())
}

// TestDecodeEmergencyStatus tests a type code 28 subtype 1 message.
func TestDecodeEmergencyStatus(t *testing.T) {
	me := [7]byte{0xE1, 0xAA, 0xA2, 0x00, 0x00, 0x00, 0x00}

	msg := DecodeMessage(me)
	status, ok := msg.(EmergencyStatus)
	assert.True(t, ok, "got %T", msg)
	assert.Equal(t, EmergencyUnlawfulInterference, status.Status)
	assert.Equal(t, SquawkHijack, status.Squawk)
}

// TestDecodeUndecoded tests that unhandled message types keep their raw
// fields.
func TestDecodeUndecoded(t *testing.T) {
	tests := []struct {
		name     string
		me       [7]byte
		typeCode uint8
		subType  uint8
	}{
		{
			name:     "airborne velocity",
			me:       [7]byte{0x99, 0x44, 0x09, 0x94, 0x08, 0x38, 0x17},
			typeCode: 19,
			subType:  1,
		},
		{
			name:     "test message",
			me:       [7]byte{0xB8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			typeCode: 23,
			subType:  0,
		},
		{
			name:     "aircraft status subtype 2",
			me:       [7]byte{0xE2, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
			typeCode: 28,
			subType:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := DecodeMessage(tt.me)
			raw, ok := msg.(Undecoded)
			assert.True(t, ok, "got %T", msg)
			assert.Equal(t, tt.typeCode, raw.TypeCode)
			assert.Equal(t, tt.subType, raw.SubType)

			var want [6]byte
			copy(want[:], tt.me[1:])
			assert.Equal(t, want, raw.Data)
		})
	}
}

// TestAircraftCategory tests the class letter mapping.
func TestAircraftCategory(t *testing.T) {
	assert.Equal(t, "A3", AircraftCategory{TypeCode: 4, Category: 3}.String())
	assert.Equal(t, "B1", AircraftCategory{TypeCode: 3, Category: 1}.String())
	assert.Equal(t, "C2", AircraftCategory{TypeCode: 2, Category: 2}.String())
	assert.Equal(t, "D0", AircraftCategory{TypeCode: 1, Category: 0}.String())
}

// TestEmergencyForSquawk tests the reserved code mapping.
func TestEmergencyForSquawk(t *testing.T) {
	got, ok := EmergencyForSquawk(SquawkHijack)
	assert.True(t, ok)
	assert.Equal(t, EmergencyUnlawfulInterference, got)

	got, ok = EmergencyForSquawk(SquawkRadioFailure)
	assert.True(t, ok)
	assert.Equal(t, EmergencyNoCommunications, got)

	got, ok = EmergencyForSquawk(SquawkEmergency)
	assert.True(t, ok)
	assert.Equal(t, EmergencyGeneral, got)

	_, ok = EmergencyForSquawk(Squawk(0o1200))
	assert.False(t, ok)
}
