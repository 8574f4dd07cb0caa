package modeac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saviobatista/go-beast/internal/modes"
)

// TestDecodeModeA tests identity replies, which read off the word digit by
// digit.
func TestDecodeModeA(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		squawk string
		ident  bool
	}{
		{name: "hijack code", word: 0x7500, squawk: "7500"},
		{name: "vfr code", word: 0x1200, squawk: "1200"},
		{name: "ident pressed", word: 0x7580, squawk: "7500", ident: true},
		{name: "spi with valid c digit", word: 0x04A0, squawk: "0420", ident: true},
		{name: "d1 pulse", word: 0x0421, squawk: "0421"},
		{name: "zero word", word: 0x0000, squawk: "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Decode(tt.word)
			a, ok := reply.(ModeA)
			assert.True(t, ok, "got %T", reply)
			assert.Equal(t, tt.squawk, a.Squawk.String())
			assert.Equal(t, tt.ident, a.Ident)
		})
	}
}

// TestDecodeModeC tests that plausible altitude words are kept as Mode C.
func TestDecodeModeC(t *testing.T) {
	for _, word := range []uint16{0x0420, 0x0010, 0x7160, 0x0462} {
		reply := Decode(word)
		c, ok := reply.(ModeC)
		assert.True(t, ok, "word %#04x: got %T", word, reply)
		assert.Equal(t, word, c.Word)
	}
}

// TestDecodeModeCRejections tests each rule that forces the Mode A
// fallback.
func TestDecodeModeCRejections(t *testing.T) {
	tests := []struct {
		name string
		word uint16
	}{
		{name: "zero", word: 0x0000},
		{name: "spi pulse", word: 0x04A0},
		{name: "d1 pulse", word: 0x0421},
		{name: "c digit 0", word: 0x7500},
		{name: "c digit 5", word: 0x0450},
		{name: "c digit 7", word: 0x0470},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Decode(tt.word).(ModeA)
			assert.True(t, ok, "word %#04x should not pass as mode C", tt.word)
		})
	}
}

// TestDecodeEmergencySquawk tests that the emergency codes survive the trip
// through the word form.
func TestDecodeEmergencySquawk(t *testing.T) {
	reply := Decode(0x7700)
	a, ok := reply.(ModeA)
	assert.True(t, ok, "got %T", reply)
	assert.Equal(t, modes.SquawkEmergency, a.Squawk)
	assert.True(t, a.Squawk.IsEmergency())
}
