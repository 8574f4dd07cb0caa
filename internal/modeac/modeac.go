// Package modeac decodes the 16-bit words a BEAST receiver forwards for
// classic Mode A/C replies. On the air the two modes are indistinguishable:
// the same twelve pulses carry either an identity code or a Gillham-coded
// altitude, and only the interrogation knew which was asked for. Decoding
// therefore guesses, preferring Mode C whenever the word is a plausible
// altitude.
package modeac

import "github.com/saviobatista/go-beast/internal/modes"

// Reply is one decoded Mode A/C word, either a ModeA or a ModeC.
type Reply interface {
	isReply()
}

// ModeA is an identity reply.
type ModeA struct {
	Squawk modes.Squawk
	Ident  bool
}

func (ModeA) isReply() {}

// ModeC is an altitude reply. Word keeps the Gillham-coded pulses in the
// receiver's four-digit form; converting them to feet is left to callers
// that track enough context to trust the guess.
type ModeC struct {
	Word uint16
}

func (ModeC) isReply() {}

// Receivers pack one pulse digit per nibble, with the SPI pulse folded into
// the high bit of the C digit's nibble.
const (
	spiBit uint16 = 0x0080
	d1Bit  uint16 = 0x0001
)

// Decode interprets one Mode A/C word. Words that cannot be a valid
// altitude fall back to Mode A, which every word decodes as.
func Decode(word uint16) Reply {
	if isModeC(word) {
		return ModeC{Word: word}
	}
	return ModeA{
		Squawk: squawkOf(word),
		Ident:  word&spiBit != 0,
	}
}

// isModeC applies the Gillham plausibility rules: the D1 pulse is never
// transmitted, SPI only occurs on identity replies, and the C digit cannot
// be 0, 5 or 7.
func isModeC(word uint16) bool {
	if word == 0 || word&spiBit != 0 || word&d1Bit != 0 {
		return false
	}
	switch (word >> 4) & 0b111 {
	case 0, 5, 7:
		return false
	}
	return true
}

// squawkOf repacks the digit-per-nibble word into octal digits, dropping
// the flag bits.
func squawkOf(word uint16) modes.Squawk {
	return modes.Squawk((word&0x7000)>>3 | (word&0x0700)>>2 | (word&0x0070)>>1 | word&0x0007)
}
