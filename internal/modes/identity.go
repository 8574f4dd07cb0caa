package modes

import (
	"fmt"

	"github.com/saviobatista/go-beast/internal/gillham"
)

// Squawk is a 4096 code as set on the transponder, packed one octal digit
// per 3 bits.
type Squawk uint16

const (
	SquawkHijack       Squawk = 0o7500
	SquawkRadioFailure Squawk = 0o7600
	SquawkEmergency    Squawk = 0o7700
)

// IsEmergency reports whether the code is one of the three reserved
// emergency codes.
func (s Squawk) IsEmergency() bool {
	return s == SquawkHijack || s == SquawkRadioFailure || s == SquawkEmergency
}

func (s Squawk) String() string {
	return fmt.Sprintf("%04o", uint16(s))
}

// IdentityCode is the raw 13-bit ID field of identity surveillance replies.
type IdentityCode uint16

// Ident reports whether the SPI pulse bit is set.
func (c IdentityCode) Ident() bool {
	return uint16(c)&0x0040 != 0
}

// Squawk rearranges the Gillham-ordered pulses into the transponder code.
func (c IdentityCode) Squawk() Squawk {
	return Squawk(gillham.DecodeID13(uint16(c)))
}
