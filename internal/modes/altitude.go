package modes

import (
	"fmt"

	"github.com/saviobatista/go-beast/internal/gillham"
)

// AltitudeUnit distinguishes the two encodings an altitude code can carry.
type AltitudeUnit uint8

const (
	UnitFeet   AltitudeUnit = 0
	UnitMeters AltitudeUnit = 1
)

func (u AltitudeUnit) String() string {
	if u == UnitMeters {
		return "m"
	}
	return "ft"
}

// Altitude is a decoded altitude.
type Altitude struct {
	Value int32
	Unit  AltitudeUnit
}

func (a Altitude) String() string {
	return fmt.Sprintf("%d %s", a.Value, a.Unit)
}

// AltitudeCode is the raw 13-bit AC field of surveillance and air-air
// replies. Zero means the field was empty.
type AltitudeCode uint16

// M selects metric units, Q selects 25 ft resolution. With neither set the
// code is Gillham-encoded at 100 ft resolution.
const (
	acMBit uint16 = 0x0040
	acQBit uint16 = 0x0010
)

// Decode resolves the altitude code. ok is false when the field carries no
// data, which the code signals as all zeros or all ones.
func (c AltitudeCode) Decode() (alt Altitude, ok bool) {
	v := uint16(c)
	if v == 0 || v == 0x1FFF {
		return Altitude{}, false
	}
	switch {
	case v&acMBit != 0:
		// Metric: the remaining 12 bits with the M bit squeezed out.
		return Altitude{Value: int32((v&0x1F80)>>1 | v&0x003F), Unit: UnitMeters}, true
	case v&acQBit != 0:
		// Drop the M and Q bits, closing the gaps they leave.
		n := int32((v&0x1F80)>>2 | (v&0x0020)>>1 | v&0x000F)
		return Altitude{Value: 25*n - 1000, Unit: UnitFeet}, true
	}
	return Altitude{Value: 100*int32(gillham.DecodeAC13(v)) - 1200, Unit: UnitFeet}, true
}

// AltitudeCode12 is the 12-bit altitude field of airborne position
// messages: the 13-bit code with the M bit squeezed out. Zero means the
// field was empty.
type AltitudeCode12 uint16

// Decode resolves the 12-bit altitude code, always in feet. ok is false
// when the field carries no data.
func (c AltitudeCode12) Decode() (alt Altitude, ok bool) {
	v := uint16(c)
	if v == 0 {
		return Altitude{}, false
	}
	if v&0x010 != 0 {
		n := int32((v&0xFE0)>>1 | v&0x00F)
		return Altitude{Value: 25*n - 1000, Unit: UnitFeet}, true
	}
	return Altitude{Value: 100*int32(gillham.DecodeAC12(v)) - 1200, Unit: UnitFeet}, true
}
