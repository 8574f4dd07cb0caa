package modes

import "fmt"

// IcaoAddress is a 24-bit airframe address. Bit 24 flags addresses that are
// not ICAO-assigned, such as anonymous or TIS-B track file addresses.
type IcaoAddress uint32

// NonIcaoFlag marks an address as outside the ICAO allocation.
const NonIcaoFlag IcaoAddress = 1 << 24

// AddressFromBytes reads a big-endian 3-byte address field.
func AddressFromBytes(b [3]byte) IcaoAddress {
	return IcaoAddress(b[0])<<16 | IcaoAddress(b[1])<<8 | IcaoAddress(b[2])
}

// WithNonIcaoFlag returns the address marked as not ICAO-assigned.
func (a IcaoAddress) WithNonIcaoFlag() IcaoAddress {
	return a | NonIcaoFlag
}

// IsIcao reports whether the address is ICAO-assigned.
func (a IcaoAddress) IsIcao() bool {
	return a&NonIcaoFlag == 0
}

func (a IcaoAddress) String() string {
	if a.IsIcao() {
		return fmt.Sprintf("%06X", uint32(a))
	}
	return fmt.Sprintf("~%06X", uint32(a&^NonIcaoFlag))
}
