package modes

import (
	"fmt"
	"strings"
)

// Callsign alphabets, indexed by 6-bit character code. The strict alphabet
// marks unassigned codes with '#'; the AIS alphabet assigns all 64.
const (
	callsignAlphabet = `#ABCDEFGHIJKLMNOPQRSTUVWXYZ##### ###############0123456789######`
	aisAlphabet      = `@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\]^_ !"#$%&'()*+,-./0123456789:;<=>?`
)

// Callsign is a decoded callsign, right-padded with spaces to 8 characters.
type Callsign [8]byte

func (c Callsign) String() string {
	return strings.TrimRight(string(c[:]), " ")
}

// InvalidCallsignError reports a character code with no assignment in the
// strict callsign alphabet.
type InvalidCallsignError struct {
	Position int
	Code     uint8
}

func (e *InvalidCallsignError) Error() string {
	return fmt.Sprintf("callsign character %d: code %#02x is not assigned", e.Position, e.Code)
}

// EncodedCallsign is the packed 48-bit callsign field of an identification
// message: eight 6-bit characters.
type EncodedCallsign [6]byte

// expand splits the packed field into its eight character codes.
func (c EncodedCallsign) expand() [8]uint8 {
	return [8]uint8{
		c[0] >> 2,
		(c[0]&0b11)<<4 | c[1]>>4,
		(c[1]&0b1111)<<2 | c[2]>>6,
		c[2] & 0b111111,
		c[3] >> 2,
		(c[3]&0b11)<<4 | c[4]>>4,
		(c[4]&0b1111)<<2 | c[5]>>6,
		c[5] & 0b111111,
	}
}

// Decode maps the field through the strict callsign alphabet. Codes outside
// the assigned letters, digits and space return an InvalidCallsignError.
func (c EncodedCallsign) Decode() (Callsign, error) {
	var out Callsign
	for i, code := range c.expand() {
		ch := callsignAlphabet[code]
		if ch == '#' {
			return Callsign{}, &InvalidCallsignError{Position: i, Code: code}
		}
		out[i] = ch
	}
	return out, nil
}

// DecodePermissive maps the field through the AIS alphabet instead, which
// assigns every code. Useful for feeds that emit nonstandard callsigns.
func (c EncodedCallsign) DecodePermissive() Callsign {
	var out Callsign
	for i, code := range c.expand() {
		out[i] = aisAlphabet[code]
	}
	return out
}
