// Package gillham converts Gray-coded (Gillham) altitude and identity words
// into natural-order binary values.
//
// Mode A/C and Mode S surveillance replies carry altitude and identity codes
// whose bits are interleaved on the wire in pulse order (C1 A1 C2 A2 ...)
// rather than in value order. Each function here undoes one of the three
// published interleavings. The result is the reordered, natural-order value;
// interpreting it (feet, squawk digits) is the caller's job.
//
// https://en.wikipedia.org/wiki/Gillham_code
package gillham

// bitMap routes one wire bit to its position in the reordered value.
type bitMap struct {
	wire uint16
	out  uint16
}

// permute is shared by the three decode functions so the tables stay
// auditable side by side. Wire bits without a table entry (the ID, M and Q
// framing bits) are ignored.
func permute(code uint16, table []bitMap) uint16 {
	var v uint16
	for _, m := range table {
		if code&m.wire != 0 {
			v |= m.out
		}
	}
	return v
}

// id13Table reorders the 13-bit identity code used by DF5, DF21 and Mode A.
//
//	wire:  C1 A1 C2 A2 C4 A4 ID B1 D1 B2 D2 B4 D4
//	value: A4 A2 A1 B4 B2 B1 C4 C2 C1 D4 D2 D1
//
// The ID bit (the IDENT/SPI flag) is not part of the code.
var id13Table = []bitMap{
	{0x1000, 1 << 3},  // C1
	{0x0800, 1 << 9},  // A1
	{0x0400, 1 << 4},  // C2
	{0x0200, 1 << 10}, // A2
	{0x0100, 1 << 5},  // C4
	{0x0080, 1 << 11}, // A4
	{0x0020, 1 << 6},  // B1
	{0x0010, 1 << 0},  // D1
	{0x0008, 1 << 7},  // B2
	{0x0004, 1 << 1},  // D2
	{0x0002, 1 << 8},  // B4
	{0x0001, 1 << 2},  // D4
}

// ac13Table reorders the 13-bit altitude code used by DF0, DF4, DF16, DF20
// and Mode C. The M and Q bits select other encodings entirely and are
// checked by the caller before the Gillham path applies.
//
//	wire:  C1 A1 C2 A2 C4 A4 M B1 Q B2 D2 B4 D4
//	value: D2 D4 A1 A2 A4 B1 B2 B4 C1 C2 C4
var ac13Table = []bitMap{
	{0x1000, 1 << 2},  // C1
	{0x0800, 1 << 8},  // A1
	{0x0400, 1 << 1},  // C2
	{0x0200, 1 << 7},  // A2
	{0x0100, 1 << 0},  // C4
	{0x0080, 1 << 6},  // A4
	{0x0020, 1 << 5},  // B1
	{0x0008, 1 << 4},  // B2
	{0x0004, 1 << 10}, // D2
	{0x0002, 1 << 3},  // B4
	{0x0001, 1 << 9},  // D4
}

// ac12Table reorders the 12-bit altitude code carried by ADS-B airborne
// position messages. Same value order as ac13Table; the wire form drops M
// and moves Q down one position.
//
//	wire:  C1 A1 C2 A2 C4 A4 B1 Q B2 D2 B4 D4
//	value: D2 D4 A1 A2 A4 B1 B2 B4 C1 C2 C4
var ac12Table = []bitMap{
	{0x800, 1 << 2},  // C1
	{0x400, 1 << 8},  // A1
	{0x200, 1 << 1},  // C2
	{0x100, 1 << 7},  // A2
	{0x080, 1 << 0},  // C4
	{0x040, 1 << 6},  // A4
	{0x020, 1 << 5},  // B1
	{0x008, 1 << 4},  // B2
	{0x004, 1 << 10}, // D2
	{0x002, 1 << 3},  // B4
	{0x001, 1 << 9},  // D4
}

// DecodeID13 reorders a 13-bit identity code into its 12-bit natural value.
// Formatting the result in octal gives the four squawk digits.
func DecodeID13(code uint16) uint16 {
	return permute(code, id13Table)
}

// DecodeAC13 reorders a 13-bit altitude code into its 11-bit natural value.
func DecodeAC13(code uint16) uint16 {
	return permute(code, ac13Table)
}

// DecodeAC12 reorders a 12-bit altitude code into its 11-bit natural value.
func DecodeAC12(code uint16) uint16 {
	return permute(code, ac12Table)
}
