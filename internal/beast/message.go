package beast

import (
	"encoding/hex"
	"fmt"
	"math"
)

// Escape delimits frames and doubles as the stuffing byte: a literal 0x1A
// inside a frame body is transmitted as two consecutive 0x1A bytes.
const Escape = 0x1A

// MlatTimestamp is the 6-byte big-endian counter carried by every data
// frame: ticks since local midnight on the receiver's 12 MHz clock, or a
// GPS-referenced value when the receiver is configured for GPS timestamps.
// Which clock applies is receiver configuration, not decodable here.
type MlatTimestamp [6]byte

// Reserved timestamp patterns that carry meaning instead of a time.
var (
	// AnyTimestamp marks a timestamp scrubbed for compression.
	AnyTimestamp = MlatTimestamp{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

	// SyntheticMLAT marks a frame derived from multilateration.
	SyntheticMLAT = MlatTimestamp{0xFF, 0x00, 'M', 'L', 'A', 'T'}

	// SyntheticUAT marks a frame derived from UAT.
	SyntheticUAT = MlatTimestamp{0xFF, 0x00, 'M', 'L', 'A', 'U'}

	// NoForward marks a frame that must not be forwarded.
	NoForward = MlatTimestamp{0xFF, 0x00, 'M', 'L', 'A', '`'}
)

// TimestampFromTicks builds a timestamp from a raw 48-bit tick count.
func TimestampFromTicks(ticks uint64) MlatTimestamp {
	var t MlatTimestamp
	for i := 5; i >= 0; i-- {
		t[i] = byte(ticks)
		ticks >>= 8
	}
	return t
}

// Ticks returns the raw 48-bit counter value.
func (t MlatTimestamp) Ticks() uint64 {
	var v uint64
	for _, b := range t {
		v = v<<8 | uint64(b)
	}
	return v
}

// IsSynthetic reports whether the timestamp is one of the reserved patterns
// rather than a real receiver time: any timestamp whose first five bytes are
// FF 00 4D 4C 41 ("MLA"), or AnyTimestamp.
func (t MlatTimestamp) IsSynthetic() bool {
	if t == AnyTimestamp {
		return true
	}
	return t[0] == 0xFF && t[1] == 0x00 && t[2] == 'M' && t[3] == 'L' && t[4] == 'A'
}

func (t MlatTimestamp) String() string {
	switch t {
	case AnyTimestamp:
		return "any"
	case SyntheticMLAT:
		return "synthetic-mlat"
	case SyntheticUAT:
		return "synthetic-uat"
	case NoForward:
		return "no-forward"
	}
	return fmt.Sprintf("%d", t.Ticks())
}

// SignalLevel is the 1-byte RSSI attached to every data frame. The receiver
// encodes it as round(sqrt(power) * 255) with power a fraction of full scale.
type SignalLevel byte

// Power inverts the receiver encoding and returns the received power as a
// fraction in [0.0, 1.0].
func (s SignalLevel) Power() float64 {
	x := float64(s) / 255
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	return x * x
}

// SignalFromPower encodes a power fraction the way a receiver would. Inputs
// outside [0.0, 1.0] are clamped.
func SignalFromPower(power float64) SignalLevel {
	if power < 0 || math.IsNaN(power) {
		power = 0
	} else if power > 1 {
		power = 1
	}
	return SignalLevel(math.Round(math.Sqrt(power) * 255))
}

// RawFrame is one delimited frame as it came off the wire, unstuffed but not
// further decoded. Payload length is fixed by Type. Frames of type
// TypeDipswitchStatus carry no timestamp or signal level; both are zero.
type RawFrame struct {
	Type      OutputPacketType
	Timestamp MlatTimestamp
	Signal    SignalLevel
	Payload   []byte
}

// ModeACWord returns the 2-byte Mode A/C payload as a big-endian word.
// Zero for other frame types.
func (f *RawFrame) ModeACWord() uint16 {
	if f.Type != TypeModeAC || len(f.Payload) != 2 {
		return 0
	}
	return uint16(f.Payload[0])<<8 | uint16(f.Payload[1])
}

// Dipswitch returns the switch report carried by a dipswitch-status frame.
func (f *RawFrame) Dipswitch() (DipswitchStatus, bool) {
	if f.Type != TypeDipswitchStatus || len(f.Payload) != 1 {
		return 0, false
	}
	return DipswitchStatus(f.Payload[0]), true
}

func (f *RawFrame) String() string {
	return fmt.Sprintf("%s ts=%s signal=%d payload=%s",
		f.Type, f.Timestamp, f.Signal, hex.EncodeToString(f.Payload))
}
