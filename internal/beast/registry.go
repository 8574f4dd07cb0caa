package beast

import "fmt"

// PacketType is the common contract of the two frame-type registries. Tag is
// the wire byte following the frame escape; PayloadLen is the fixed payload
// size for that tag, with ok=false for tags outside the registry. Frame
// lengths are never inferred from content.
type PacketType interface {
	Tag() byte
	PayloadLen() (n int, ok bool)
	String() string
}

// OutputPacketType tags frames sent by the receiver.
type OutputPacketType byte

// Receiver-to-host frame types.
const (
	TypeModeAC          OutputPacketType = '1' // 2-byte Mode A/C word
	TypeModeSShort      OutputPacketType = '2' // 7-byte Mode S short frame
	TypeModeSLong       OutputPacketType = '3' // 14-byte Mode S long frame
	TypeDipswitchStatus OutputPacketType = '4' // 1-byte switch status, no timestamp or signal
)

// Tag returns the wire byte for the type.
func (t OutputPacketType) Tag() byte { return byte(t) }

// PayloadLen returns the fixed payload length for the type.
func (t OutputPacketType) PayloadLen() (int, bool) {
	switch t {
	case TypeModeAC:
		return 2, true
	case TypeModeSShort:
		return 7, true
	case TypeModeSLong:
		return 14, true
	case TypeDipswitchStatus:
		return 1, true
	}
	return 0, false
}

// hasHeader reports whether frames of this type carry the 6-byte timestamp
// and 1-byte signal level before the payload. Only the dip-switch status
// report goes without.
func (t OutputPacketType) hasHeader() bool { return t != TypeDipswitchStatus }

// bodyLen returns the full unstuffed body length after the type byte.
func (t OutputPacketType) bodyLen() (int, bool) {
	n, ok := t.PayloadLen()
	if !ok {
		return 0, false
	}
	if t.hasHeader() {
		n += 7
	}
	return n, true
}

func (t OutputPacketType) String() string {
	switch t {
	case TypeModeAC:
		return "mode-ac"
	case TypeModeSShort:
		return "mode-s-short"
	case TypeModeSLong:
		return "mode-s-long"
	case TypeDipswitchStatus:
		return "dipswitch-status"
	}
	return fmt.Sprintf("output-0x%02X", byte(t))
}

// InputPacketType tags frames sent to the receiver.
type InputPacketType byte

// Host-to-receiver frame types.
const (
	TypeDipswitchToggle InputPacketType = '1' // 1-byte switch command
	TypePing            InputPacketType = 'P' // 3-byte ping, echoed by some firmware
	TypeReceiverConfig  InputPacketType = 'W' // 1-byte receiver configuration setting
)

// Tag returns the wire byte for the type.
func (t InputPacketType) Tag() byte { return byte(t) }

// PayloadLen returns the fixed payload length for the type.
func (t InputPacketType) PayloadLen() (int, bool) {
	switch t {
	case TypeDipswitchToggle:
		return 1, true
	case TypePing:
		return 3, true
	case TypeReceiverConfig:
		return 1, true
	}
	return 0, false
}

func (t InputPacketType) String() string {
	switch t {
	case TypeDipswitchToggle:
		return "dipswitch-toggle"
	case TypePing:
		return "ping"
	case TypeReceiverConfig:
		return "receiver-config"
	}
	return fmt.Sprintf("input-0x%02X", byte(t))
}

// Dipswitch is the command byte of a dipswitch-toggle frame. Each receiver
// option has a lowercase/uppercase letter pair; case selects the setting.
// The CRC check and FEC pairs are inverted: the lowercase letter enables.
type Dipswitch byte

const (
	FormatAVR    Dipswitch = 'c' // AVR output format
	FormatBinary Dipswitch = 'C' // binary output format

	DF1117OnlyOff Dipswitch = 'd' // pass all downlink formats
	DF1117OnlyOn  Dipswitch = 'D' // pass only DF11 and DF17

	TimestampInfoOff Dipswitch = 'e'
	TimestampInfoOn  Dipswitch = 'E'

	CRCCheckOn  Dipswitch = 'f'
	CRCCheckOff Dipswitch = 'F'

	GPSTimestampOff Dipswitch = 'g'
	GPSTimestampOn  Dipswitch = 'G'

	RTSHandshakeOff Dipswitch = 'h'
	RTSHandshakeOn  Dipswitch = 'H'

	FECOn  Dipswitch = 'i'
	FECOff Dipswitch = 'I'

	ModeACOff Dipswitch = 'j'
	ModeACOn  Dipswitch = 'J'
)

// DipswitchStatus is the raw status byte reported by a dipswitch-status
// frame. The bit assignment is firmware-specific, so it is kept opaque.
type DipswitchStatus byte

func (s DipswitchStatus) String() string { return fmt.Sprintf("%08b", byte(s)) }
