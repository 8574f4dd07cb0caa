package modes

import "fmt"

// FlightStatus is the 3-bit FS field of surveillance replies.
type FlightStatus uint8

const (
	FlightStatusAirborne      FlightStatus = 0
	FlightStatusGround        FlightStatus = 1
	FlightStatusAlertAirborne FlightStatus = 2
	FlightStatusAlertGround   FlightStatus = 3
	FlightStatusAlertSPI      FlightStatus = 4
	FlightStatusSPI           FlightStatus = 5
	FlightStatusReserved6     FlightStatus = 6
	FlightStatusNotAssigned   FlightStatus = 7
)

// Alert reports whether the transponder signals an alert condition.
func (s FlightStatus) Alert() bool {
	return s == FlightStatusAlertAirborne || s == FlightStatusAlertGround || s == FlightStatusAlertSPI
}

// SPI reports whether the special position identification pulse is set.
func (s FlightStatus) SPI() bool {
	return s == FlightStatusAlertSPI || s == FlightStatusSPI
}

// OnGround reports whether the aircraft declares itself on the ground.
// Status codes 4 and 5 leave this open and report false here.
func (s FlightStatus) OnGround() bool {
	return s == FlightStatusGround || s == FlightStatusAlertGround
}

// Airborne reports whether the aircraft declares itself airborne. Status
// codes 4 and 5 leave this open and report false here.
func (s FlightStatus) Airborne() bool {
	return s == FlightStatusAirborne || s == FlightStatusAlertAirborne
}

func (s FlightStatus) String() string {
	switch s {
	case FlightStatusAirborne:
		return "airborne"
	case FlightStatusGround:
		return "ground"
	case FlightStatusAlertAirborne:
		return "alert airborne"
	case FlightStatusAlertGround:
		return "alert ground"
	case FlightStatusAlertSPI:
		return "alert spi"
	case FlightStatusSPI:
		return "spi"
	}
	return fmt.Sprintf("fs(%d)", uint8(s))
}

// DownlinkRequest is the 5-bit DR field of surveillance replies.
type DownlinkRequest uint8

const (
	DownlinkRequestNone            DownlinkRequest = 0
	DownlinkRequestSendCommB       DownlinkRequest = 1
	DownlinkRequestCommBBroadcast1 DownlinkRequest = 4
	DownlinkRequestCommBBroadcast2 DownlinkRequest = 5
)

// UtilityMessage is the 6-bit UM field: a 4-bit interrogator identifier
// subfield and a 2-bit reservation type.
type UtilityMessage uint8

// InterrogatorIdentifier returns the IIS subfield.
func (m UtilityMessage) InterrogatorIdentifier() uint8 { return uint8(m) & 0x0F }

// ReservationType returns which Comm protocol the IIS reservation is for.
func (m UtilityMessage) ReservationType() uint8 { return uint8(m) >> 4 }

// VerticalStatus is the VS bit of air-air surveillance frames.
type VerticalStatus uint8

const (
	VerticalStatusAirborne VerticalStatus = 0
	VerticalStatusGround   VerticalStatus = 1
)

func (v VerticalStatus) String() string {
	if v == VerticalStatusGround {
		return "ground"
	}
	return "airborne"
}

// SensitivityLevel is the 2-bit SL field of air-air surveillance frames.
// Zero reports ACAS inoperative.
type SensitivityLevel uint8

// ReplyInformation is the 4-bit RI field of air-air surveillance frames.
type ReplyInformation uint8

// CprFormat is the parity of a compact position report.
type CprFormat uint8

const (
	CprEven CprFormat = 0
	CprOdd  CprFormat = 1
)

func (f CprFormat) String() string {
	if f == CprOdd {
		return "odd"
	}
	return "even"
}

// CPR is an unresolved compact position report: a format parity and two
// 17-bit coordinate fractions. Resolving a pair of even and odd reports
// into latitude and longitude is the consumer's job.
type CPR struct {
	Format    CprFormat
	Latitude  uint32
	Longitude uint32
}

// DecodeSurveillanceReply unpacks the body shared by altitude and identity
// surveillance replies. bits678 are the low 3 bits of the frame's first
// byte, b the three bytes after it. The returned 13-bit word is the AC or
// ID field, depending on the downlink format.
//
//	bits678  b[0]      b[1]      b[2]
//	.....fff ddddduuu  uuuccccc  cccccccc
func DecodeSurveillanceReply(bits678 uint8, b [3]byte) (FlightStatus, DownlinkRequest, UtilityMessage, uint16) {
	fs := FlightStatus(bits678)
	dr := DownlinkRequest(b[0] >> 3)
	um := UtilityMessage((b[0]&0b111)<<3 | b[1]>>5)
	return fs, dr, um, FrameAlignedCode13(b[1], b[2])
}

// DecodeAirAirSurveillance unpacks the body shared by short and long
// air-air surveillance frames.
//
//	bits678  b[0]      b[1]      b[2]
//	.....vxx ssxxrrr.  rxxccccc  cccccccc
func DecodeAirAirSurveillance(bits678 uint8, b [3]byte) (VerticalStatus, SensitivityLevel, ReplyInformation, AltitudeCode) {
	vs := VerticalStatusAirborne
	if bits678&0b100 != 0 {
		vs = VerticalStatusGround
	}
	sl := SensitivityLevel(b[0] >> 6)
	ri := ReplyInformation((b[0]&0b111)<<1 | b[1]>>7)
	return vs, sl, ri, AltitudeCode(FrameAlignedCode13(b[1], b[2]))
}

// FrameAlignedCode13 extracts the 13-bit altitude or identity word that sits
// byte-aligned in surveillance frames: the low 5 bits of hi followed by all
// of lo.
func FrameAlignedCode13(hi, lo byte) uint16 {
	return uint16(hi&0x1F)<<8 | uint16(lo)
}

// DecodeCPR extracts a compact position report from 5 consecutive bytes,
// with the report starting 6 bits into the first.
//
//	b[0]      b[1]      b[2]      b[3]      b[4]
//	.....faa  aaaaaaaa  aaaaaaab  bbbbbbbb  bbbbbbbb
func DecodeCPR(b [5]byte) CPR {
	format := CprEven
	if b[0]&0b100 != 0 {
		format = CprOdd
	}
	return CPR{
		Format:    format,
		Latitude:  uint32(b[0]&0b11)<<15 | uint32(b[1])<<7 | uint32(b[2])>>1,
		Longitude: uint32(b[2]&0b1)<<16 | uint32(b[3])<<8 | uint32(b[4]),
	}
}
