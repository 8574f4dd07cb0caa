package modes

import "fmt"

// Message is one decoded extended squitter payload. Callers type switch on
// the concrete type.
type Message interface {
	isMessage()
}

// AircraftCategory identifies the emitter class of an identification
// message: a class letter derived from the type code and a category digit.
type AircraftCategory struct {
	TypeCode uint8
	Category uint8
}

// Class returns the category set letter, A through D.
func (c AircraftCategory) Class() byte {
	switch c.TypeCode {
	case 4:
		return 'A'
	case 3:
		return 'B'
	case 2:
		return 'C'
	}
	return 'D'
}

func (c AircraftCategory) String() string {
	return fmt.Sprintf("%c%d", c.Class(), c.Category)
}

// Identification is a type code 1 through 4 message carrying the callsign
// and emitter category.
type Identification struct {
	Category AircraftCategory
	Callsign EncodedCallsign
}

func (Identification) isMessage() {}

// Movement is the 7-bit encoded ground speed of a surface position message.
// The encoding is piecewise linear, finer at taxi speeds.
type Movement uint8

// EighthKnots returns the ground speed in 1/8 kt units. ok is false when
// the field reports no data or a reserved code. Code 124 saturates at
// 175 kt.
func (m Movement) EighthKnots() (uint16, bool) {
	n := uint16(m)
	switch {
	case n == 0:
		return 0, false
	case n == 1:
		return 0, true
	case n <= 8:
		return n - 1, true
	case n <= 12:
		return 8 + (n-9)*2, true
	case n <= 38:
		return 16 + (n-13)*4, true
	case n <= 93:
		return 120 + (n-39)*8, true
	case n <= 108:
		return 560 + (n-94)*16, true
	case n <= 123:
		return 800 + (n-109)*40, true
	case n == 124:
		return 1400, true
	}
	return 0, false
}

// Knots returns the ground speed in knots.
func (m Movement) Knots() (float64, bool) {
	v, ok := m.EighthKnots()
	return float64(v) * 0.125, ok
}

// GroundTrack is the 7-bit encoded track of a surface position message, in
// 360/128 degree steps clockwise from north.
type GroundTrack uint8

// Degrees returns the track angle.
func (t GroundTrack) Degrees() float64 {
	return float64(t) * 360 / 128
}

// SurfacePosition is a type code 5 through 8 message.
type SurfacePosition struct {
	Movement   Movement
	Track      GroundTrack
	TrackValid bool
	Time       bool
	Position   CPR
}

func (SurfacePosition) isMessage() {}

// SurveillanceStatus is the 2-bit condition field of an airborne position
// message.
type SurveillanceStatus uint8

const (
	SurveillanceStatusNoCondition    SurveillanceStatus = 0
	SurveillanceStatusPermanentAlert SurveillanceStatus = 1
	SurveillanceStatusTemporaryAlert SurveillanceStatus = 2
	SurveillanceStatusSPI            SurveillanceStatus = 3
)

func (s SurveillanceStatus) String() string {
	switch s {
	case SurveillanceStatusNoCondition:
		return "none"
	case SurveillanceStatusPermanentAlert:
		return "permanent alert"
	case SurveillanceStatusTemporaryAlert:
		return "temporary alert"
	case SurveillanceStatusSPI:
		return "spi"
	}
	return fmt.Sprintf("ss(%d)", uint8(s))
}

// AltitudeSource names which sensor an airborne position altitude comes
// from.
type AltitudeSource uint8

const (
	SourceBarometric AltitudeSource = 0
	SourceGNSS       AltitudeSource = 1
)

func (s AltitudeSource) String() string {
	if s == SourceGNSS {
		return "gnss"
	}
	return "barometric"
}

// AirbornePosition is a type code 0, 9 through 18 or 20 through 22 message.
// Position is nil for type code 0, which carries no location. Type codes
// 20 through 22 report GNSS height instead of barometric altitude.
type AirbornePosition struct {
	Source        AltitudeSource
	Status        SurveillanceStatus
	SingleAntenna bool
	AltitudeCode  AltitudeCode12
	Time          bool
	Position      *CPR
}

func (AirbornePosition) isMessage() {}

// Altitude resolves the embedded altitude code. ok is false when the field
// is empty.
func (m AirbornePosition) Altitude() (Altitude, bool) {
	return m.AltitudeCode.Decode()
}

// EmergencyPriorityStatus is the 3-bit emergency state of an aircraft
// status message.
type EmergencyPriorityStatus uint8

const (
	EmergencyNone                 EmergencyPriorityStatus = 0
	EmergencyGeneral              EmergencyPriorityStatus = 1
	EmergencyLifeguard            EmergencyPriorityStatus = 2
	EmergencyMinimumFuel          EmergencyPriorityStatus = 3
	EmergencyNoCommunications     EmergencyPriorityStatus = 4
	EmergencyUnlawfulInterference EmergencyPriorityStatus = 5
	EmergencyDownedAircraft       EmergencyPriorityStatus = 6
)

func (e EmergencyPriorityStatus) String() string {
	switch e {
	case EmergencyNone:
		return "none"
	case EmergencyGeneral:
		return "general emergency"
	case EmergencyLifeguard:
		return "lifeguard"
	case EmergencyMinimumFuel:
		return "minimum fuel"
	case EmergencyNoCommunications:
		return "no communications"
	case EmergencyUnlawfulInterference:
		return "unlawful interference"
	case EmergencyDownedAircraft:
		return "downed aircraft"
	}
	return fmt.Sprintf("emergency(%d)", uint8(e))
}

// EmergencyForSquawk maps the reserved transponder codes to their emergency
// state. ok is false for ordinary codes.
func EmergencyForSquawk(s Squawk) (EmergencyPriorityStatus, bool) {
	switch s {
	case SquawkHijack:
		return EmergencyUnlawfulInterference, true
	case SquawkRadioFailure:
		return EmergencyNoCommunications, true
	case SquawkEmergency:
		return EmergencyGeneral, true
	}
	return EmergencyNone, false
}

// EmergencyStatus is a type code 28 subtype 1 message carrying the
// emergency state and the transponder code.
type EmergencyStatus struct {
	Status EmergencyPriorityStatus
	Squawk Squawk
}

func (EmergencyStatus) isMessage() {}

// Undecoded is any message this package does not take apart, kept with its
// type code, subtype and raw field bytes.
type Undecoded struct {
	TypeCode uint8
	SubType  uint8
	Data     [6]byte
}

func (Undecoded) isMessage() {}

// DecodeMessage decodes a 56-bit extended squitter message field. Messages
// outside the identification, position and emergency status set come back
// as Undecoded.
func DecodeMessage(me [7]byte) Message {
	tc := me[0] >> 3
	st := me[0] & 0b111
	switch {
	case tc >= 1 && tc <= 4:
		return decodeIdentification(tc, st, me)
	case tc >= 5 && tc <= 8:
		return decodeSurfacePosition(me)
	case tc == 0 || (tc >= 9 && tc <= 18) || (tc >= 20 && tc <= 22):
		return decodeAirbornePosition(tc, st, me)
	case tc == 28 && st == 1:
		return decodeEmergencyStatus(me)
	}
	var data [6]byte
	copy(data[:], me[1:])
	return Undecoded{TypeCode: tc, SubType: st, Data: data}
}

func decodeIdentification(tc, st uint8, me [7]byte) Identification {
	var callsign EncodedCallsign
	copy(callsign[:], me[1:])
	return Identification{
		Category: AircraftCategory{TypeCode: tc, Category: st},
		Callsign: callsign,
	}
}

// Surface position layout:
//
//	me[0]     me[1]     me[2]
//	tttttmmm  mmmmsrrr  rrrrtfaa  then 32 more position bits
func decodeSurfacePosition(me [7]byte) SurfacePosition {
	return SurfacePosition{
		Movement:   Movement((me[0]&0b111)<<4 | me[1]>>4),
		TrackValid: me[1]&0x08 != 0,
		Track:      GroundTrack((me[1]&0b111)<<4 | me[2]>>4),
		Time:       me[2]&0x08 != 0,
		Position:   DecodeCPR([5]byte{me[2], me[3], me[4], me[5], me[6]}),
	}
}

// Airborne position layout:
//
//	me[0]     me[1]     me[2]
//	tttttssa  cccccccc  cccctfaa  then 32 more position bits
func decodeAirbornePosition(tc, st uint8, me [7]byte) AirbornePosition {
	source := SourceBarometric
	if tc >= 20 {
		source = SourceGNSS
	}
	msg := AirbornePosition{
		Source:        source,
		Status:        SurveillanceStatus(st >> 1),
		SingleAntenna: st&0b1 != 0,
		AltitudeCode:  AltitudeCode12(uint16(me[1])<<4 | uint16(me[2])>>4),
		Time:          me[2]&0x08 != 0,
	}
	if tc != 0 {
		cpr := DecodeCPR([5]byte{me[2], me[3], me[4], me[5], me[6]})
		msg.Position = &cpr
	}
	return msg
}

func decodeEmergencyStatus(me [7]byte) EmergencyStatus {
	code := IdentityCode(FrameAlignedCode13(me[1], me[2]))
	return EmergencyStatus{
		Status: EmergencyPriorityStatus(me[1] >> 5),
		Squawk: code.Squawk(),
	}
}
