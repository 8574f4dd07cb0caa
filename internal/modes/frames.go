// Package modes decodes Mode S downlink frames: the surveillance and
// extended squitter formats a BEAST receiver forwards, taken apart into
// their raw fields. Position reports stay compact (unresolved CPR halves)
// and parity bytes are carried but not checked.
package modes

import "fmt"

// Mode S frames come in exactly two wire lengths.
const (
	LengthShort = 7
	LengthLong  = 14
)

// DownlinkFormat is the 5-bit format number in the first byte of every
// frame. Formats 24 through 31 are all Comm-D, selected by the top two
// bits alone.
type DownlinkFormat uint8

const (
	DFShortAirAir                    DownlinkFormat = 0
	DFSurveillanceAltitude           DownlinkFormat = 4
	DFSurveillanceIdentity           DownlinkFormat = 5
	DFAllCall                        DownlinkFormat = 11
	DFLongAirAir                     DownlinkFormat = 16
	DFExtendedSquitter               DownlinkFormat = 17
	DFExtendedSquitterNonTransponder DownlinkFormat = 18
	DFMilitaryExtendedSquitter       DownlinkFormat = 19
	DFCommBAltitude                  DownlinkFormat = 20
	DFCommBIdentity                  DownlinkFormat = 21
	DFCommD                          DownlinkFormat = 24
)

// FrameLength returns the wire length of the format in bytes, or 0 when
// the format is unassigned.
func (d DownlinkFormat) FrameLength() int {
	switch d {
	case DFShortAirAir, DFSurveillanceAltitude, DFSurveillanceIdentity, DFAllCall:
		return LengthShort
	case DFLongAirAir, DFExtendedSquitter, DFExtendedSquitterNonTransponder,
		DFMilitaryExtendedSquitter, DFCommBAltitude, DFCommBIdentity:
		return LengthLong
	}
	if d >= DFCommD {
		return LengthLong
	}
	return 0
}

func (d DownlinkFormat) String() string {
	return fmt.Sprintf("DF%d", uint8(d))
}

// Capability is the 3-bit CA field of all-call replies and extended
// squitters.
type Capability uint8

const (
	CapabilityLevel1         Capability = 0
	CapabilityLevel2Ground   Capability = 4
	CapabilityLevel2Airborne Capability = 5
	CapabilityLevel2         Capability = 6
	// CapabilityAlert reports a pending downlink request or an alert or SPI
	// flight status.
	CapabilityAlert Capability = 7
)

// CodeFormat is the 3-bit CF field of non-transponder extended squitters,
// selecting how the frame and its address are to be read.
type CodeFormat uint8

const (
	CodeFormatADSB            CodeFormat = 0
	CodeFormatADSBNonIcao     CodeFormat = 1
	CodeFormatTISBFine        CodeFormat = 2
	CodeFormatTISBCoarse      CodeFormat = 3
	CodeFormatTISBManagement  CodeFormat = 4
	CodeFormatTISBRelay       CodeFormat = 5
	CodeFormatADSBRebroadcast CodeFormat = 6
	CodeFormatReserved        CodeFormat = 7
)

// Frame is one decoded Mode S frame. The concrete type is selected by the
// downlink format.
type Frame interface {
	DF() DownlinkFormat
}

// ShortAirAirSurveillance is a DF0 ACAS reply.
type ShortAirAirSurveillance struct {
	VerticalStatus   VerticalStatus
	SensitivityLevel SensitivityLevel
	ReplyInformation ReplyInformation
	AltitudeCode     AltitudeCode
	Parity           [3]byte
}

func (ShortAirAirSurveillance) DF() DownlinkFormat { return DFShortAirAir }

// LongAirAirSurveillance is a DF16 ACAS reply carrying a resolution
// advisory message.
type LongAirAirSurveillance struct {
	VerticalStatus   VerticalStatus
	SensitivityLevel SensitivityLevel
	ReplyInformation ReplyInformation
	AltitudeCode     AltitudeCode
	Message          [7]byte
	Parity           [3]byte
}

func (LongAirAirSurveillance) DF() DownlinkFormat { return DFLongAirAir }

// SurveillanceAltitudeReply is a DF4 roll-call reply.
type SurveillanceAltitudeReply struct {
	FlightStatus    FlightStatus
	DownlinkRequest DownlinkRequest
	UtilityMessage  UtilityMessage
	AltitudeCode    AltitudeCode
	Parity          [3]byte
}

func (SurveillanceAltitudeReply) DF() DownlinkFormat { return DFSurveillanceAltitude }

// SurveillanceIdentityReply is a DF5 roll-call reply.
type SurveillanceIdentityReply struct {
	FlightStatus    FlightStatus
	DownlinkRequest DownlinkRequest
	UtilityMessage  UtilityMessage
	IdentityCode    IdentityCode
	Parity          [3]byte
}

func (SurveillanceIdentityReply) DF() DownlinkFormat { return DFSurveillanceIdentity }

// AllCallReply is a DF11 acquisition squitter or all-call reply. Parity is
// overlaid with the interrogator identifier.
type AllCallReply struct {
	Capability Capability
	Address    IcaoAddress
	Parity     [3]byte
}

func (AllCallReply) DF() DownlinkFormat { return DFAllCall }

// ExtendedSquitter is a DF17 ADS-B broadcast from a transponder.
type ExtendedSquitter struct {
	Capability Capability
	Address    IcaoAddress
	Message    Message
	Parity     [3]byte
}

func (ExtendedSquitter) DF() DownlinkFormat { return DFExtendedSquitter }

// ExtendedSquitterNonTransponder is a DF18 broadcast from a non-transponder
// source: ADS-B from uncertified emitters, TIS-B relays or rebroadcasts.
// Message is decoded for the two direct ADS-B code formats and nil
// otherwise; ME always keeps the raw message field. Address is zero for
// the management and reserved code formats, whose address bytes are not an
// aircraft address.
type ExtendedSquitterNonTransponder struct {
	CodeFormat CodeFormat
	Address    IcaoAddress
	Message    Message
	ME         [7]byte
	Parity     [3]byte
}

func (ExtendedSquitterNonTransponder) DF() DownlinkFormat {
	return DFExtendedSquitterNonTransponder
}

// MilitaryExtendedSquitter is a DF19 broadcast. Only the application field
// is taken apart; the payload formats are not public.
type MilitaryExtendedSquitter struct {
	ApplicationField uint8
	Data             [13]byte
}

func (MilitaryExtendedSquitter) DF() DownlinkFormat { return DFMilitaryExtendedSquitter }

// CommBAltitudeReply is a DF20 reply carrying a Comm-B message segment.
type CommBAltitudeReply struct {
	FlightStatus    FlightStatus
	DownlinkRequest DownlinkRequest
	UtilityMessage  UtilityMessage
	AltitudeCode    AltitudeCode
	Message         [7]byte
	Parity          [3]byte
}

func (CommBAltitudeReply) DF() DownlinkFormat { return DFCommBAltitude }

// CommBIdentityReply is a DF21 reply carrying a Comm-B message segment.
type CommBIdentityReply struct {
	FlightStatus    FlightStatus
	DownlinkRequest DownlinkRequest
	UtilityMessage  UtilityMessage
	IdentityCode    IdentityCode
	Message         [7]byte
	Parity          [3]byte
}

func (CommBIdentityReply) DF() DownlinkFormat { return DFCommBIdentity }

// CommD is an extended length message segment. All formats 24 through 31
// land here; the bits after the top two carry the ELM control fields.
type CommD struct {
	// Acknowledgement is the KE bit: set for uplink ELM acknowledgements,
	// clear for downlink segments.
	Acknowledgement bool
	Segment         uint8
	Data            [10]byte
	Parity          [3]byte
}

func (CommD) DF() DownlinkFormat { return DFCommD }

// UnknownFrame is a frame with an unassigned downlink format, kept raw.
type UnknownFrame struct {
	Format DownlinkFormat
	Raw    []byte
}

func (f UnknownFrame) DF() DownlinkFormat { return f.Format }

// DecodeFrame decodes one Mode S frame from its 7 or 14 byte payload.
// Unassigned downlink formats come back as UnknownFrame; the only errors
// are payload lengths that contradict the format.
func DecodeFrame(payload []byte) (Frame, error) {
	if len(payload) != LengthShort && len(payload) != LengthLong {
		return nil, fmt.Errorf("frame length %d: want %d or %d bytes", len(payload), LengthShort, LengthLong)
	}
	df := DownlinkFormat(payload[0] >> 3)
	if df >= DFCommD {
		if len(payload) != LengthLong {
			return nil, fmt.Errorf("%s frame length %d: want %d bytes", df, len(payload), LengthLong)
		}
		return decodeCommD(payload), nil
	}
	if want := df.FrameLength(); want != 0 && want != len(payload) {
		return nil, fmt.Errorf("%s frame length %d: want %d bytes", df, len(payload), want)
	}

	bits678 := payload[0] & 0b111
	var body [3]byte
	copy(body[:], payload[1:4])
	parity := parity3(payload)

	switch df {
	case DFShortAirAir:
		vs, sl, ri, ac := DecodeAirAirSurveillance(bits678, body)
		return ShortAirAirSurveillance{
			VerticalStatus:   vs,
			SensitivityLevel: sl,
			ReplyInformation: ri,
			AltitudeCode:     ac,
			Parity:           parity,
		}, nil
	case DFLongAirAir:
		vs, sl, ri, ac := DecodeAirAirSurveillance(bits678, body)
		return LongAirAirSurveillance{
			VerticalStatus:   vs,
			SensitivityLevel: sl,
			ReplyInformation: ri,
			AltitudeCode:     ac,
			Message:          message7(payload),
			Parity:           parity,
		}, nil
	case DFSurveillanceAltitude:
		fs, dr, um, code := DecodeSurveillanceReply(bits678, body)
		return SurveillanceAltitudeReply{
			FlightStatus:    fs,
			DownlinkRequest: dr,
			UtilityMessage:  um,
			AltitudeCode:    AltitudeCode(code),
			Parity:          parity,
		}, nil
	case DFSurveillanceIdentity:
		fs, dr, um, code := DecodeSurveillanceReply(bits678, body)
		return SurveillanceIdentityReply{
			FlightStatus:    fs,
			DownlinkRequest: dr,
			UtilityMessage:  um,
			IdentityCode:    IdentityCode(code),
			Parity:          parity,
		}, nil
	case DFAllCall:
		return AllCallReply{
			Capability: Capability(bits678),
			Address:    AddressFromBytes(body),
			Parity:     parity,
		}, nil
	case DFExtendedSquitter:
		return ExtendedSquitter{
			Capability: Capability(bits678),
			Address:    AddressFromBytes(body),
			Message:    DecodeMessage(message7(payload)),
			Parity:     parity,
		}, nil
	case DFExtendedSquitterNonTransponder:
		return decodeNonTransponder(CodeFormat(bits678), body, payload), nil
	case DFMilitaryExtendedSquitter:
		var data [13]byte
		copy(data[:], payload[1:])
		return MilitaryExtendedSquitter{
			ApplicationField: bits678,
			Data:             data,
		}, nil
	case DFCommBAltitude:
		fs, dr, um, code := DecodeSurveillanceReply(bits678, body)
		return CommBAltitudeReply{
			FlightStatus:    fs,
			DownlinkRequest: dr,
			UtilityMessage:  um,
			AltitudeCode:    AltitudeCode(code),
			Message:         message7(payload),
			Parity:          parity,
		}, nil
	case DFCommBIdentity:
		fs, dr, um, code := DecodeSurveillanceReply(bits678, body)
		return CommBIdentityReply{
			FlightStatus:    fs,
			DownlinkRequest: dr,
			UtilityMessage:  um,
			IdentityCode:    IdentityCode(code),
			Message:         message7(payload),
			Parity:          parity,
		}, nil
	}

	raw := make([]byte, len(payload))
	copy(raw, payload)
	return UnknownFrame{Format: df, Raw: raw}, nil
}

func decodeNonTransponder(cf CodeFormat, body [3]byte, payload []byte) ExtendedSquitterNonTransponder {
	frame := ExtendedSquitterNonTransponder{
		CodeFormat: cf,
		ME:         message7(payload),
		Parity:     parity3(payload),
	}
	switch cf {
	case CodeFormatADSB:
		frame.Address = AddressFromBytes(body)
		frame.Message = DecodeMessage(frame.ME)
	case CodeFormatADSBNonIcao:
		frame.Address = AddressFromBytes(body).WithNonIcaoFlag()
		frame.Message = DecodeMessage(frame.ME)
	case CodeFormatTISBFine, CodeFormatTISBCoarse, CodeFormatADSBRebroadcast:
		frame.Address = AddressFromBytes(body)
	case CodeFormatTISBRelay:
		frame.Address = AddressFromBytes(body).WithNonIcaoFlag()
	}
	return frame
}

func decodeCommD(payload []byte) CommD {
	frame := CommD{
		Acknowledgement: payload[0]&0x10 != 0,
		Segment:         payload[0] & 0x0F,
		Parity:          parity3(payload),
	}
	copy(frame.Data[:], payload[1:11])
	return frame
}

// message7 copies the 7-byte ME or MV field of a long frame.
func message7(payload []byte) [7]byte {
	var m [7]byte
	copy(m[:], payload[4:11])
	return m
}

func parity3(payload []byte) [3]byte {
	var p [3]byte
	copy(p[:], payload[len(payload)-3:])
	return p
}
