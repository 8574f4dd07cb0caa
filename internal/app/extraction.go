package app

import (
	"time"

	"github.com/saviobatista/go-beast/internal/beast"
	"github.com/saviobatista/go-beast/internal/modeac"
	"github.com/saviobatista/go-beast/internal/modes"
	"github.com/saviobatista/go-beast/internal/natspub"
)

// rawEnvelope builds the wire envelope for a frame as it came in.
func rawEnvelope(frame *beast.RawFrame) natspub.RawFrame {
	return natspub.RawFrame{
		Time:      time.Now().UTC(),
		Type:      frame.Type.String(),
		Timestamp: frame.Timestamp.Ticks(),
		Synthetic: frame.Timestamp.IsSynthetic(),
		Signal:    frame.Signal.Power(),
		Payload:   frame.Payload,
	}
}

// replyMode names the guessed Mode A/C variant
func replyMode(reply modeac.Reply) string {
	if _, ok := reply.(modeac.ModeC); ok {
		return "C"
	}
	return "A"
}

// modeACEnvelope builds the envelope for a decoded Mode A/C reply.
func modeACEnvelope(frame *beast.RawFrame, reply modeac.Reply) natspub.ModeACReply {
	env := natspub.ModeACReply{
		Time: time.Now().UTC(),
		Mode: replyMode(reply),
		Word: frame.ModeACWord(),
	}
	if a, ok := reply.(modeac.ModeA); ok {
		env.Squawk = a.Squawk.String()
		env.Ident = a.Ident
	}
	return env
}

// modeSEnvelope builds the envelope for a decoded Mode S frame, pulling up
// the fields consumers filter on. Anything the frame does not carry stays
// empty.
func modeSEnvelope(frame *beast.RawFrame, decoded modes.Frame) natspub.ModeSFrame {
	env := natspub.ModeSFrame{
		Time:      time.Now().UTC(),
		Timestamp: frame.Timestamp.Ticks(),
		Signal:    frame.Signal.Power(),
		DF:        uint8(decoded.DF()),
		Raw:       frame.Payload,
	}

	switch f := decoded.(type) {
	case modes.ShortAirAirSurveillance:
		applyAltitudeCode(&env, f.AltitudeCode)
		applyVerticalStatus(&env, f.VerticalStatus)
	case modes.LongAirAirSurveillance:
		applyAltitudeCode(&env, f.AltitudeCode)
		applyVerticalStatus(&env, f.VerticalStatus)
	case modes.SurveillanceAltitudeReply:
		applyAltitudeCode(&env, f.AltitudeCode)
		applyFlightStatus(&env, f.FlightStatus)
	case modes.SurveillanceIdentityReply:
		env.Squawk = f.IdentityCode.Squawk().String()
		applyFlightStatus(&env, f.FlightStatus)
	case modes.AllCallReply:
		env.ICAO = f.Address.String()
	case modes.ExtendedSquitter:
		env.ICAO = f.Address.String()
		applyMessage(&env, f.Message)
	case modes.ExtendedSquitterNonTransponder:
		if f.Address != 0 {
			env.ICAO = f.Address.String()
		}
		applyMessage(&env, f.Message)
	case modes.CommBAltitudeReply:
		applyAltitudeCode(&env, f.AltitudeCode)
		applyFlightStatus(&env, f.FlightStatus)
	case modes.CommBIdentityReply:
		env.Squawk = f.IdentityCode.Squawk().String()
		applyFlightStatus(&env, f.FlightStatus)
	}

	return env
}

// applyMessage copies the decoded extended squitter fields into the envelope.
func applyMessage(env *natspub.ModeSFrame, msg modes.Message) {
	switch m := msg.(type) {
	case modes.Identification:
		env.Callsign = m.Callsign.DecodePermissive().String()
		env.Category = m.Category.String()

	case modes.SurfacePosition:
		ground := true
		env.OnGround = &ground
		env.Position = &natspub.Position{
			Surface:   true,
			Odd:       m.Position.Format == modes.CprOdd,
			Latitude:  m.Position.Latitude,
			Longitude: m.Position.Longitude,
		}

	case modes.AirbornePosition:
		if alt, ok := m.Altitude(); ok {
			env.Altitude = &alt.Value
			env.AltitudeUnit = alt.Unit.String()
		}
		if m.Position != nil {
			env.Position = &natspub.Position{
				Odd:       m.Position.Format == modes.CprOdd,
				Latitude:  m.Position.Latitude,
				Longitude: m.Position.Longitude,
			}
		}

	case modes.EmergencyStatus:
		if m.Status != modes.EmergencyNone {
			env.Emergency = m.Status.String()
		}
		env.Squawk = m.Squawk.String()
	}
}

func applyAltitudeCode(env *natspub.ModeSFrame, code modes.AltitudeCode) {
	if alt, ok := code.Decode(); ok {
		env.Altitude = &alt.Value
		env.AltitudeUnit = alt.Unit.String()
	}
}

func applyFlightStatus(env *natspub.ModeSFrame, fs modes.FlightStatus) {
	if fs.OnGround() || fs.Airborne() {
		ground := fs.OnGround()
		env.OnGround = &ground
	}
	env.Alert = fs.Alert()
	env.SPI = fs.SPI()
}

func applyVerticalStatus(env *natspub.ModeSFrame, vs modes.VerticalStatus) {
	ground := vs == modes.VerticalStatusGround
	env.OnGround = &ground
}
