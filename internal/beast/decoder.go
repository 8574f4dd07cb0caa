package beast

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrTruncated reports that the input ended while a frame was still being
// assembled. A clean end of input between frames is io.EOF.
var ErrTruncated = errors.New("stream truncated mid-frame")

// DesyncReason classifies the recoverable framing faults a Decoder can hit.
type DesyncReason int

const (
	// DesyncLoneEscape is an escape inside a frame body that was not
	// followed by a second escape. The partial frame is discarded and the
	// byte after the escape is read as the type of a new frame.
	DesyncLoneEscape DesyncReason = iota

	// DesyncUnknownType is an escape followed by a tag outside the output
	// registry. The decoder scans forward for the next escape.
	DesyncUnknownType

	// DesyncRepeatedEscape is an escape where a type byte was expected.
	// The second escape is taken as a fresh frame start.
	DesyncRepeatedEscape
)

func (r DesyncReason) String() string {
	switch r {
	case DesyncLoneEscape:
		return "lone escape"
	case DesyncUnknownType:
		return "unknown type"
	case DesyncRepeatedEscape:
		return "repeated escape"
	}
	return fmt.Sprintf("desync(%d)", int(r))
}

// Stats counts decoder activity since construction.
type Stats struct {
	Frames       uint64 // complete frames emitted
	Desyncs      uint64 // framing faults recovered from
	GarbageBytes uint64 // bytes skipped while scanning for an escape
}

const (
	readBufferSize = 512 // transport read chunk
	bodyBufferSize = 32  // largest frame body is 21 bytes
)

type decodeState int

const (
	stateSync decodeState = iota // scanning for a frame escape
	stateType                    // escape read, type byte pending
	stateBody                    // collecting body bytes
)

// Decoder extracts frames from a raw byte stream. It reads incrementally
// and keeps partial state between calls, so frame boundaries never have to
// line up with transport chunk boundaries. Not safe for concurrent use.
type Decoder struct {
	r      io.Reader
	logger *logrus.Logger

	// OnDesync, when set, is called for every recoverable framing fault
	// with the tag byte involved.
	OnDesync func(reason DesyncReason, tag byte)

	buf        []byte
	rpos, wpos int
	emptyReads int
	readErr    error

	state         decodeState
	frameType     OutputPacketType
	body          []byte
	want          int
	pendingEscape bool

	stats Stats
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, logger *logrus.Logger) *Decoder {
	return &Decoder{
		r:      r,
		logger: logger,
		buf:    make([]byte, readBufferSize),
		body:   make([]byte, 0, bodyBufferSize),
	}
}

// Stats returns a snapshot of the decoder counters.
func (d *Decoder) Stats() Stats { return d.stats }

// Next returns the next complete frame. It returns io.EOF on a clean end of
// input, ErrTruncated when the input ends inside a frame, and the underlying
// transport error for anything else. Framing faults caused by corrupt input
// are not errors; the decoder resynchronizes and keeps going.
func (d *Decoder) Next() (*RawFrame, error) {
	for {
		for d.rpos < d.wpos {
			b := d.buf[d.rpos]
			d.rpos++
			if f := d.feed(b); f != nil {
				return f, nil
			}
		}
		if d.readErr != nil {
			if d.readErr == io.EOF {
				if d.state != stateSync {
					d.resetFrame()
					return nil, ErrTruncated
				}
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read: %w", d.readErr)
		}
		n, err := d.r.Read(d.buf)
		d.rpos, d.wpos = 0, n
		if err != nil {
			d.readErr = err
		} else if n == 0 {
			if d.emptyReads++; d.emptyReads >= 100 {
				d.readErr = io.ErrNoProgress
			}
		} else {
			d.emptyReads = 0
		}
	}
}

// feed advances the state machine by one byte and returns a frame when one
// completes.
func (d *Decoder) feed(b byte) *RawFrame {
	switch d.state {
	case stateSync:
		if b == Escape {
			d.state = stateType
		} else {
			d.stats.GarbageBytes++
		}
	case stateType:
		if b == Escape {
			// An escaped escape where a type byte belongs. Treat the
			// second escape as a fresh frame start and wait for its type.
			d.desync(DesyncRepeatedEscape, b)
			return nil
		}
		d.beginFrame(b)
	case stateBody:
		if d.pendingEscape {
			d.pendingEscape = false
			if b == Escape {
				return d.push(Escape)
			}
			// A lone escape. The frame in progress is dead and b is the
			// type byte of the frame that interrupted it.
			d.desync(DesyncLoneEscape, d.frameType.Tag())
			d.beginFrame(b)
			return nil
		}
		if b == Escape {
			d.pendingEscape = true
			return nil
		}
		return d.push(b)
	}
	return nil
}

func (d *Decoder) beginFrame(tag byte) {
	t := OutputPacketType(tag)
	n, ok := t.bodyLen()
	if !ok {
		d.desync(DesyncUnknownType, tag)
		d.state = stateSync
		return
	}
	d.frameType = t
	d.want = n
	d.body = d.body[:0]
	d.pendingEscape = false
	d.state = stateBody
}

func (d *Decoder) push(b byte) *RawFrame {
	d.body = append(d.body, b)
	if len(d.body) < d.want {
		return nil
	}
	f := &RawFrame{Type: d.frameType}
	body := d.body
	if d.frameType.hasHeader() {
		copy(f.Timestamp[:], body[:6])
		f.Signal = SignalLevel(body[6])
		body = body[7:]
	}
	f.Payload = append([]byte(nil), body...)
	d.state = stateSync
	d.stats.Frames++
	d.logger.WithFields(logrus.Fields{
		"type":  f.Type.String(),
		"bytes": len(f.Payload),
	}).Debug("Decoded frame")
	return f
}

func (d *Decoder) desync(reason DesyncReason, tag byte) {
	d.stats.Desyncs++
	d.logger.WithFields(logrus.Fields{
		"reason": reason.String(),
		"tag":    fmt.Sprintf("0x%02X", tag),
	}).Debug("Frame desync")
	if d.OnDesync != nil {
		d.OnDesync(reason, tag)
	}
}

func (d *Decoder) resetFrame() {
	d.state = stateSync
	d.pendingEscape = false
	d.body = d.body[:0]
}
