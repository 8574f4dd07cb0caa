package beast

import (
	"fmt"
	"io"
)

// Encoder writes frames in wire form: escape, type byte, then the body with
// every literal 0x1A doubled. Not safe for concurrent use.
type Encoder struct {
	w   io.Writer
	buf []byte
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, buf: make([]byte, 0, 2*bodyBufferSize)}
}

// WriteFrame writes f. The payload length must match the frame type.
func (e *Encoder) WriteFrame(f *RawFrame) error {
	n, ok := f.Type.PayloadLen()
	if !ok {
		return fmt.Errorf("encode: unknown frame type 0x%02X", f.Type.Tag())
	}
	if len(f.Payload) != n {
		return fmt.Errorf("encode: %s payload is %d bytes, want %d", f.Type, len(f.Payload), n)
	}
	e.buf = e.buf[:0]
	if f.Type.hasHeader() {
		e.stuff(f.Timestamp[:])
		e.stuff([]byte{byte(f.Signal)})
	}
	e.stuff(f.Payload)
	return e.emit(f.Type.Tag())
}

// WriteDipswitch writes a dipswitch-toggle command.
func (e *Encoder) WriteDipswitch(sw Dipswitch) error {
	e.buf = e.buf[:0]
	e.stuff([]byte{byte(sw)})
	return e.emit(TypeDipswitchToggle.Tag())
}

// WritePing writes a ping carrying an arbitrary 3-byte identifier.
func (e *Encoder) WritePing(id [3]byte) error {
	e.buf = e.buf[:0]
	e.stuff(id[:])
	return e.emit(TypePing.Tag())
}

// WriteReceiverConfig writes a receiver configuration setting.
func (e *Encoder) WriteReceiverConfig(setting byte) error {
	e.buf = e.buf[:0]
	e.stuff([]byte{setting})
	return e.emit(TypeReceiverConfig.Tag())
}

// stuff appends p to the pending body, doubling escapes.
func (e *Encoder) stuff(p []byte) {
	for _, b := range p {
		if b == Escape {
			e.buf = append(e.buf, Escape, Escape)
		} else {
			e.buf = append(e.buf, b)
		}
	}
}

// emit writes the frame delimiter, the tag and the stuffed body. The tag is
// never an escape, so it is written as is.
func (e *Encoder) emit(tag byte) error {
	if _, err := e.w.Write([]byte{Escape, tag}); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := e.w.Write(e.buf); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
