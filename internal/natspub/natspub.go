// Package natspub publishes decoded traffic to NATS JetStream. Every
// deframed packet goes out raw, with decoded Mode A/C and Mode S summaries
// on their own subjects for consumers that do not want to reparse.
package natspub

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Stream layout. All subjects sit under one file-backed stream so a day of
// traffic can be replayed.
const (
	StreamName    = "BEAST"
	SubjectRaw    = "beast.raw"
	SubjectModeAC = "beast.modeac"
	SubjectModeS  = "beast.modes"
)

// RawFrame is the envelope published to SubjectRaw for every frame.
type RawFrame struct {
	Time      time.Time `json:"time"`
	Session   string    `json:"session,omitempty"`
	Type      string    `json:"type"`
	Timestamp uint64    `json:"timestamp"`
	Synthetic bool      `json:"synthetic,omitempty"`
	Signal    float64   `json:"signal"`
	Payload   []byte    `json:"payload"`
}

// ModeACReply is the envelope published to SubjectModeAC.
type ModeACReply struct {
	Time    time.Time `json:"time"`
	Session string    `json:"session,omitempty"`
	Mode    string    `json:"mode"`
	Word    uint16    `json:"word"`
	Squawk  string    `json:"squawk,omitempty"`
	Ident   bool      `json:"ident,omitempty"`
}

// Position carries an unresolved compact position report.
type Position struct {
	Surface   bool   `json:"surface,omitempty"`
	Odd       bool   `json:"odd"`
	Latitude  uint32 `json:"cpr_lat"`
	Longitude uint32 `json:"cpr_lon"`
}

// ModeSFrame is the envelope published to SubjectModeS. Fields beyond the
// downlink format are filled in only where the frame carries them.
type ModeSFrame struct {
	Time         time.Time `json:"time"`
	Session      string    `json:"session,omitempty"`
	Timestamp    uint64    `json:"timestamp"`
	Signal       float64   `json:"signal"`
	DF           uint8     `json:"df"`
	ICAO         string    `json:"icao,omitempty"`
	Callsign     string    `json:"callsign,omitempty"`
	Category     string    `json:"category,omitempty"`
	Squawk       string    `json:"squawk,omitempty"`
	Altitude     *int32    `json:"altitude,omitempty"`
	AltitudeUnit string    `json:"altitude_unit,omitempty"`
	OnGround     *bool     `json:"on_ground,omitempty"`
	Alert        bool      `json:"alert,omitempty"`
	SPI          bool      `json:"spi,omitempty"`
	Emergency    string    `json:"emergency,omitempty"`
	Position     *Position `json:"position,omitempty"`
	Raw          []byte    `json:"raw"`
}

// Publisher writes JSON envelopes to JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// New connects to the NATS server and ensures the stream exists.
func New(url string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("beastd"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"beast.>"},
		Storage:  nats.FileStorage,
		MaxAge:   24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"url":    conn.ConnectedUrl(),
		"stream": StreamName,
	}).Info("Connected to NATS")

	return &Publisher{conn: conn, js: js}, nil
}

// Publish marshals v and publishes it to the subject.
func (p *Publisher) Publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, err := p.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
