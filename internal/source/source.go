// Package source opens the raw BEAST byte stream, either live from a TCP
// feed or a serial receiver, or replayed from a capture file.
package source

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// Kinds of input the pipeline can read from.
const (
	KindTCP    = "tcp"
	KindSerial = "serial"
	KindFile   = "file"
)

// Config selects and parameterizes an input.
type Config struct {
	Kind       string
	Address    string // host:port of a BEAST feed
	SerialPort string
	SerialBaud int
	Path       string // capture file to replay
}

// Open connects to the configured input.
func Open(cfg Config, logger *logrus.Logger) (io.ReadCloser, error) {
	switch cfg.Kind {
	case KindTCP:
		return openTCP(cfg.Address, logger)
	case KindSerial:
		return openSerial(cfg.SerialPort, cfg.SerialBaud, logger)
	case KindFile:
		return openFile(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown source kind: %q", cfg.Kind)
	}
}

func openTCP(address string, logger *logrus.Logger) (io.ReadCloser, error) {
	dialer := net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	conn, err := dialer.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	logger.WithField("address", address).Info("Connected to BEAST feed")
	return conn, nil
}

func openSerial(port string, baud int, logger *logrus.Logger) (io.ReadCloser, error) {
	// No ReadTimeout: reads block until the receiver has data.
	p, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}

	logger.WithFields(logrus.Fields{
		"port": port,
		"baud": baud,
	}).Info("Opened serial receiver")
	return p, nil
}

func openFile(path string, logger *logrus.Logger) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}

	logger.WithField("file", path).Info("Replaying capture file")

	if !strings.HasSuffix(path, ".gz") {
		return file, nil
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read gzip capture: %w", err)
	}

	return &gzipFile{Reader: gz, file: file}, nil
}

// gzipFile pairs a gzip stream with its backing file so Close releases both.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Reader.Close(); err != nil {
		g.file.Close()
		return err
	}
	return g.file.Close()
}
