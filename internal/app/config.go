package app

import (
	"os"
	"strconv"
)

// Default configuration constants
const (
	DefaultSource      = "tcp"
	DefaultAddress     = "localhost:30005" // standard BEAST output port
	DefaultSerialPort  = "/dev/ttyUSB0"
	DefaultSerialBaud  = 3000000
	DefaultNATSURL     = "nats://127.0.0.1:4222"
	DefaultMQTTTopic   = "beast/stats"
	DefaultMetricsAddr = ":9090"
	DefaultCaptureDir  = ""
	DefaultDiskFloor   = "1GB"
)

// Config holds application configuration
type Config struct {
	// Input. Source selects between a TCP feed, a local serial receiver
	// and a capture file replay.
	Source     string
	Address    string
	SerialPort string
	SerialBaud int
	File       string

	// Outputs. Empty values disable the corresponding output.
	NATSURL     string
	MQTTBroker  string
	MQTTTopic   string
	MetricsAddr string

	// Capture. CaptureDir enables raw frame recording; DiskFloor is the
	// free space to preserve on the capture volume, in humanized form.
	CaptureDir string
	CaptureUTC bool
	DiskFloor  string

	Verbose     bool
	ShowVersion bool
}

// EnvOr returns the environment value for key, or fallback when unset.
// Used to seed flag defaults from the environment.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvOrInt is EnvOr for integer values. Unparseable values fall back.
func EnvOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// EnvOrBool is EnvOr for boolean values. Unparseable values fall back.
func EnvOrBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
