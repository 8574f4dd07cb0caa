package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/saviobatista/go-beast/internal/app"
	"github.com/spf13/cobra"
)

// newRootCommand builds the beastd command. Flag defaults are seeded from
// the environment so the daemon can be configured without arguments.
func newRootCommand(config *app.Config) *cobra.Command {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cmd := &cobra.Command{
		Use:   "beastd",
		Short: "BEAST protocol decoder for Mode S and Mode A/C traffic",
		Long: `beastd reads BEAST format data from a receiver over TCP or serial,
decodes the Mode S and Mode A/C frames it carries, and publishes the decoded
traffic to NATS JetStream with Prometheus metrics and raw capture files.

Example usage:
  beastd --address receiver:30005
  beastd --source serial --serial-port /dev/ttyUSB0 --serial-baud 3000000
  beastd -s file -f captures/beast_2025-01-02.bin.gz -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion()
				return nil
			}

			application := app.NewApplication(*config)
			return application.Start()
		},
	}

	cmd.Flags().StringVarP(&config.Source, "source", "s", app.EnvOr("BEAST_SOURCE", app.DefaultSource), "input source: tcp, serial or file")
	cmd.Flags().StringVarP(&config.Address, "address", "a", app.EnvOr("BEAST_ADDRESS", app.DefaultAddress), "TCP address of the BEAST feed (host:port)")
	cmd.Flags().StringVar(&config.SerialPort, "serial-port", app.EnvOr("BEAST_SERIAL_PORT", app.DefaultSerialPort), "serial device of the BEAST receiver")
	cmd.Flags().IntVar(&config.SerialBaud, "serial-baud", app.EnvOrInt("BEAST_SERIAL_BAUD", app.DefaultSerialBaud), "serial baud rate")
	cmd.Flags().StringVarP(&config.File, "file", "f", app.EnvOr("BEAST_FILE", ""), "capture file to replay (.bin or .bin.gz)")
	cmd.Flags().StringVar(&config.NATSURL, "nats", app.EnvOr("BEAST_NATS_URL", app.DefaultNATSURL), "NATS JetStream URL for decoded traffic (empty disables)")
	cmd.Flags().StringVar(&config.MQTTBroker, "mqtt-broker", app.EnvOr("BEAST_MQTT_BROKER", ""), "MQTT broker URL for statistics publishing (empty disables)")
	cmd.Flags().StringVar(&config.MQTTTopic, "mqtt-topic", app.EnvOr("BEAST_MQTT_TOPIC", app.DefaultMQTTTopic), "MQTT topic for statistics snapshots")
	cmd.Flags().StringVarP(&config.MetricsAddr, "metrics-addr", "m", app.EnvOr("BEAST_METRICS_ADDR", app.DefaultMetricsAddr), "Prometheus metrics listen address (empty disables)")
	cmd.Flags().StringVar(&config.CaptureDir, "capture-dir", app.EnvOr("BEAST_CAPTURE_DIR", app.DefaultCaptureDir), "directory for raw capture files (empty disables)")
	cmd.Flags().BoolVarP(&config.CaptureUTC, "capture-utc", "u", app.EnvOrBool("BEAST_CAPTURE_UTC", true), "use UTC dates for capture file rotation")
	cmd.Flags().StringVar(&config.DiskFloor, "disk-floor", app.EnvOr("BEAST_DISK_FLOOR", app.DefaultDiskFloor), "free space to preserve on the capture volume (e.g. 1GB)")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().BoolVar(&config.ShowVersion, "version", false, "show version information")

	return cmd
}

func main() {
	var config app.Config
	if err := newRootCommand(&config).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
