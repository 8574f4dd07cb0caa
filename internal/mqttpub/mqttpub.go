// Package mqttpub periodically publishes a flat snapshot of the Prometheus
// metrics to an MQTT topic, for dashboards that speak MQTT instead of
// scraping.
package mqttpub

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

// StatsPayload is the JSON message published on every tick.
type StatsPayload struct {
	Timestamp int64              `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Publisher pushes metric snapshots to a broker.
type Publisher struct {
	client   mqtt.Client
	topic    string
	interval time.Duration
	gatherer prometheus.Gatherer
	logger   *logrus.Logger
}

// generateClientID creates a random client ID for the MQTT connection
func generateClientID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "beastd_" + hex.EncodeToString(bytes)
}

// New connects to the broker and returns a publisher for the topic.
func New(broker, topic string, interval time.Duration, logger *logrus.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(generateClientID())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.WithField("broker", broker).Info("Connected to MQTT broker")
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:   client,
		topic:    topic,
		interval: interval,
		gatherer: prometheus.DefaultGatherer,
		logger:   logger,
	}, nil
}

// Run publishes a snapshot immediately and then on every tick until the
// context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.WithFields(logrus.Fields{
		"topic":    p.topic,
		"interval": p.interval,
	}).Info("MQTT stats publisher started")

	p.publishOnce()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("MQTT stats publisher stopped")
			return
		case <-ticker.C:
			p.publishOnce()
		}
	}
}

// publishOnce gathers the registry and publishes one snapshot.
func (p *Publisher) publishOnce() {
	families, err := p.gatherer.Gather()
	if err != nil {
		p.logger.WithError(err).Error("Failed to gather metrics")
		return
	}

	payload := StatsPayload{
		Timestamp: time.Now().Unix(),
		Metrics:   buildSnapshot(families),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal stats payload")
		return
	}

	token := p.client.Publish(p.topic, 0, false, data)
	if token.Wait() && token.Error() != nil {
		p.logger.WithError(token.Error()).Error("Failed to publish stats")
	}
}

// buildSnapshot flattens metric families into name/value pairs. Labelled
// metrics get composite keys so every series stays addressable.
func buildSnapshot(families []*dto.MetricFamily) map[string]float64 {
	snapshot := make(map[string]float64)

	for _, mf := range families {
		name := mf.GetName()
		for _, m := range mf.GetMetric() {
			value, ok := extractValue(m)
			if !ok {
				continue
			}

			key := name
			for _, label := range m.GetLabel() {
				key += "_" + label.GetName() + "_" + label.GetValue()
			}
			snapshot[key] = value
		}
	}

	return snapshot
}

// extractValue pulls the numeric value out of a metric
func extractValue(m *dto.Metric) (float64, bool) {
	if m.GetGauge() != nil {
		return m.GetGauge().GetValue(), true
	}
	if m.GetCounter() != nil {
		return m.GetCounter().GetValue(), true
	}
	if m.GetHistogram() != nil {
		return m.GetHistogram().GetSampleSum(), true
	}
	if m.GetSummary() != nil {
		return m.GetSummary().GetSampleSum(), true
	}
	return 0, false
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
