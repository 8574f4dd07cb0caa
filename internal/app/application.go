package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/saviobatista/go-beast/internal/beast"
	"github.com/saviobatista/go-beast/internal/metrics"
	"github.com/saviobatista/go-beast/internal/modeac"
	"github.com/saviobatista/go-beast/internal/modes"
	"github.com/saviobatista/go-beast/internal/mqttpub"
	"github.com/saviobatista/go-beast/internal/natspub"
	"github.com/saviobatista/go-beast/internal/recorder"
	"github.com/saviobatista/go-beast/internal/source"
)

// Application wires the pipeline together: one input source, the frame
// decoder, and the configured outputs.
type Application struct {
	config   Config
	logger   *logrus.Logger
	metrics  *metrics.Metrics
	nats     *natspub.Publisher
	mqtt     *mqttpub.Publisher
	recorder *recorder.Recorder
	capture  *beast.Encoder
	httpSrv  *http.Server
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	verbose  bool

	// session identifies this decoder run on every published envelope so
	// consumers can tell restarts and replays apart.
	session string

	// Pipeline totals for the periodic status line
	frameCount   atomic.Uint64
	desyncCount  atomic.Uint64
	garbageCount atomic.Uint64
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config:  config,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		verbose: config.Verbose,
		session: uuid.New().String(),
	}
}

// Start runs the application until a signal arrives or a file replay ends.
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
		"session":    app.session,
	}).Info("Starting BEAST decoder")

	// Initialize components
	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start processing
	app.run()

	// Wait for a shutdown signal or for the pipeline to finish on its own
	select {
	case <-sigChan:
		app.logger.Info("Received shutdown signal")
	case <-app.ctx.Done():
	}
	app.shutdown()

	return nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	app.metrics = metrics.New(prometheus.DefaultRegisterer)

	if app.config.CaptureDir != "" {
		floor, err := humanize.ParseBytes(app.config.DiskFloor)
		if err != nil {
			return fmt.Errorf("invalid disk floor %q: %w", app.config.DiskFloor, err)
		}

		app.recorder, err = recorder.New(app.config.CaptureDir, app.config.CaptureUTC, floor, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize capture recorder: %w", err)
		}
		app.capture = beast.NewEncoder(&countingWriter{
			w: app.recorder,
			c: app.metrics.CaptureBytes,
		})
	}

	if app.config.NATSURL != "" {
		pub, err := natspub.New(app.config.NATSURL, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		app.nats = pub
	}

	if app.config.MQTTBroker != "" {
		pub, err := mqttpub.New(app.config.MQTTBroker, app.config.MQTTTopic, 30*time.Second, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize MQTT publisher: %w", err)
		}
		app.mqtt = pub
	}

	if app.config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		app.httpSrv = &http.Server{Addr: app.config.MetricsAddr, Handler: mux}
	}

	return nil
}

// run starts one goroutine per component
func (app *Application) run() {
	app.logger.Info("Starting decode pipeline")

	if app.httpSrv != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.logger.WithField("addr", app.httpSrv.Addr).Info("Serving metrics")
			if err := app.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.logger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	if app.recorder != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.recorder.Start(app.ctx)
		}()
	}

	if app.mqtt != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.mqtt.Run(app.ctx)
		}()
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.runPipeline()
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics()
	}()

	app.logger.Info("All components started successfully")
}

// runPipeline reads the source until the context ends, reconnecting with
// backoff on transport errors. A file replay ends the application at EOF.
func (app *Application) runPipeline() {
	backoff := time.Second

	for {
		if app.ctx.Err() != nil {
			return
		}

		src, err := source.Open(app.sourceConfig(), app.logger)
		if err != nil {
			app.logger.WithError(err).Error("Failed to open source")
			app.metrics.Reconnects.Inc()

			select {
			case <-app.ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			continue
		}

		backoff = time.Second
		app.metrics.SourceUp.Set(1)
		err = app.consume(src)
		src.Close()
		app.metrics.SourceUp.Set(0)

		if app.config.Source == source.KindFile {
			app.logger.Info("Replay finished")
			app.cancel()
			return
		}
		if app.ctx.Err() != nil {
			return
		}

		app.logger.WithError(err).Warn("Source disconnected, reconnecting")
		app.metrics.Reconnects.Inc()
	}
}

// consume decodes frames from one connection until it ends.
func (app *Application) consume(src io.Reader) error {
	decoder := beast.NewDecoder(src, app.logger)
	decoder.OnDesync = func(reason beast.DesyncReason, tag byte) {
		app.desyncCount.Add(1)
		app.metrics.Desyncs.WithLabelValues(reason.String()).Inc()
	}

	var lastGarbage uint64

	for {
		frame, err := decoder.Next()

		if garbage := decoder.Stats().GarbageBytes; garbage > lastGarbage {
			delta := garbage - lastGarbage
			lastGarbage = garbage
			app.garbageCount.Add(delta)
			app.metrics.GarbageBytes.Add(float64(delta))
		}

		if err != nil {
			if errors.Is(err, beast.ErrTruncated) {
				app.logger.Warn("Input ended mid-frame")
			}
			return err
		}

		app.handleFrame(frame)
	}
}

// handleFrame records, publishes and decodes a single frame.
func (app *Application) handleFrame(frame *beast.RawFrame) {
	app.frameCount.Add(1)
	app.metrics.Frames.WithLabelValues(frame.Type.String()).Inc()
	if frame.Type != beast.TypeDipswitchStatus {
		app.metrics.SignalPower.Observe(frame.Signal.Power())
	}

	if app.capture != nil {
		if err := app.capture.WriteFrame(frame); err != nil {
			app.logger.WithError(err).Warn("Failed to record frame")
		}
	}

	if app.nats != nil {
		env := rawEnvelope(frame)
		env.Session = app.session
		app.publish(natspub.SubjectRaw, env)
	}

	switch frame.Type {
	case beast.TypeModeAC:
		reply := modeac.Decode(frame.ModeACWord())
		app.metrics.ModeACReplies.WithLabelValues(replyMode(reply)).Inc()
		if app.nats != nil {
			env := modeACEnvelope(frame, reply)
			env.Session = app.session
			app.publish(natspub.SubjectModeAC, env)
		}

	case beast.TypeModeSShort, beast.TypeModeSLong:
		decoded, err := modes.DecodeFrame(frame.Payload)
		if err != nil {
			app.metrics.DecodeErrors.Inc()
			app.logger.WithError(err).Debug("Undecodable Mode S frame")
			return
		}
		app.metrics.ModeSFrames.WithLabelValues(decoded.DF().String()).Inc()
		if app.nats != nil {
			env := modeSEnvelope(frame, decoded)
			env.Session = app.session
			app.publish(natspub.SubjectModeS, env)
		}

	case beast.TypeDipswitchStatus:
		if status, ok := frame.Dipswitch(); ok {
			app.logger.WithField("status", status.String()).Info("Receiver dipswitch status")
		}
	}
}

// publish sends one envelope and accounts for the outcome.
func (app *Application) publish(subject string, v any) {
	if err := app.nats.Publish(subject, v); err != nil {
		app.metrics.PublishErrors.WithLabelValues(subject).Inc()
		app.logger.WithError(err).WithField("subject", subject).Warn("Publish failed")
		return
	}
	app.metrics.Published.WithLabelValues(subject).Inc()
}

// reportStatistics reports processing statistics periodically
func (app *Application) reportStatistics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			app.logger.WithFields(logrus.Fields{
				"frames":        app.frameCount.Load(),
				"desyncs":       app.desyncCount.Load(),
				"garbage_bytes": app.garbageCount.Load(),
			}).Info("Frame processing statistics")
		}
	}
}

// shutdown gracefully shuts down the application
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	if app.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := app.httpSrv.Shutdown(shutdownCtx); err != nil {
			app.logger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	// Cleanup resources
	if app.mqtt != nil {
		app.mqtt.Close()
	}
	if app.nats != nil {
		app.nats.Close()
	}
	if app.recorder != nil {
		app.recorder.Close()
	}

	app.logger.Info("Shutdown completed")
}

func (app *Application) sourceConfig() source.Config {
	return source.Config{
		Kind:       app.config.Source,
		Address:    app.config.Address,
		SerialPort: app.config.SerialPort,
		SerialBaud: app.config.SerialBaud,
		Path:       app.config.File,
	}
}

// countingWriter counts capture bytes on their way to the recorder.
type countingWriter struct {
	w io.Writer
	c prometheus.Counter
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.c.Add(float64(n))
	return n, err
}
