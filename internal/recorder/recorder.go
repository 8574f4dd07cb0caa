// Package recorder captures the raw BEAST byte stream into daily files.
// Finished days are gzip-compressed in the background, and the oldest
// archives are dropped when free disk space falls under a floor.
package recorder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/ricochet2200/go-disk-usage/du"
	"github.com/sirupsen/logrus"
)

// Recorder writes capture data to a dated file, rotating at midnight.
type Recorder struct {
	dir         string
	useUTC      bool
	floor       uint64
	logger      *logrus.Logger
	currentFile *os.File
	currentDate string
	mutex       sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a recorder writing under dir. floor is the minimum free disk
// space to preserve, in bytes; zero disables pruning.
func New(dir string, useUTC bool, floor uint64, logger *logrus.Logger) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	recorder := &Recorder{
		dir:    dir,
		useUTC: useUTC,
		floor:  floor,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := recorder.rotateFile(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize capture file: %w", err)
	}

	return recorder, nil
}

// Start runs the rotation scheduler until the context is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	r.logger.Info("Starting capture recorder")

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Capture recorder stopping")
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.checkRotation()
			r.cleanupDisk()
		}
	}
}

// checkRotation rotates the capture file when the date changes
func (r *Recorder) checkRotation() {
	currentDate := r.now().Format("2006-01-02")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate != currentDate {
		r.logger.WithFields(logrus.Fields{
			"old_date": r.currentDate,
			"new_date": currentDate,
		}).Info("Rotating capture file")

		if err := r.rotateFile(); err != nil {
			r.logger.WithError(err).Error("Failed to rotate capture file")
		}
	}
}

// rotateFile closes the current file and opens one for today's date. The
// closed file is compressed in the background.
func (r *Recorder) rotateFile() error {
	newDate := r.now().Format("2006-01-02")

	if r.currentFile != nil {
		oldDate := r.currentDate

		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close old capture file")
		}

		go r.compressFile(oldDate)
	}

	filename := fmt.Sprintf("beast_%s.bin", newDate)
	path := filepath.Join(r.dir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create capture file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = newDate

	r.logger.WithField("file", path).Info("Created new capture file")

	return nil
}

// compressFile gzips a finished capture file and removes the original
func (r *Recorder) compressFile(date string) {
	rawFile := filepath.Join(r.dir, fmt.Sprintf("beast_%s.bin", date))
	gzipFile := filepath.Join(r.dir, fmt.Sprintf("beast_%s.bin.gz", date))

	if _, err := os.Stat(rawFile); os.IsNotExist(err) {
		r.logger.WithField("file", rawFile).Debug("Capture file doesn't exist, skipping compression")
		return
	}

	src, err := os.Open(rawFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", rawFile).Error("Failed to open capture file for compression")
		return
	}
	defer src.Close()

	dst, err := os.Create(gzipFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", gzipFile).Error("Failed to create compressed file")
		return
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	gzWriter.Name = filepath.Base(rawFile)
	gzWriter.ModTime = time.Now()

	if _, err := io.Copy(gzWriter, src); err != nil {
		r.logger.WithError(err).Error("Failed to compress capture file")
		return
	}

	if err := gzWriter.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close gzip writer")
		return
	}

	if err := dst.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close compressed file")
		return
	}

	if err := os.Remove(rawFile); err != nil {
		r.logger.WithError(err).WithField("file", rawFile).Error("Failed to remove original capture file")
		return
	}

	r.logger.WithField("file", gzipFile).Info("Capture file compressed")
}

// cleanupDisk drops the oldest archives until free space is back above the
// floor. Date-stamped names sort chronologically.
func (r *Recorder) cleanupDisk() {
	if r.floor == 0 {
		return
	}

	free := du.NewDiskUsage(r.dir).Free()
	if free >= r.floor {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"free":  humanize.Bytes(free),
		"floor": humanize.Bytes(r.floor),
	}).Warn("Disk space low, pruning capture archives")

	archives, err := filepath.Glob(filepath.Join(r.dir, "beast_*.bin.gz"))
	if err != nil {
		r.logger.WithError(err).Error("Failed to list capture archives")
		return
	}
	sort.Strings(archives)

	for _, file := range archives {
		if free >= r.floor {
			break
		}

		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		if err := os.Remove(file); err != nil {
			r.logger.WithError(err).WithField("file", file).Error("Failed to remove capture archive")
			continue
		}

		free += uint64(info.Size())
		r.logger.WithField("file", file).Info("Removed old capture archive")
	}
}

// Write appends raw bytes to the current capture file.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentFile == nil {
		return 0, fmt.Errorf("no current capture file")
	}

	return r.currentFile.Write(p)
}

// Close stops the scheduler and closes the current capture file.
func (r *Recorder) Close() error {
	r.logger.Info("Closing capture recorder")

	r.cancel()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close current capture file")
			return err
		}
		r.currentFile = nil
	}

	return nil
}

// CurrentFile returns the path of the capture file in use.
func (r *Recorder) CurrentFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentDate == "" {
		return ""
	}

	return filepath.Join(r.dir, fmt.Sprintf("beast_%s.bin", r.currentDate))
}

// Files returns all capture files, compressed ones included.
func (r *Recorder) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, "beast_*.bin*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list capture files: %w", err)
	}

	return files, nil
}

func (r *Recorder) now() time.Time {
	if r.useUTC {
		return time.Now().UTC()
	}
	return time.Now()
}
