package recorder

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard) // Suppress log output during tests
	return logger
}

// TestRecorder_New tests the creation of new recorders
func TestRecorder_New(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		useUTC bool
	}{
		{
			name:   "Valid directory creation",
			dir:    "test_capture",
			useUTC: false,
		},
		{
			name:   "UTC timezone",
			dir:    "test_capture_utc",
			useUTC: true,
		},
		{
			name:   "Nested directory creation",
			dir:    "nested/test/capture",
			useUTC: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up before and after test
			defer os.RemoveAll(tt.dir)
			os.RemoveAll(tt.dir)

			rec, err := New(tt.dir, tt.useUTC, 0, testLogger())
			require.NoError(t, err)
			require.NotNil(t, rec)
			defer rec.Close()

			assert.DirExists(t, tt.dir)

			currentFile := rec.CurrentFile()
			assert.NotEmpty(t, currentFile)
			assert.FileExists(t, currentFile)
		})
	}
}

// TestRecorder_Write tests writing through the recorder
func TestRecorder_Write(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	data := []byte{0x1A, '1', 0xFF, 0x00, 'M', 'L', 'A', 'T', 0x20, 0x12, 0x34}
	n, err := rec.Write(data)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)

	content, err := os.ReadFile(rec.CurrentFile())
	assert.NoError(t, err)
	assert.Equal(t, data, content)
}

// TestRecorder_Files tests listing capture files
func TestRecorder_Files(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	testFiles := []string{
		"beast_2023-01-01.bin",
		"beast_2023-01-02.bin.gz",
		"beast_2023-01-03.bin",
	}

	for _, filename := range testFiles {
		path := filepath.Join(tempDir, filename)
		err := os.WriteFile(path, []byte("test content"), 0644)
		require.NoError(t, err)
	}

	files, err := rec.Files()
	require.NoError(t, err)

	// Should include the current capture file plus the test files
	assert.GreaterOrEqual(t, len(files), len(testFiles))

	fileSet := make(map[string]bool)
	for _, file := range files {
		fileSet[filepath.Base(file)] = true
	}

	for _, testFile := range testFiles {
		assert.True(t, fileSet[testFile], "Expected file %s not found", testFile)
	}
}

// TestRecorder_CompressFile tests compression of a finished day
func TestRecorder_CompressFile(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	testDate := "2023-01-01"
	rawFile := filepath.Join(tempDir, fmt.Sprintf("beast_%s.bin", testDate))
	testContent := []byte{0x1A, '2', 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	err = os.WriteFile(rawFile, testContent, 0644)
	require.NoError(t, err)

	rec.compressFile(testDate)

	// Original file should be removed
	assert.NoFileExists(t, rawFile)

	// Compressed file should exist
	compressedFile := filepath.Join(tempDir, fmt.Sprintf("beast_%s.bin.gz", testDate))
	assert.FileExists(t, compressedFile)

	// Verify compressed content
	gzFile, err := os.Open(compressedFile)
	require.NoError(t, err)
	defer gzFile.Close()

	gzReader, err := gzip.NewReader(gzFile)
	require.NoError(t, err)
	defer gzReader.Close()

	decompressed, err := io.ReadAll(gzReader)
	require.NoError(t, err)
	assert.Equal(t, testContent, decompressed)
}

// TestRecorder_CleanupDisk tests pruning of old archives
func TestRecorder_CleanupDisk(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	archives := []string{
		"beast_2023-01-01.bin.gz",
		"beast_2023-01-02.bin.gz",
	}
	for _, filename := range archives {
		err := os.WriteFile(filepath.Join(tempDir, filename), []byte("archived"), 0644)
		require.NoError(t, err)
	}

	// A zero floor disables pruning entirely.
	rec.cleanupDisk()
	for _, filename := range archives {
		assert.FileExists(t, filepath.Join(tempDir, filename))
	}

	// An unsatisfiable floor prunes every archive but never touches the
	// current capture file.
	rec.floor = math.MaxUint64
	rec.cleanupDisk()
	for _, filename := range archives {
		assert.NoFileExists(t, filepath.Join(tempDir, filename))
	}
	assert.FileExists(t, rec.CurrentFile())
}

// TestRecorder_Close tests the Close method
func TestRecorder_Close(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)

	_, err = rec.Write([]byte("test data"))
	require.NoError(t, err)

	err = rec.Close()
	assert.NoError(t, err)

	// After closing, writes should fail
	_, err = rec.Write([]byte("more data"))
	assert.Error(t, err)
}

// TestRecorder_DateRotation tests rotation when the date has not changed
func TestRecorder_DateRotation(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	initialFile := rec.CurrentFile()
	assert.NotEmpty(t, initialFile)

	_, err = rec.Write([]byte("initial content"))
	require.NoError(t, err)

	// Manually trigger rotation (simulating the scheduler tick)
	rec.mutex.Lock()
	err = rec.rotateFile()
	rec.mutex.Unlock()
	assert.NoError(t, err)

	// Same date, so the path is unchanged and still writable
	assert.Equal(t, initialFile, rec.CurrentFile())

	_, err = rec.Write([]byte("new content"))
	assert.NoError(t, err)
}

// TestRecorder_ConcurrentAccess tests concurrent writes and path queries
func TestRecorder_ConcurrentAccess(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	done := make(chan bool)
	numGoroutines := 10
	numOps := 100

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer func() { done <- true }()

			for j := 0; j < numOps; j++ {
				data := fmt.Sprintf("goroutine-%d-op-%d\n", id, j)
				if _, err := rec.Write([]byte(data)); err != nil {
					t.Errorf("Write failed: %v", err)
					return
				}

				if rec.CurrentFile() == "" {
					t.Error("CurrentFile returned empty string")
					return
				}
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	content, err := os.ReadFile(rec.CurrentFile())
	assert.NoError(t, err)
	assert.NotEmpty(t, content)

	contentStr := string(content)
	assert.Contains(t, contentStr, "goroutine-0-op-0")
	assert.Contains(t, contentStr, fmt.Sprintf("goroutine-%d-op-%d", numGoroutines-1, numOps-1))
}

// TestRecorder_UTCTimezone tests UTC date handling in file names
func TestRecorder_UTCTimezone(t *testing.T) {
	tempDir := t.TempDir()

	rec, err := New(tempDir, true, 0, testLogger())
	require.NoError(t, err)
	defer rec.Close()

	currentFile := rec.CurrentFile()
	assert.NotEmpty(t, currentFile)
	assert.FileExists(t, currentFile)

	expectedDate := time.Now().UTC().Format("2006-01-02")
	assert.Contains(t, currentFile, expectedDate)
}

// BenchmarkRecorder_Write benchmarks write throughput
func BenchmarkRecorder_Write(b *testing.B) {
	tempDir := b.TempDir()

	rec, err := New(tempDir, false, 0, testLogger())
	require.NoError(b, err)
	defer rec.Close()

	data := []byte{0x1A, '3', 0, 1, 2, 3, 4, 5, 6, 0xA5, 0x8D, 0x48, 0x40, 0xD6, 0x20, 0x2C, 0xC3, 0x71, 0xC3, 0x2C, 0xE0, 0x57, 0x60, 0x98}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rec.Write(data); err != nil {
			b.Fatal(err)
		}
	}
}
