// Package logging persists the live reporter output of a test invocation
// under a per-run directory so CI can archive it.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"
)

const (
	// RunDirectoryPrefix is the standardized prefix for run directories.
	RunDirectoryPrefix = "testrun-"
	runLogFilename     = "run.log"
	summaryFilename    = "summary.log"
)

// FileLogger mirrors reporter output into <baseDir>/testrun-<runID>/run.log
// with ANSI color codes stripped, and persists the final summary separately.
type FileLogger struct {
	baseDir string
	runDir  string
	runID   string

	mu      sync.Mutex
	logFile *os.File
}

// NewFileLogger creates the run directory and opens the run log.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	runDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}
	logFile, err := os.Create(filepath.Join(runDir, runLogFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}
	return &FileLogger{
		baseDir: baseDir,
		runDir:  runDir,
		runID:   runID,
		logFile: logFile,
	}, nil
}

// RunDir returns the directory holding this run's files.
func (l *FileLogger) RunDir() string {
	return l.runDir
}

// Writer returns an io.Writer that appends to the run log with ANSI
// escapes removed. Safe for use from the single reporting flow; writes are
// serialized internally anyway.
func (l *FileLogger) Writer() io.Writer {
	return &ansiStrippingWriter{logger: l}
}

// WriteSummary persists the rendered summary block as summary.log.
func (l *FileLogger) WriteSummary(content string) error {
	path := filepath.Join(l.runDir, summaryFilename)
	clean := stripansi.Strip(content)
	if err := os.WriteFile(path, []byte(clean), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

// Close flushes and closes the run log.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	return err
}

type ansiStrippingWriter struct {
	logger *FileLogger
}

func (w *ansiStrippingWriter) Write(p []byte) (int, error) {
	w.logger.mu.Lock()
	defer w.logger.mu.Unlock()
	if w.logger.logFile == nil {
		return len(p), nil
	}
	if _, err := w.logger.logFile.WriteString(stripansi.Strip(string(p))); err != nil {
		return 0, err
	}
	// Report the caller's byte count; stripping shortens what lands on disk.
	return len(p), nil
}
