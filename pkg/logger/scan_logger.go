package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ScanLogger mirrors scan output into a per-scan log file so a CLI run
// leaves an audit trail next to its report artifacts.
type ScanLogger struct {
	*Logger
	sessionID string
	outputDir string
	logFile   *os.File
	mu        sync.Mutex
}

func NewScanLogger(sessionID, outputDir string, level logrus.Level) (*ScanLogger, error) {
	baseLogger := NewLogger(level)

	logFilePath := filepath.Join(outputDir, "scan.log")
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan log file: %w", err)
	}

	header := fmt.Sprintf("\n=== Scan Log Started: %s ===\n", time.Now().Format(time.RFC3339))
	header += fmt.Sprintf("Session ID: %s\n", sessionID)
	header += "==========================================\n\n"
	logFile.WriteString(header)

	baseLogger.Logger.SetOutput(io.MultiWriter(os.Stdout, logFile))

	return &ScanLogger{
		Logger:    baseLogger,
		sessionID: sessionID,
		outputDir: outputDir,
		logFile:   logFile,
	}, nil
}

// LogScanSuccess records a successful scan completion
func (sl *ScanLogger) LogScanSuccess(total int) {
	sl.WithFields(Fields{
		"session_id": sl.sessionID,
		"findings":   total,
	}).Info("Scan completed successfully")
}

// LogScanFailure records a scan failure with its reason
func (sl *ScanLogger) LogScanFailure(reason string, err error) {
	sl.WithFields(Fields{
		"session_id": sl.sessionID,
		"reason":     reason,
		"error":      err,
	}).Error("Scan failed")
}

func (sl *ScanLogger) Close() error {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.logFile != nil {
		footer := fmt.Sprintf("\n=== Scan Log Ended: %s ===\n", time.Now().Format(time.RFC3339))
		sl.logFile.WriteString(footer)
		err := sl.logFile.Close()
		sl.logFile = nil
		return err
	}
	return nil
}
