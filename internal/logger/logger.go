// Package logger provides leveled process-wide logging on top of the
// standard log package. Output goes to stderr and, optionally, a log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels, from most to least verbose
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var (
	mu        sync.RWMutex
	appLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime)
	logLevel  = LevelInfo
	logFile   *os.File
)

// Init configures the level and output. An empty path logs to stderr only;
// otherwise lines go to both stderr and the file.
func Init(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	logLevel = normalizeLevel(level)

	var out io.Writer = os.Stderr
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		logFile = f
		out = io.MultiWriter(os.Stderr, f)
	}
	appLogger = log.New(out, "", log.Ldate|log.Ltime)
	// plain log.Printf callers share the destination
	log.SetOutput(out)
	return nil
}

// SetOutput redirects all log output; used by tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	appLogger = log.New(w, "", 0)
}

// Level returns the active level
func Level() string {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

// Close closes the log file if one is open
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	appLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime)
	log.SetOutput(os.Stderr)
}

func Debug(format string, v ...interface{}) { logf(LevelDebug, format, v...) }
func Info(format string, v ...interface{})  { logf(LevelInfo, format, v...) }
func Warn(format string, v ...interface{})  { logf(LevelWarn, format, v...) }
func Error(format string, v ...interface{}) { logf(LevelError, format, v...) }

// Writer returns an io.Writer that logs each write at the given level.
// It lets http.Server.ErrorLog share the same output.
func Writer(level string) io.Writer {
	return levelWriter(normalizeLevel(level))
}

type levelWriter string

func (w levelWriter) Write(p []byte) (int, error) {
	logf(string(w), "%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func logf(level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if levelRank[level] < levelRank[logLevel] {
		return
	}
	appLogger.Printf(level+": "+format, v...)
}

func normalizeLevel(level string) string {
	level = strings.ToUpper(strings.TrimSpace(level))
	if _, ok := levelRank[level]; !ok {
		return LevelInfo
	}
	return level
}
