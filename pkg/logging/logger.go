// Package logging writes component-tagged log lines for ftool.
//
// Every run gets a session id; all components of that run append to
// ~/.ftool/logs/<session-id>-ftool.log. The terminal belongs to the control
// panel, so nothing is written to stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes leveled messages tagged with a component name.
type Logger struct {
	sessionID string
	component string
	out       *output
	logPath   string
	minLevel  Level
}

// output is shared between a logger and the children made with Named.
type output struct {
	mu        sync.Mutex
	file      *os.File
	logger    *log.Logger
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	logDir   string
	initOnce sync.Once
	initErr  error
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir != "" {
			initErr = os.MkdirAll(logDir, 0750)
			return
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir = filepath.Join(homeDir, ".ftool", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return initErr
}

// NewLogger opens the session log file for component.
//
// If the file cannot be opened it returns a logger writing to stderr along
// with the error, so callers can keep going and report the fallback.
func NewLogger(component string) (*Logger, error) {
	return NewLoggerWithFallback(component, os.Stderr)
}

// NewLoggerWithFallback is NewLogger with the sink used when the session
// file cannot be opened. Pass io.Discard when stderr belongs to a full
// screen terminal UI.
func NewLoggerWithFallback(component string, fallback io.Writer) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, fallback, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-ftool.log", sessID))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, fallback, err), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		out:       &output{file: file, logger: log.New(file, "", 0)},
		logPath:   logPath,
		minLevel:  LevelInfo,
	}, nil
}

// NewWriterLogger returns a logger writing to w at every level. It is meant
// for tests and for callers that manage their own sink.
func NewWriterLogger(w io.Writer, component string) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		out:       &output{logger: log.New(w, "", 0)},
		minLevel:  LevelDebug,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriterLogger(io.Discard, "discard")
}

func newFallbackLogger(component string, w io.Writer, err error) *Logger {
	logger := log.New(w, "", 0)
	logger.Printf("WARNING: failed to initialize file logging: %v; falling back", err)

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		out:       &output{logger: logger},
		minLevel:  LevelWarn,
	}
}

// Named returns a logger for another component sharing this logger's sink
// and level.
func (l *Logger) Named(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// SetLevel drops messages below level.
func (l *Logger) SetLevel(level Level) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.minLevel = level
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.minLevel {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...interface{}) { l.logf(LevelInfo, format, v...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf(LevelWarn, format, v...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

// Writer returns the underlying sink, e.g. for redirecting the standard
// library logger.
func (l *Logger) Writer() io.Writer {
	if l.out.file != nil {
		return l.out.file
	}
	return l.out.logger.Writer()
}

// SessionID returns the id shared by every logger of this run.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the log file path, or "" when not logging to a file.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times and from children.
func (l *Logger) Close() error {
	var err error
	l.out.closeOnce.Do(func() {
		if l.out.file != nil {
			err = l.out.file.Close()
		}
	})
	return err
}
