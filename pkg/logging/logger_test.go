package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the package at a temporary log directory and resets
// the once-guarded globals.
func setupTestDir(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir, origInitErr := logDir, initErr
	origSessionID := sessionID

	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
	})
	return tempDir
}

func TestNewLogger_WritesToSessionFile(t *testing.T) {
	dir := setupTestDir(t)

	logger, err := NewLogger("scheduler")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, filepath.Join(dir, logger.SessionID()+"-ftool.log"), logger.LogPath())

	logger.Infof("armed %s in %ds", "F1", 4)
	logger.Debugf("hidden at default level")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[scheduler] [INFO] armed F1 in 4s")
	assert.NotContains(t, content, "hidden at default level")
}

func TestNamed_SharesFile(t *testing.T) {
	setupTestDir(t)

	root, err := NewLogger("main")
	require.NoError(t, err)
	browser := root.Named("browser")

	root.Infof("one")
	browser.Warnf("two")
	require.NoError(t, browser.Close())
	require.NoError(t, root.Close(), "closing twice is safe")

	data, err := os.ReadFile(root.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[main] [INFO] one")
	assert.Contains(t, string(data), "[browser] [WARN] two")
}

func TestWriterLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "panel")

	logger.Debugf("d")
	logger.SetLevel(LevelWarn)
	logger.Infof("i")
	logger.Errorf("e %d", 1)

	out := buf.String()
	assert.Contains(t, out, "[panel] [DEBUG] d")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[panel] [ERROR] e 1")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestSessionID_StableAcrossLoggers(t *testing.T) {
	setupTestDir(t)

	a, err := NewLogger("a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewLogger("b")
	require.NoError(t, err)
	defer b.Close()

	assert.NotEmpty(t, a.SessionID())
	assert.Equal(t, a.SessionID(), b.SessionID())
	assert.Equal(t, a.LogPath(), b.LogPath())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.Errorf("nothing")
		_ = logger.Close()
	})
	assert.Empty(t, logger.LogPath())
}

func TestNewLoggerWithFallback_UsesGivenSink(t *testing.T) {
	dir := setupTestDir(t)
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	logDir = filepath.Join(blocker, "logs")

	var buf bytes.Buffer
	logger, err := NewLoggerWithFallback("panel", &buf)
	require.Error(t, err)
	defer logger.Close()

	assert.Empty(t, logger.LogPath())
	assert.Contains(t, buf.String(), "failed to initialize file logging")

	logger.SetLevel(LevelInfo)
	logger.Infof("control %d started", 3)
	assert.Contains(t, buf.String(), "[panel] [INFO] control 3 started")
}
