package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	require.NoError(t, Init("", "warn"))
	defer Close()

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "WARN: warn 3")
	assert.Contains(t, out, "ERROR: error 4")
	assert.Equal(t, LevelWarn, Level())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("", "verbose"))
	defer Close()
	assert.Equal(t, LevelInfo, Level())
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "codesage.log")
	require.NoError(t, Init(path, "debug"))

	Debug("written to %s", "file")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "DEBUG: written to file"))
}

func TestWriter(t *testing.T) {
	require.NoError(t, Init("", "info"))
	defer Close()

	var buf bytes.Buffer
	SetOutput(&buf)

	_, err := Writer("error").Write([]byte("http: TLS handshake error\n"))
	require.NoError(t, err)
	assert.Equal(t, "ERROR: http: TLS handshake error\n", buf.String())
}
