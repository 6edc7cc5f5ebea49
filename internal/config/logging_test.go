package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/logosrc/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected config.LogLevel
	}{
		{"off", config.LogLevelOff},
		{"OFF", config.LogLevelOff},
		{"none", config.LogLevelOff},
		{"error", config.LogLevelError},
		{"debug", config.LogLevelDebug},
		{"  Debug  ", config.LogLevelDebug},
		{"warn", config.LogLevelError},
		{"", config.LogLevelError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, config.ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "off", config.LogLevelOff.String())
	assert.Equal(t, "error", config.LogLevelError.String())
	assert.Equal(t, "debug", config.LogLevelDebug.String())
	assert.Equal(t, "error", config.LogLevel(99).String())
}

func TestNewLogger_OffOpensNothing(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logosrc.log")

	logger, err := config.NewLogger(config.LogLevelOff, path)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	logger.Error("should not be written")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewLogger_WritesLevels(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "logosrc.log")

	logger, err := config.NewLogger(config.LogLevelError, path)
	require.NoError(t, err)
	assert.Equal(t, path, logger.Path())

	logger.Debug("hidden %d", 1)
	logger.Error("list %s failed", "ipfs://QmA")
	logger.SetLevel(config.LogLevelDebug)
	assert.Equal(t, config.LogLevelDebug, logger.Level())
	logger.Debug("visible %d", 2)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "close is idempotent")

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from t.TempDir()
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, "[ERROR] list ipfs://QmA failed")
	assert.Contains(t, content, "[DEBUG] visible 2")
	assert.Len(t, strings.Split(strings.TrimSpace(content), "\n"), 2)
}

func TestLogger_Mirror(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := config.NewLogger(config.LogLevelDebug, "")
	require.NoError(t, err)

	logger.Debug("no sink yet")
	logger.SetMirror(&buf)
	logger.Debug("resolved %s", "0xabc")
	logger.SetMirror(nil)
	logger.Debug("after mirror removed")

	assert.Contains(t, buf.String(), "[DEBUG] resolved 0xabc")
	assert.NotContains(t, buf.String(), "no sink yet")
	assert.NotContains(t, buf.String(), "after mirror removed")
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logosrc.log")

	logger, err := config.NewLogger(config.LogLevelDebug, path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Debug("line %d", n)
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from t.TempDir()
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 20)
}

func TestNullLogger(t *testing.T) {
	t.Parallel()
	logger := config.NullLogger()
	logger.Error("discarded")
	assert.Equal(t, config.LogLevelOff, logger.Level())
	require.NoError(t, logger.Close())
}
