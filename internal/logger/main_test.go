package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/logger"
)

func fileConfig(dir string) logger.Log {
	return logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "gomenu",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			InfoLog:  "info.log",
			WarnLog:  "warn.log",
			ErrorLog: "error.log",
			TraceLog: "trace.log",
		},
	}
}

func readLog(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}

	require.NoError(t, err)

	return string(data)
}

// capture redirects stdout and stderr while fn runs.
func capture(t *testing.T, fn func()) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	return <-outC
}

func TestInitFileLogsSplitByLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	require.NoError(t, logger.Init(fileConfig(dir)))

	log.Info().Msg("menu saved")
	log.Warn().Msg("role missing")
	log.Error().Err(errors.New("db down")).Msg("query failed")
	log.Trace().Msg("below the level")

	info := readLog(t, filepath.Join(dir, "info.log"))
	assert.Contains(t, info, "menu saved")
	assert.Contains(t, info, `"app":"gomenu"`)
	assert.NotContains(t, info, "role missing")

	warn := readLog(t, filepath.Join(dir, "warn.log"))
	assert.Contains(t, warn, "role missing")
	assert.NotContains(t, warn, "query failed")

	assert.Contains(t, readLog(t, filepath.Join(dir, "error.log")), "db down")
	assert.Empty(t, readLog(t, filepath.Join(dir, "trace.log")))
}

func TestInitSkipsUnusableLogDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := fileConfig(filepath.Join(blocker, "log"))

	require.NoError(t, logger.Init(cfg))
	assert.NotPanics(t, func() {
		log.Info().Msg("goes nowhere")
	})

	_, err := os.Stat(cfg.File.Path)
	assert.Error(t, err)
}

func TestInitConsoleJSON(t *testing.T) {
	cfg := logger.Log{
		LogLevel:     "trace",
		ServiceName:  "test",
		AppName:      "gomenu",
		ReportCaller: true,
		Console:      logger.Console{Enabled: true},
	}

	out := capture(t, func() {
		require.NoError(t, logger.Init(cfg))
		log.Info().Str("plugin", "restaurant").Msg("plugin booted")
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)

	var line struct {
		Level   string `json:"level"`
		App     string `json:"app"`
		Plugin  string `json:"plugin"`
		Caller  string `json:"caller"`
		Message string `json:"message"`
	}

	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &line))
	assert.Equal(t, "info", line.Level)
	assert.Equal(t, "gomenu", line.App)
	assert.Equal(t, "restaurant", line.Plugin)
	assert.Equal(t, "plugin booted", line.Message)
	assert.NotEmpty(t, line.Caller)
}

func TestInitWithoutWritersIsSilent(t *testing.T) {
	out := capture(t, func() {
		require.NoError(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"}))
		log.Error().Msg("nobody listens")
	})

	assert.Empty(t, out)
}

func TestErrorHandler(t *testing.T) {
	require.NoError(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"}))
	require.NotNil(t, zerolog.ErrorHandler)

	out := capture(t, func() {
		zerolog.ErrorHandler(errors.New("disk full"))
	})

	assert.Equal(t, "zerolog: could not write event: disk full\n", out)
}
