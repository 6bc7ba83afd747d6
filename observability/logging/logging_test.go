package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupJSONRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Service: "palletchain", Env: "test", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)
	defer closer.Close()
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	logger.Info("block executed", "number", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "block executed", record["message"])
	require.Equal(t, "INFO", record["severity"])
	require.Equal(t, "palletchain", record["service"])
	require.Equal(t, "test", record["env"])
	require.Contains(t, record, "timestamp")
	require.EqualValues(t, 1, record["number"])
}

func TestSetupHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := Setup(Options{Level: "warn", Format: FormatText, Output: &buf})
	require.NoError(t, err)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	logger.Info("hidden")
	logger.Warn("extrinsic failed", "kind", "InsufficientBalance")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "severity=WARN")
	require.Contains(t, out, "kind=InsufficientBalance")
}

func TestSetupAutoFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, FormatJSON, resolveFormat("", &buf))
	require.Equal(t, FormatJSON, resolveFormat(FormatAuto, &buf))
	require.Equal(t, FormatText, resolveFormat("TEXT", &buf))
}

func TestSetupWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palletchain.log")
	logger, closer, err := Setup(Options{Format: FormatJSON, File: path})
	require.NoError(t, err)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	logger.Info("genesis applied")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "genesis applied"))
}

func TestSetupRejectsUnknownSettings(t *testing.T) {
	_, _, err := Setup(Options{Level: "loud"})
	require.Error(t, err)
	_, _, err = Setup(Options{Format: "xml", Output: &bytes.Buffer{}})
	require.Error(t, err)

	for raw, want := range map[string]slog.Level{"": slog.LevelInfo, "DEBUG": slog.LevelDebug, "warning": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(raw)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
