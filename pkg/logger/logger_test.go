package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	require.NotNil(t, logger)
	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestGetLogger(t *testing.T) {
	t.Run("falls back to global logger", func(t *testing.T) {
		entry := G(context.Background())
		assert.Equal(t, L.Logger, entry.Logger)
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck
		assert.Equal(t, L, GetLogger(nil))
	})

	t.Run("returns context logger", func(t *testing.T) {
		custom := logrus.NewEntry(logrus.New()).WithField("change_id", "add-login")
		ctx := WithLogger(context.Background(), custom)

		entry := G(ctx)
		assert.Equal(t, "add-login", entry.Data["change_id"])
	})
}

func TestWithFields(t *testing.T) {
	ctx := WithFields(context.Background(), logrus.Fields{"step": "archive", "change_id": "x"})

	entry := G(ctx)
	assert.Equal(t, "archive", entry.Data["step"])
	assert.Equal(t, "x", entry.Data["change_id"])
}

func TestConfigure(t *testing.T) {
	originalLevel := L.Logger.GetLevel()
	originalFormatter := L.Logger.Formatter
	t.Cleanup(func() {
		L.Logger.SetLevel(originalLevel)
		L.Logger.Formatter = originalFormatter
	})

	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L.Logger.Formatter)

	err := Configure("loud", "fmt")
	assert.Error(t, err)
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)
}

func TestJSONOutput(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	setLoggerFormat(logger, "json")

	logger.WithField("change_id", "add-login").Info("archived")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "archived", entry["message"])
	assert.Equal(t, "info", entry["logLevel"])
	assert.Equal(t, "add-login", entry["change_id"])
	assert.Contains(t, entry, "timestamp")
}
