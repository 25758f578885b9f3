package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLoggerWithOptions(Options{Level: "info", Format: "json", Output: &buf})

	log.WithField("session_id", "abc").Info(context.Background(), "test cases generated", map[string]interface{}{
		"count": 3,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test cases generated", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestLogrusLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLoggerWithOptions(Options{Level: "warn", Format: "text", Output: &buf})

	log.Info(context.Background(), "hidden", nil)
	assert.Empty(t, buf.String())

	log.Warn(context.Background(), "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLoggerWithOptions(Options{Level: "loud", Output: &buf})

	log.Debug(context.Background(), "debug", nil)
	assert.Empty(t, buf.String())

	log.Info(context.Background(), "info", nil)
	assert.Contains(t, buf.String(), "info")
}

func TestTestLogger_DerivedLoggersShareEntries(t *testing.T) {
	log := NewTestLogger()
	child := log.WithField("component", "stdgen")

	child.Error(context.Background(), "parse failed", map[string]interface{}{"raw_length": 12})

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].Level)
	assert.Equal(t, "stdgen", entries[0].Fields["component"])
	assert.Equal(t, 12, entries[0].Fields["raw_length"])
	assert.True(t, log.HasMessage("error", "parse failed"))

	log.Reset()
	assert.Empty(t, log.Entries())
}

func TestContextSessionID(t *testing.T) {
	ctx := WithSessionID(context.Background(), "abc")

	t.Run("test logger records it", func(t *testing.T) {
		log := NewTestLogger()
		log.Info(ctx, "generated", map[string]interface{}{"count": 1})
		log.Info(context.Background(), "no session", nil)

		entries := log.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "abc", entries[0].Fields[SessionIDField])
		assert.Equal(t, 1, entries[0].Fields["count"])
		assert.NotContains(t, entries[1].Fields, SessionIDField)
	})

	t.Run("explicit field wins", func(t *testing.T) {
		log := NewTestLogger()
		log.Warn(ctx, "override", map[string]interface{}{SessionIDField: "xyz"})
		assert.Equal(t, "xyz", log.Entries()[0].Fields[SessionIDField])
	})

	t.Run("logrus output", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogrusLoggerWithOptions(Options{Level: "info", Format: "json", Output: &buf})
		fields := map[string]interface{}{"count": 2}
		log.Info(ctx, "generated", fields)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "abc", entry[SessionIDField])
		assert.NotContains(t, fields, SessionIDField)
	})

	t.Run("empty id is ignored", func(t *testing.T) {
		_, ok := SessionIDFromContext(WithSessionID(context.Background(), ""))
		assert.False(t, ok)
	})
}
