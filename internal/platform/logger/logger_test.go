package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Error, ParseLevel(" error "))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("console"))
}

func TestJSONOutputRedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Options{Level: Info, Format: FormatJSON, App: "dogpass-api"}, &buf)

	log.With(map[string]any{"user_id": "u-1"}).Info("user created", map[string]any{
		"password_hash": "$2a$10$abc",
		"token":         "eyJ...",
		"err":           errors.New("boom"),
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "dogpass-api", entry["app"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, redacted, entry["password_hash"])
	assert.Equal(t, redacted, entry["token"])
	assert.Equal(t, "boom", entry["err"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Options{Level: Warn, Format: FormatJSON}, &buf)

	log.Debug("debug", nil)
	log.Info("info", nil)
	assert.Empty(t, buf.String())

	log.Warn("warn", nil)
	assert.Contains(t, buf.String(), `"msg":"warn"`)
}

func TestMessagesMentioningPwdAreDropped(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Options{Level: Debug, Format: FormatText}, &buf)

	log.Info("received pwd=secret", nil)
	assert.Empty(t, buf.String())

	log.Info("login ok", map[string]any{"role": "vet"})
	assert.True(t, strings.Contains(buf.String(), "login ok"))
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop()
	l.With(map[string]any{"a": 1}).Error("ignored", nil)
}

func TestFromZapKeepsFieldsAndRedacts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(map[string]any{"request_id": "r1"})

	log.Warn("login failed", map[string]any{"username": "ana", "Password": "hunter2", "err": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "r1", fields["request_id"])
	assert.Equal(t, "ana", fields["username"])
	assert.Equal(t, redacted, fields["Password"])
	assert.Equal(t, "boom", fields["err"])

	assert.NoError(t, Sync(FromZap(nil)))
}
