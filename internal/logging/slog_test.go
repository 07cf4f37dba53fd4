package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, nil)
	return NewSlogLogger(slog.New(h)), buf
}

func TestSlogLogger_Info(t *testing.T) {
	log, buf := newBufferLogger()

	log.Info(context.Background(), "exam loaded", "year", 2024)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "exam loaded", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.EqualValues(t, 2024, rec["year"])
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	log, buf := newBufferLogger()

	child := log.With("module", "httpapi")
	child.Error(context.Background(), "request failed", "status", 500)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "httpapi", rec["module"])
	assert.Equal(t, "ERROR", rec["level"])
}
