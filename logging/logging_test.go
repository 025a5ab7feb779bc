package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferedLogger() (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewDefaultLoggerTo(&stdout, &stderr, false), &stdout, &stderr
}

func TestDefaultLogger_RoutesByLevel(t *testing.T) {
	logger, stdout, stderr := newBufferedLogger()

	logger.Info("analysis started")
	logger.Warn("slow frame")
	logger.Error(errors.New("boom"), "decode failed")

	assert.Contains(t, stdout.String(), "[INFO] analysis started")
	assert.NotContains(t, stdout.String(), "WARN")
	assert.Contains(t, stderr.String(), "[WARN] slow frame")
	assert.Contains(t, stderr.String(), "[ERROR] decode failed: boom")
}

func TestDefaultLogger_LevelFilter(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()

	logger.Debug("hidden")
	assert.Empty(t, stdout.String())

	logger.SetLevel(DebugLevel)
	logger.Debug("visible")
	assert.Contains(t, stdout.String(), "[DEBUG] visible")
}

func TestDefaultLogger_FieldsAreSortedAndMerged(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()

	child := logger.WithFields(Fields{"component": "extractor"})
	child.Info("done", Fields{"bpm": 128})

	assert.Contains(t, stdout.String(), "done bpm=128 component=extractor")
}

func TestDefaultLogger_ChildSharesLevel(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()
	child := logger.WithFields(Fields{"deck": "A"})

	logger.SetLevel(ErrorLevel)
	child.Info("suppressed")

	assert.Empty(t, stdout.String())
}

func TestDefaultLogger_WithContext(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()
	ctx := ContextWithFields(context.Background(), Fields{"session": "abc"})

	logger.WithContext(ctx).Info("tick")

	assert.Contains(t, stdout.String(), "session=abc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestSetGlobalLogger_NilSilences(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)
}
