package logger

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"testing"
)

func TestNew_DebugSwitch(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	defer SetDebug(false)

	l.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	SetDebug(true)
	assert.True(t, IsDebugEnabled())
	l.Debug("shown", zap.Int("slot", 0))
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), `{"slot": 0}`)

	l.Info("table booted")
	assert.Contains(t, buf.String(), "info table booted")
}

func TestSetDefault(t *testing.T) {
	var buf bytes.Buffer
	previous := Default()
	defer SetDefault(previous)

	SetDefault(New(&buf))
	SetDefault(nil)
	Infow("init published", "pid", 1)
	assert.Contains(t, buf.String(), "init published")
	assert.Contains(t, buf.String(), `"pid": 1`)
}
