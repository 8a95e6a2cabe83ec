package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("booking id=%d created", 1)
	log.Warn("otp resend throttled for %s", "user@example.com")

	out := buf.String()
	assert.NotContains(t, out, "booking id=1 created")
	assert.Contains(t, out, "otp resend throttled for user@example.com")
	assert.Contains(t, out, "level=warning")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	assert.Error(t, err)
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	log, err := New("", "info")
	require.NoError(t, err)
	assert.NoError(t, log.Close())
}
