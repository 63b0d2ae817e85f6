package notify

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emergency-alert-service/internal/logging"
)

var lineRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[^\]]*\] TO: (\S+) MESSAGE: '(.*)'$`)

func TestDeliver_AppendsFormattedLine(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "notifications.log")
	s := NewSink(logFile, logging.NewNop())

	s.Deliver(context.Background(), "device-abc", "Flood warning")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)

	m := lineRe.FindStringSubmatch(lines[0])
	require.NotNil(t, m, "unexpected log line: %s", lines[0])
	assert.Equal(t, "device-abc", m[1])
	assert.Equal(t, "Flood warning", m[2])
}

func TestDeliver_AppendsAcrossCalls(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "notifications.log")
	s := NewSink(logFile, logging.NewNop())

	s.Deliver(context.Background(), "d1", "one")
	s.Deliver(context.Background(), "d2", "two")
	s.Deliver(context.Background(), "d3", "three")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TO: d1")
	assert.Contains(t, lines[1], "TO: d2")
	assert.Contains(t, lines[2], "TO: d3")
}

func TestDeliver_WriteFailureDoesNotPanic(t *testing.T) {
	// Point the log at a path that cannot be created.
	s := NewSink(filepath.Join(string(os.PathSeparator), "dev", "null", "nope", "n.log"), logging.NewNop())

	assert.NotPanics(t, func() {
		s.Deliver(context.Background(), "device-abc", "msg")
	})
}

func TestDeliver_TelegramPrefixWithoutNotifierStillLogs(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "notifications.log")
	s := NewSink(logFile, logging.NewNop())

	s.Deliver(context.Background(), "tg:12345", "msg")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TO: tg:12345")
}
