// Package notify performs simulated push delivery: every attempt is appended
// to a durable notification log and echoed for operator visibility.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"emergency-alert-service/internal/logging"
)

// Sink delivers one message to one device. Delivery is best-effort: a failed
// log write or provider send is logged and never propagated, so one bad
// delivery cannot abort an enclosing fan-out loop.
type Sink struct {
	mu       sync.Mutex
	out      *lumberjack.Logger
	logger   *logging.Logger
	telegram *TelegramNotifier
}

func NewSink(logFile string, logger *logging.Logger) *Sink {
	return &Sink{
		out: &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 10,
		},
		logger: logger,
	}
}

// WithTelegram enables real delivery for devices registered with a
// "tg:<chat_id>" token. The notification log is still written for those.
func (s *Sink) WithTelegram(t *TelegramNotifier) *Sink {
	s.telegram = t
	return s
}

// Deliver records the delivery attempt, one line per delivery:
//
//	[<ISO8601 timestamp>] TO: <device_token> MESSAGE: '<message>'
func (s *Sink) Deliver(ctx context.Context, deviceToken, message string) {
	line := fmt.Sprintf("[%s] TO: %s MESSAGE: '%s'\n",
		time.Now().Format(time.RFC3339), deviceToken, message)

	s.logger.Infof("Sending notification to %s: %q", deviceToken, message)

	s.mu.Lock()
	_, err := s.out.Write([]byte(line))
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("Could not write notification log: %v", err)
	}

	if s.telegram != nil && strings.HasPrefix(deviceToken, "tg:") {
		if err := s.telegram.Send(ctx, strings.TrimPrefix(deviceToken, "tg:"), message); err != nil {
			s.logger.Errorf("Telegram delivery to %s failed: %v", deviceToken, err)
		}
	}
}
