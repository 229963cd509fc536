package notifier

import (
	"context"
	"errors"

	"github.com/aleister1102/dealnotifier/internal/common"
	"github.com/rs/zerolog"
)

// MultiSender fans a notification out to several channels.
// It fails only when every channel fails; partial failures are logged.
type MultiSender struct {
	senders []namedSender
	logger  zerolog.Logger
}

type namedSender struct {
	name   string
	sender Sender
}

// NewMultiSender creates an empty fan-out sender.
func NewMultiSender(logger zerolog.Logger) *MultiSender {
	return &MultiSender{logger: logger.With().Str("component", "MultiSender").Logger()}
}

// Add registers a channel under name.
func (ms *MultiSender) Add(name string, sender Sender) *MultiSender {
	ms.senders = append(ms.senders, namedSender{name: name, sender: sender})
	return ms
}

// Len returns the number of registered channels.
func (ms *MultiSender) Len() int {
	return len(ms.senders)
}

func (ms *MultiSender) Send(ctx context.Context, n Notification) error {
	if len(ms.senders) == 0 {
		return errors.New("no notification channel configured")
	}

	var failures common.ErrorCollector
	for _, s := range ms.senders {
		if err := s.sender.Send(ctx, n); err != nil {
			ms.logger.Warn().Err(err).Str("channel", s.name).Str("url", n.URL).Msg("Notification channel failed")
			failures.AddWithContext(err, s.name)
		}
	}
	if failures.Len() == len(ms.senders) {
		return failures.Error()
	}
	return nil
}

// LogSender writes notifications to the log. It is the fallback when no channel is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "LogSender").Logger()}
}

func (ls *LogSender) Send(_ context.Context, n Notification) error {
	ls.logger.Warn().
		Str("recipient", n.Recipient).
		Str("subject", n.Subject).
		Str("url", n.URL).
		Str("title", n.Title).
		Msg(n.Body)
	return nil
}
