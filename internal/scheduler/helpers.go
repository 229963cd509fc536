package scheduler

import (
	"github.com/aleister1102/dealnotifier/internal/job"
	"github.com/rs/zerolog"
)

const (
	// RunStatusStarted marks a run that has not finished yet, or whose process died.
	RunStatusStarted = "STARTED"

	// RunStatusCompleted represents a run that went through the whole list
	RunStatusCompleted = "COMPLETED"

	// RunStatusInterrupted represents a run cut short by cancellation
	RunStatusInterrupted = "INTERRUPTED"

	// RunStatusFailed represents a run that could not start, e.g. a missing product list
	RunStatusFailed = "FAILED"
)

// runStatus maps the result of a run to its history status.
func runStatus(summary *job.RunSummary, err error) string {
	switch {
	case err != nil:
		return RunStatusFailed
	case summary != nil && summary.Cancelled:
		return RunStatusInterrupted
	default:
		return RunStatusCompleted
	}
}

func countersFromSummary(summary *job.RunSummary) RunCounters {
	if summary == nil {
		return RunCounters{}
	}
	return RunCounters{
		Total:        summary.Total,
		Attempted:    summary.Attempted,
		Notified:     summary.Notified,
		NoDeal:       summary.NoDeal,
		NotifyFailed: summary.NotifyFailed,
		Skipped:      summary.Skipped,
	}
}

// cronLogger routes robfig/cron's logging through zerolog.
// Cron's info messages fire on every tick so they go to debug.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
