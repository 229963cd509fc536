package job

import (
	"time"

	"github.com/aleister1102/dealnotifier/internal/products"
)

// OutcomeKind classifies what happened to one product entry.
type OutcomeKind int

const (
	OutcomeNoDeal OutcomeKind = iota
	OutcomeNotified
	OutcomeNotifyFailed
	OutcomeSkipped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoDeal:
		return "no_deal"
	case OutcomeNotified:
		return "notified"
	case OutcomeNotifyFailed:
		return "notify_failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing a single entry.
type Outcome struct {
	Entry products.Entry
	Kind  OutcomeKind
	// Reason is a short classification of Err for skipped entries.
	Reason   string
	Err      error
	BodySize int
	Title    string
	Duration time.Duration
}

// DealDetected reports whether the page carried the marker, whether or not the notification went out.
func (o Outcome) DealDetected() bool {
	return o.Kind == OutcomeNotified || o.Kind == OutcomeNotifyFailed
}

// RunSummary aggregates the outcomes of one run.
type RunSummary struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	ProductsFile string
	Total        int
	Attempted    int
	Notified     int
	NoDeal       int
	NotifyFailed int
	Skipped      int
	Cancelled    bool
	Outcomes     []Outcome
}

// Deals is the number of pages where the marker was found.
func (s *RunSummary) Deals() int {
	return s.Notified + s.NotifyFailed
}

// Duration is the wall time of the run.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *RunSummary) add(o Outcome) {
	s.Attempted++
	switch o.Kind {
	case OutcomeNoDeal:
		s.NoDeal++
	case OutcomeNotified:
		s.Notified++
	case OutcomeNotifyFailed:
		s.NotifyFailed++
	case OutcomeSkipped:
		s.Skipped++
	}
	s.Outcomes = append(s.Outcomes, o)
}
