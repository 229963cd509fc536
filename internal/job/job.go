package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/dealnotifier/internal/httpclient"
	"github.com/aleister1102/dealnotifier/internal/logger"
	"github.com/aleister1102/dealnotifier/internal/notifier"
	"github.com/aleister1102/dealnotifier/internal/products"
	"github.com/rs/zerolog"
)

// Fetcher retrieves and decodes one product page.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*httpclient.PageResult, error)
}

// FetcherFactory builds the fetcher for one run from the configured timeouts.
type FetcherFactory func(connectTimeout, readTimeout time.Duration) (Fetcher, error)

// ProductLoader reads the product list.
type ProductLoader interface {
	Load(path string) ([]products.Entry, error)
}

// NewHTTPFetcherFactory returns a factory producing HTTP clients built from base
// with the run's connect and read timeouts.
func NewHTTPFetcherFactory(base httpclient.HTTPClientConfig, logger zerolog.Logger) FetcherFactory {
	return func(connectTimeout, readTimeout time.Duration) (Fetcher, error) {
		client, err := httpclient.NewHTTPClientBuilder(logger).
			WithConfig(base).
			WithConnectTimeout(connectTimeout).
			WithReadTimeout(readTimeout).
			Build()
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// NotifyJob checks every product page once per Execute and notifies on deals.
// It keeps no state between runs: settings and the product list are re-read each time.
type NotifyJob struct {
	props           PropertyReader
	sender          notifier.Sender
	logger          zerolog.Logger
	fetcherFactory  FetcherFactory
	throttleFactory ThrottleFactory
	loader          ProductLoader
	now             func() time.Time
}

// Option customizes a NotifyJob.
type Option func(*NotifyJob)

func WithFetcherFactory(f FetcherFactory) Option {
	return func(j *NotifyJob) { j.fetcherFactory = f }
}

func WithThrottleFactory(f ThrottleFactory) Option {
	return func(j *NotifyJob) { j.throttleFactory = f }
}

func WithLoader(l ProductLoader) Option {
	return func(j *NotifyJob) { j.loader = l }
}

func WithClock(now func() time.Time) Option {
	return func(j *NotifyJob) { j.now = now }
}

// NewNotifyJob creates the job. Without options it fetches with default HTTP
// settings, loads the list from disk and throttles with NewThrottle.
func NewNotifyJob(props PropertyReader, sender notifier.Sender, logger zerolog.Logger, opts ...Option) (*NotifyJob, error) {
	if props == nil {
		return nil, errors.New("notify job: property reader is required")
	}
	if sender == nil {
		return nil, errors.New("notify job: notification sender is required")
	}

	j := &NotifyJob{
		props:           props,
		sender:          sender,
		logger:          logger.With().Str("component", "NotifyJob").Logger(),
		throttleFactory: NewThrottle,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.fetcherFactory == nil {
		j.fetcherFactory = NewHTTPFetcherFactory(httpclient.DefaultHTTPClientConfig(), logger)
	}
	if j.loader == nil {
		j.loader = products.NewLoader(logger)
	}
	return j, nil
}

// Execute runs one pass over the product list.
// It returns an error only when the run cannot start (the list or the fetcher cannot be set up).
// Per-entry failures are recorded in the summary. Cancellation ends the run early with
// Cancelled set and a nil error.
func (j *NotifyJob) Execute(ctx context.Context) (*RunSummary, error) {
	startedAt := j.now()
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = NewRunID(startedAt)
		ctx = ContextWithRunID(ctx, runID)
	}
	runLogger := logger.WithRun(j.logger, runID)

	settings := ReadSettings(j.props, runLogger)
	runLogger.Info().
		Str("products_file", settings.ProductsFile).
		Dur("connect_timeout", settings.ConnectTimeout).
		Dur("read_timeout", settings.ReadTimeout).
		Dur("interval", settings.Interval).
		Int("concurrency", settings.Concurrency).
		Msg("Job started")

	entries, err := j.loader.Load(settings.ProductsFile)
	if err != nil {
		runLogger.Error().Err(err).Str("path", settings.ProductsFile).Msg("Cannot load product list")
		return nil, fmt.Errorf("load product list: %w", err)
	}

	fetcher, err := j.fetcherFactory(settings.ConnectTimeout, settings.ReadTimeout)
	if err != nil {
		runLogger.Error().Err(err).Msg("Cannot create page fetcher")
		return nil, fmt.Errorf("create page fetcher: %w", err)
	}
	if closer, ok := fetcher.(interface{ CloseIdleConnections() }); ok {
		defer closer.CloseIdleConnections()
	}

	summary := &RunSummary{
		RunID:        runID,
		StartedAt:    startedAt,
		ProductsFile: settings.ProductsFile,
		Total:        len(entries),
		Outcomes:     make([]Outcome, 0, len(entries)),
	}

	throttle := j.throttleFactory(settings.Interval, settings.Concurrency)
	var outcomes []Outcome
	if settings.Concurrency > 1 && len(entries) > 1 {
		outcomes, summary.Cancelled = j.runPool(ctx, runLogger, fetcher, throttle, entries, settings)
	} else {
		outcomes, summary.Cancelled = j.runSequential(ctx, runLogger, fetcher, throttle, entries, settings)
	}
	for _, o := range outcomes {
		summary.add(o)
	}
	summary.FinishedAt = j.now()

	event := runLogger.Info()
	if summary.Cancelled {
		event = runLogger.Warn()
	}
	event.
		Int("total", summary.Total).
		Int("attempted", summary.Attempted).
		Int("notified", summary.Notified).
		Int("no_deal", summary.NoDeal).
		Int("notify_failed", summary.NotifyFailed).
		Int("skipped", summary.Skipped).
		Bool("cancelled", summary.Cancelled).
		Dur("duration", summary.Duration()).
		Msg("Job completed")

	return summary, nil
}

// runSequential fetches one entry at a time and waits between entries, never after the last.
func (j *NotifyJob) runSequential(ctx context.Context, runLogger zerolog.Logger, fetcher Fetcher, throttle Throttle, entries []products.Entry, settings Settings) ([]Outcome, bool) {
	outcomes := make([]Outcome, 0, len(entries))
	for i, entry := range entries {
		if ctx.Err() != nil {
			runLogger.Info().Int("remaining", len(entries)-i).Msg("Run cancelled before fetch")
			return outcomes, true
		}

		outcomes = append(outcomes, j.processEntry(ctx, runLogger, fetcher, entry, settings.Marker))

		if i < len(entries)-1 {
			if err := throttle.Wait(ctx); err != nil {
				runLogger.Info().Int("remaining", len(entries)-i-1).Msg("Run cancelled while waiting")
				return outcomes, true
			}
		}
	}
	return outcomes, ctx.Err() != nil
}

// runPool hands entries to a bounded set of workers. Only the dispatcher waits on the
// throttle, so request starts stay spaced by the interval whatever the worker count.
func (j *NotifyJob) runPool(ctx context.Context, runLogger zerolog.Logger, fetcher Fetcher, throttle Throttle, entries []products.Entry, settings Settings) ([]Outcome, bool) {
	results := make([]Outcome, len(entries))
	done := make([]bool, len(entries))
	work := make(chan int)

	workers := min(settings.Concurrency, len(entries))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = j.processEntry(ctx, runLogger, fetcher, entries[i], settings.Marker)
				done[i] = true
			}
		}()
	}

	cancelled := false
dispatch:
	for i := range entries {
		if i > 0 {
			if err := throttle.Wait(ctx); err != nil {
				runLogger.Info().Int("remaining", len(entries)-i).Msg("Run cancelled while waiting")
				cancelled = true
				break
			}
		}
		if ctx.Err() != nil {
			runLogger.Info().Int("remaining", len(entries)-i).Msg("Run cancelled before fetch")
			cancelled = true
			break
		}
		select {
		case work <- i:
		case <-ctx.Done():
			runLogger.Info().Int("remaining", len(entries)-i).Msg("Run cancelled before fetch")
			cancelled = true
			break dispatch
		}
	}
	close(work)
	wg.Wait()

	outcomes := make([]Outcome, 0, len(entries))
	for i := range results {
		if done[i] {
			outcomes = append(outcomes, results[i])
		}
	}
	return outcomes, cancelled || ctx.Err() != nil
}

// processEntry fetches, detects and notifies for a single entry. Every failure stays inside the outcome.
func (j *NotifyJob) processEntry(ctx context.Context, runLogger zerolog.Logger, fetcher Fetcher, entry products.Entry, marker string) Outcome {
	start := j.now()
	outcome := Outcome{Entry: entry}
	entryLogger := runLogger.With().Str("url", entry.Target).Logger()

	entryLogger.Info().Msg("Connecting")
	page, err := fetcher.FetchPage(ctx, entry.Target)
	if err != nil {
		outcome.Kind = OutcomeSkipped
		outcome.Err = err
		outcome.Reason = skipReason(ctx, err)
		outcome.Duration = j.now().Sub(start)
		entryLogger.Error().Err(err).Str("reason", outcome.Reason).Msg("Skipped URL")
		return outcome
	}

	outcome.BodySize = page.Size
	entryLogger.Debug().Int("bytes", page.Size).Int("status_code", page.StatusCode).Bool("truncated", page.Truncated).Msg("Response size")

	if !Detect(page.Body, marker) {
		outcome.Kind = OutcomeNoDeal
		outcome.Duration = j.now().Sub(start)
		entryLogger.Info().Msg("No deal")
		return outcome
	}

	outcome.Title = ExtractTitle(page.Body)
	entryLogger.Warn().Str("title", outcome.Title).Str("recipient", entry.NotifyAddress).Msg("Deal found")

	n := notifier.NewDealNotification(entry.NotifyAddress, entry.Target, outcome.Title)
	if err := j.sender.Send(ctx, n); err != nil {
		outcome.Kind = OutcomeNotifyFailed
		outcome.Err = err
		outcome.Duration = j.now().Sub(start)
		entryLogger.Error().Err(err).Msg("Cannot send notification")
		return outcome
	}

	outcome.Kind = OutcomeNotified
	outcome.Duration = j.now().Sub(start)
	entryLogger.Debug().Msg("Notification sent")
	return outcome
}

// skipReason turns a fetch error into a short label for logs and history.
func skipReason(ctx context.Context, err error) string {
	var httpErr *httpclient.HTTPError
	var decodeErr *httpclient.DecodeError
	var netErr *httpclient.NetworkError

	switch {
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("http status %d", httpErr.StatusCode)
	case errors.As(err, &decodeErr):
		return "decode error"
	case httpclient.IsTimeout(err):
		return "timeout"
	case errors.As(err, &netErr):
		return "network error"
	default:
		return "fetch error"
	}
}
