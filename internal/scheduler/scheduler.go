package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/aleister1102/dealnotifier/internal/job"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Runner is one execution of the notify job.
type Runner interface {
	Execute(ctx context.Context) (*job.RunSummary, error)
}

// RunListener is called after every run with its result.
type RunListener func(summary *job.RunSummary, err error)

// Scheduler triggers the runner once (onetime mode) or on a cron schedule (automated mode),
// recording every run in the sqlite history when one is configured.
type Scheduler struct {
	cfg       config.SchedulerConfig
	runner    Runner
	db        *DB
	location  *time.Location
	logger    zerolog.Logger
	listeners []RunListener
	now       func() time.Time

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewScheduler creates a Scheduler. An empty SQLiteDBPath disables run history.
func NewScheduler(cfg config.SchedulerConfig, runner Runner, logger zerolog.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, NewError("scheduler requires a runner")
	}
	logger = logger.With().Str("component", "Scheduler").Logger()

	location := time.Local
	if cfg.TimeZone != "" {
		loc, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, WrapError(err, fmt.Sprintf("invalid time zone '%s'", cfg.TimeZone))
		}
		location = loc
	}

	s := &Scheduler{
		cfg:      cfg,
		runner:   runner,
		location: location,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	if cfg.SQLiteDBPath != "" {
		db, err := NewDB(cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, WrapError(err, "failed to initialize run history")
		}
		s.db = db
	} else {
		logger.Info().Msg("Run history disabled")
	}
	return s, nil
}

// OnRun registers a listener invoked after each run.
func (s *Scheduler) OnRun(fn RunListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// History returns the run history database, nil when disabled.
func (s *Scheduler) History() *DB {
	return s.db
}

// RunOnce executes the runner a single time and records the result.
func (s *Scheduler) RunOnce(ctx context.Context) (*job.RunSummary, error) {
	startTime := s.now()
	runID := job.NewRunID(startTime)
	ctx = job.ContextWithRunID(ctx, runID)
	runLogger := s.logger.With().Str("run_id", runID).Logger()

	var dbID int64
	if s.db != nil {
		id, err := s.db.RecordRunStart(runID, startTime)
		if err != nil {
			runLogger.Error().Err(err).Msg("Failed to record run start, continuing without history")
		}
		dbID = id
	}

	summary, runErr := s.runner.Execute(ctx)
	status := runStatus(summary, runErr)

	if s.db != nil && dbID > 0 {
		productsFile := ""
		if summary != nil {
			productsFile = summary.ProductsFile
		}
		errMsg := ""
		if runErr != nil {
			errMsg = runErr.Error()
		}
		if err := s.db.UpdateRunCompletion(dbID, s.now(), status, productsFile, countersFromSummary(summary), errMsg); err != nil {
			runLogger.Error().Err(err).Msg("Failed to record run completion")
		}
	}

	if runErr != nil {
		runLogger.Error().Err(runErr).Str("status", status).Msg("Run failed")
	} else if summary != nil {
		runLogger.Info().Str("status", status).Int("deals", summary.Deals()).Msg("Run finished")
	}

	s.mu.Lock()
	listeners := append([]RunListener(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(summary, runErr)
	}
	return summary, runErr
}

// Start registers the runner with cron and blocks until ctx is cancelled or Stop is called.
// Either one cancels the running job, which is waited for before Start returns.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	runCtx, cancelRuns := context.WithCancel(ctx)
	defer cancelRuns()

	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithParser(config.CronParser()),
		cron.WithLocation(s.location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	entryID, err := c.AddFunc(s.cfg.CronExpression, func() {
		_, _ = s.RunOnce(runCtx)
	})
	if err != nil {
		return WrapError(err, fmt.Sprintf("invalid cron expression '%s'", s.cfg.CronExpression))
	}

	s.logLastRun()
	c.Start()
	s.logger.Info().
		Str("cron_expression", s.cfg.CronExpression).
		Str("time_zone", s.location.String()).
		Time("next_run", c.Entry(entryID).Next).
		Msg("Scheduler started")

	if s.cfg.RunOnStart {
		// Going through the wrapped job keeps the initial run under SkipIfStillRunning.
		wrapped := c.Entry(entryID).WrappedJob
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			wrapped.Run()
		}()
	}

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Context cancelled, stopping scheduler")
	case <-s.stopChan:
		s.logger.Info().Msg("Stop requested, stopping scheduler")
	}

	cancelRuns()
	<-c.Stop().Done()
	s.wg.Wait()
	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// Stop makes Start return. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Close releases the run history database.
func (s *Scheduler) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Scheduler) logLastRun() {
	if s.db == nil {
		return
	}
	last, err := s.db.GetLastRunTime()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not read last run time")
		return
	}
	if last == nil {
		s.logger.Info().Msg("No completed run in history")
		return
	}
	s.logger.Info().Time("last_run", last.In(s.location)).Msg("Last completed run")
}
