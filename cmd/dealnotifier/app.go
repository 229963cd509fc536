package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/aleister1102/dealnotifier/internal/httpclient"
	"github.com/aleister1102/dealnotifier/internal/job"
	"github.com/aleister1102/dealnotifier/internal/messages"
	"github.com/aleister1102/dealnotifier/internal/notifier"
	"github.com/aleister1102/dealnotifier/internal/scheduler"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultEnvFile = ".env"

// loadDotEnv loads path into the environment. A missing default file is not an error.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// buildSender wires every configured channel. Without any, deals are written to the log.
func buildSender(cfg config.NotificationConfig, msgs *messages.Messages, logger zerolog.Logger) (notifier.Sender, error) {
	multi := notifier.NewMultiSender(logger)

	if cfg.Email.Enabled() {
		email, err := notifier.NewEmailSender(cfg.Email, logger)
		if err != nil {
			return nil, err
		}
		multi.Add("email", email)
	}

	if cfg.DiscordWebhookURL != "" {
		client, err := notifier.NewDiscordHTTPClient(logger)
		if err != nil {
			return nil, err
		}
		discord, err := notifier.NewDiscordSender(cfg.DiscordWebhookURL, client, msgs, logger)
		if err != nil {
			return nil, err
		}
		multi.Add("discord", discord)
	}

	if multi.Len() == 0 {
		logger.Warn().Msg("No notification channel configured, deals will only be logged")
		return notifier.NewLogSender(logger), nil
	}
	return multi, nil
}

// reloadingSender delivers through the channels of the latest notification_config.
type reloadingSender struct {
	current atomic.Pointer[notifier.Sender]
	base    zerolog.Logger
	logger  zerolog.Logger
}

func newReloadingSender(cm *config.ConfigManager, logger zerolog.Logger) (*reloadingSender, error) {
	s := &reloadingSender{base: logger, logger: logger.With().Str("component", "ReloadingSender").Logger()}
	cfg := cm.GetConfig()
	if err := s.rebuild(cfg.NotificationConfig); err != nil {
		return nil, err
	}
	cm.OnReload(func(cfg *config.GlobalConfig) {
		if err := s.rebuild(cfg.NotificationConfig); err != nil {
			s.logger.Error().Err(err).Msg("Cannot rebuild notification channels, keeping previous ones")
			return
		}
		s.logger.Info().Msg("Notification channels reloaded")
	})
	return s, nil
}

// rebuild swaps in the channels for cfg. On error the previous channels stay active.
func (s *reloadingSender) rebuild(cfg config.NotificationConfig) error {
	sender, err := buildSender(cfg, messages.New(cfg.Language), s.base)
	if err != nil {
		return err
	}
	s.current.Store(&sender)
	return nil
}

func (s *reloadingSender) Send(ctx context.Context, n notifier.Notification) error {
	return (*s.current.Load()).Send(ctx, n)
}

// reloadingFetcherFactory builds fetchers from the current http_config, following reloads.
func reloadingFetcherFactory(cm *config.ConfigManager, logger zerolog.Logger) job.FetcherFactory {
	var base atomic.Pointer[httpclient.HTTPClientConfig]
	initial := httpclient.NewHTTPClientConfig(cm.GetConfig().HTTPConfig)
	base.Store(&initial)

	cm.OnReload(func(cfg *config.GlobalConfig) {
		next := httpclient.NewHTTPClientConfig(cfg.HTTPConfig)
		base.Store(&next)
	})

	return func(connectTimeout, readTimeout time.Duration) (job.Fetcher, error) {
		return job.NewHTTPFetcherFactory(*base.Load(), logger)(connectTimeout, readTimeout)
	}
}

// printSummary writes the localized end-of-run line.
func printSummary(w io.Writer, msgs *messages.Messages, summary *job.RunSummary, err error) {
	switch {
	case err != nil:
		_, _ = fmt.Fprintln(w, msgs.Get(messages.KeyRunFailed, err))
	case summary == nil:
	case summary.Cancelled:
		_, _ = fmt.Fprintln(w, msgs.Get(messages.KeyRunCancelled, summary.RunID, summary.Attempted, summary.Total))
	default:
		_, _ = fmt.Fprintln(w, msgs.Get(messages.KeyRunSummary, summary.RunID, summary.Attempted, summary.Deals(), summary.Skipped))
	}
}

// printHistory lists recent runs as a table.
func printHistory(w io.Writer, db *scheduler.DB, limit int) error {
	if db == nil {
		return errors.New("run history is disabled (scheduler_config.sqlite_db_path is empty)")
	}
	runs, err := db.ListRecentRuns(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tTOTAL\tNOTIFIED\tNO DEAL\tNOTIFY FAILED\tSKIPPED")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.RunID, r.StartTime.Local().Format(time.DateTime), r.Status,
			r.Counters.Total, r.Counters.Notified, r.Counters.NoDeal, r.Counters.NotifyFailed, r.Counters.Skipped)
	}
	return tw.Flush()
}
