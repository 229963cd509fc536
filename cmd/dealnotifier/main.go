package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/aleister1102/dealnotifier/internal/job"
	"github.com/aleister1102/dealnotifier/internal/logger"
	"github.com/aleister1102/dealnotifier/internal/messages"
	"github.com/aleister1102/dealnotifier/internal/scheduler"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := ParseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).With().Timestamp().Logger()

	if err := loadDotEnv(flags.EnvFile); err != nil {
		bootLogger.Error().Err(err).Str("path", flags.EnvFile).Msg("Could not load dotenv file")
		return 1
	}

	overrides := map[string]string{}
	if flags.ProductsFile != "" {
		overrides[config.KeyProductsFilename] = flags.ProductsFile
	}

	opts := config.DefaultConfigManagerOptions()
	opts.Logger = bootLogger
	opts.Mode = flags.Mode
	opts.PropertyOverrides = overrides
	cm, err := config.NewConfigManager(flags.ConfigFile, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, messages.New(os.Getenv("LANG")).Get(messages.KeyConfigError, err))
		return 1
	}
	defer func() { _ = cm.Close() }()

	gCfg := cm.GetConfig()
	msgs := messages.New(gCfg.NotificationConfig.Language)

	appLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, msgs.Get(messages.KeyConfigError, err))
		return 1
	}
	cm.SetLogger(appLogger)
	fmt.Println(msgs.Get(messages.KeyBanner, gCfg.Mode))
	appLogger.Info().
		Str("mode", gCfg.Mode).
		Str("config_path", cm.GetConfigPath()).
		Str("language", msgs.Language().String()).
		Msg("Deal notifier starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := newReloadingSender(cm, appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Failed to initialize notification channels")
		return 1
	}

	notifyJob, err := job.NewNotifyJob(cm.Properties(), sender, appLogger,
		job.WithFetcherFactory(reloadingFetcherFactory(cm, appLogger)))
	if err != nil {
		appLogger.Error().Err(err).Msg("Failed to create notify job")
		return 1
	}

	sched, err := scheduler.NewScheduler(gCfg.SchedulerConfig, notifyJob, appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Failed to create scheduler")
		return 1
	}
	defer func() { _ = sched.Close() }()

	if flags.History > 0 {
		if err := printHistory(os.Stdout, sched.History(), flags.History); err != nil {
			appLogger.Error().Err(err).Msg("Cannot list run history")
			return 1
		}
		return 0
	}

	sched.OnRun(func(summary *job.RunSummary, err error) {
		printSummary(os.Stdout, msgs, summary, err)
	})

	switch gCfg.Mode {
	case config.ModeAutomated:
		if err := cm.StartHotReload(ctx); err != nil {
			appLogger.Warn().Err(err).Msg("Hot reload unavailable, continuing with current configuration")
		}
		if err := sched.Start(ctx); err != nil {
			appLogger.Error().Err(err).Msg("Scheduler stopped with error")
			return 1
		}
		appLogger.Info().Msg("Deal notifier finished (automated mode)")
		return 0

	default:
		if _, err := sched.RunOnce(ctx); err != nil {
			return 1
		}
		appLogger.Info().Msg("Deal notifier finished (onetime mode)")
		return 0
	}
}
