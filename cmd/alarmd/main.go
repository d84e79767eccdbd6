// alarmd is the alarm clock daemon: it loads the schedule from local
// storage and runs the trigger engine against the system clock until
// interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/audio"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/clock"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/device"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/engine"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "alarmd",
		Short: "Recurring alarm clock daemon",
		Long: `alarmd runs the alarm clock core: recurring alarm definitions with
per-date overrides, a background trigger loop, and snooze/dismiss
handling. Schedule data is kept in local storage under the data
directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	st := store.Open(backend, logger)
	defer func() { _ = st.Close() }()

	// Try the real audio device first; a headless or misconfigured box
	// still runs, it just logs instead of ringing audibly.
	var sound device.Sound
	if player, err := audio.NewPlayer(cfg.SoundsDir, logger); err != nil {
		logger.Warn("audio device unavailable, using mock output", zap.Error(err))
		sound = device.NewLogSound(logger)
	} else {
		sound = player
	}
	indicator := device.NewLogIndicator(logger)

	eng := engine.New(st, clock.NewSystem(), sound, indicator, logger, engine.Options{
		SnoozeTime:    time.Duration(cfg.SnoozeMinutes) * time.Minute,
		RingTimeout:   time.Duration(cfg.RingTimeoutMinutes) * time.Minute,
		CheckInterval: time.Duration(cfg.CheckIntervalSeconds) * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.Start(ctx)

	if next := eng.NextAlarm(); next != nil {
		logger.Info("next alarm",
			zap.String("alarm_id", next.AlarmID),
			zap.String("time", next.Time),
			zap.String("target_date", next.TargetDate),
			zap.Int("minutes_until", next.MinutesUntil),
		)
	} else {
		logger.Info("no alarms scheduled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	eng.Stop()
	return nil
}

func openBackend(cfg config) (store.Backend, error) {
	if cfg.Storage == "json" {
		return store.NewFile(cfg.DataDir)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}
	return store.NewBolt(filepath.Join(cfg.DataDir, "alarmclock.db"))
}
