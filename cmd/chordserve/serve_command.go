package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"chordserve/internal/auth"
	"chordserve/internal/convert"
	"chordserve/internal/deps"
	"chordserve/internal/logging"
	"chordserve/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				LogDir: cfg.Logging.LogDir,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			keys := auth.NewKeyStore(cfg.Auth.APIKeys, cfg.Auth.OpenMode)
			if keys.Open() {
				logger.Warn("authentication disabled; every request will be accepted")
			}
			if weak := keys.WeakKeyCount(); weak > 0 {
				logger.Warn("weak API keys configured", logging.Int("count", weak))
			}

			engine := deps.CheckBinaries([]deps.Requirement{deps.Engine(cfg.Convert.Engine)})[0]
			if !engine.Available {
				logger.Warn("conversion engine unavailable; /convert will fail until it is installed",
					logging.String("command", engine.Command),
					logging.String("detail", engine.Detail))
			}

			lockPath := filepath.Join(cfg.Convert.WorkDir, "chordserve.lock")
			lock := flock.New(lockPath)
			acquired, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !acquired {
				return errors.New("another chordserve instance is already running")
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release instance lock", logging.Error(err))
				}
			}()

			runner := convert.NewRunner(
				cfg.Convert.Engine,
				cfg.Convert.WorkDir,
				time.Duration(cfg.Convert.TimeoutSeconds)*time.Second,
				logger)

			srv := server.New(cfg, runner, logger)
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			defer srv.Stop()

			<-runCtx.Done()
			logger.Info("chordserve shutting down")
			return nil
		},
	}
}
