package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavedeck/internal/app"
	"github.com/llehouerou/wavedeck/internal/config"
	"github.com/llehouerou/wavedeck/internal/engine"
	"github.com/llehouerou/wavedeck/internal/logging"
	"github.com/llehouerou/wavedeck/internal/stderr"
	"github.com/llehouerou/wavedeck/internal/ui/nowplaying"
	"github.com/llehouerou/wavedeck/internal/version"
)

var (
	configFile string
	logLevel   string
	noRestore  bool
)

var rootCmd = &cobra.Command{
	Use:   "wavedeck [paths...]",
	Short: "Terminal audio player that remembers where you stopped",
	Long: `wavedeck plays local audio files from a queue.

With paths, the queue is replaced and the first path starts playing.
Without paths, the last saved session is resumed paused at its playhead.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlayer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/wavedeck/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.Flags().BoolVar(&noRestore, "no-restore", false, "start with an empty queue")
	rootCmd.AddCommand(addCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFiles(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runPlayer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logCloser, err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Output:     cfg.Log.Output,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Logging to stderr would feed the capture back into itself.
	if cfg.Log.Output != "stderr" {
		capture, err := stderr.Start(zlog.Logger)
		if err != nil {
			zlog.Warn().Err(err).Msg("capture native stderr")
		} else {
			defer capture.Close()
		}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		if engine.IsInitError(err) {
			zlog.Error().Err(err).Msg("audio engine unavailable")
			return errors.Wrap(err, "audio engine unavailable")
		}
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			zlog.Warn().Err(err).Msg("shutdown")
		}
	}()

	switch {
	case len(args) > 0:
		if err := a.PlayPaths(ctx, args); err != nil {
			zlog.Warn().Err(err).Msg("play arguments")
		}
	case !noRestore:
		a.Restore(ctx)
	}

	model := nowplaying.New(a.Playback(), a.Player(), a.Session())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run ui")
	}
	return nil
}
