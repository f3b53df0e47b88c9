package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/helfem/hipgen/config"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/logger"
)

var (
	watchConfigPath string
	watchInterval   time.Duration
)

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate outputs when the config changes",
	Long: `Watch the project config file and regenerate every target when it
changes.

Edits are debounced, regeneration runs are rate limited, and writes by
hipgen itself are ignored, so 'hipgen config set' does not trigger a
reload loop. Runs until interrupted (Ctrl+C).

Examples:
  hipgen watch                   # Watch the project hipgen.toml
  hipgen watch --interval 10s    # At most one regeneration per 10s`,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringVar(&watchConfigPath, "config", "", "Config file to watch (default: project hipgen.toml)")
	WatchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "Minimum time between regeneration runs")
}

func runWatch(cmd *cobra.Command, args []string) error {
	configPath := watchConfigPath
	if configPath == "" {
		configPath = config.ProjectConfigPath()
	}
	if configPath == "" {
		return errors.WithHint(
			errors.New("no project config file found"),
			"run 'hipgen config init' to create hipgen.toml")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	// Render once up front so the watch starts from fresh outputs
	if err := regenerate(cfg); err != nil {
		return err
	}
	pterm.Success.Printf("Initial render complete (%d targets)\n", len(cfg.GetTargets()))

	watcher, err := config.NewConfigWatcher(configPath)
	if err != nil {
		return errors.Wrapf(err, "watching %s", configPath)
	}
	config.SetGlobalWatcher(watcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One regeneration per interval at most; Wait instead of Allow so
	// the final edit of a burst still lands
	limiter := rate.NewLimiter(rate.Every(watchInterval), 1)

	watcher.OnReload(func(newCfg *config.Config) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		if err := regenerate(newCfg); err != nil {
			pterm.Error.Printf("Regeneration failed: %v\n", err)
			return err
		}
		pterm.Success.Printf("Regenerated %d targets\n", len(newCfg.GetTargets()))
		return nil
	})

	watcher.Start()

	pterm.Info.Printf("Watching %s\n", configPath)
	fmt.Printf("\nPress Ctrl+C to stop\n\n")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	cancel()
	if err := watcher.Stop(); err != nil {
		logger.ComponentLogger("watch").Warnw("Failed to stop config watcher",
			logger.FieldError, err)
	}

	fmt.Println("\nWatch stopped")
	return nil
}

// regenerate renders and writes every configured target.
func regenerate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	_, outputs, err := renderTargets(cfg, cfg.Generator.OutputDir)
	if err != nil {
		return err
	}

	targets := cfg.GetTargets()
	for i, out := range outputs {
		if err := out.Write(); err != nil {
			return err
		}
		if err := runFormatter(targets[i], out.Path); err != nil {
			return err
		}
	}
	return nil
}
