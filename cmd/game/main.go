// Package main provides the local terminal entrypoint for reflex.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/reflex/internal/audio"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/loop"
)

var (
	configPath string
	seed       uint64
	sound      bool
	logFile    string
	logLevel   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "reflex",
		Short:        "Terminal aim trainer",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runGameCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to the TOML config file")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for target positions (0 picks one)")
	rootCmd.Flags().BoolVar(&sound, "sound", false, "play hit and miss tones")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func runGameCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyUintConfig(cmd, "seed", &seed, fileCfg.Game.Seed)
	applyBoolConfig(cmd, "sound", &sound, fileCfg.Game.Sound)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	settings := fileCfg.Apply(config.Default())
	settings.Seed = seed
	settings.Sound = sound
	settings.LogLevel = logLevel
	if err := settings.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(logFile, settings.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	var observers []loop.Observer
	if settings.Sound {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			// Non-fatal, the game runs without sound
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			observers = append(observers, player)
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "seed", settings.Seed, "sound", settings.Sound)
	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.RunOptions{
		Settings:  settings,
		Logger:    logger,
		Observers: observers,
		Profile:   termenv.EnvColorProfile(),
	})
	if err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}

// newLogger logs to path, or nowhere when path is empty: the terminal is
// in raw mode and owned by the game.
func newLogger(path, level string) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if path == "" {
		logger := log.New(io.Discard)
		return logger, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "reflex",
	})
	return logger, func() { _ = f.Close() }, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file if missing and print its path",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), configPath)
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyUintConfig(cmd *cobra.Command, name string, target *uint64, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = uint64(*value)
}
