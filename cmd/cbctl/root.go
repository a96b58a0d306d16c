package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/internal/cbfstool"
	"github.com/joshuapare/bootkit/internal/config"
	"github.com/joshuapare/bootkit/internal/logger"
	"github.com/joshuapare/bootkit/pkg/bootorder"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	jsonOut      bool
	configPath   string
	logFile      string
	logDir       string
	cbfstoolPath string

	// cfg is loaded before every command runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cbctl",
	Short: "Edit the boot order and options of coreboot flash images",
	Long: `cbctl inspects and edits the boot order and firmware options stored
in coreboot flash images. Images with an FMAP are edited through their
BOOTORDER regions; images without one are treated as a single CBFS.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default $XDG_CONFIG_HOME/bootkit/config.ini)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append JSON logs to this file")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write daily JSON logs to this directory, kept for 30 days")
	rootCmd.PersistentFlags().
		StringVar(&cbfstoolPath, "cbfstool", "", "Access the image through this cbfstool binary")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and initializes logging. Flags override
// the configuration file.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if cbfstoolPath != "" {
		cfg.CBFSTool.Enabled = true
		cfg.CBFSTool.Path = cbfstoolPath
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logDir != "" {
		cfg.Log.Dir = logDir
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	// The interactive editor owns the terminal; it only logs to files.
	interactive := cmd.Name() == "edit"
	toFile := cfg.Log.File != "" || cfg.Log.Dir != ""
	return logger.Init(logger.Options{
		Enabled: toFile || (verbose && !interactive),
		Level:   level,
		JSON:    cfg.Log.JSON,
		File:    cfg.Log.File,
		LogDir:  cfg.Log.Dir,
	})
}

// bootOptions builds the bootorder options for the current configuration.
func bootOptions() *bootorder.Options {
	names := cfg.Names
	opts := &bootorder.Options{
		Names:  &names,
		Logger: logger.L,
		OnWarning: func(w bootdata.Warning) {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
			}
		},
	}
	if cfg.CBFSTool.Enabled {
		opts.Open = cbfstoolOpener(cfg.CBFSTool.Path)
	}
	return opts
}

// cbfstoolOpener returns an Opener that runs the given cbfstool binary
// instead of opening the image in process.
func cbfstoolOpener(path string) bootorder.Opener {
	return func(rom string, _ bool, _ bootorder.Names, log *slog.Logger) (bootorder.Backend, error) {
		if _, err := os.Stat(rom); err != nil {
			return nil, err
		}
		return cbfstool.New(path, rom, log), nil
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
