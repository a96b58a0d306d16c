package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/cmd/cbctl/tui"
	"github.com/joshuapare/bootkit/internal/logger"
	"github.com/joshuapare/bootkit/pkg/bootorder"
)

var editBackup bool

// errDiscarded ends an edit session without storing anything.
var errDiscarded = errors.New("changes discarded")

// runEditor is swapped out in tests.
var runEditor = func(c *bootdata.Config, opts tui.Options) (bool, error) {
	return tui.Run(c, opts)
}

func init() {
	cmd := newEditCmd()
	cmd.Flags().BoolVar(&editBackup, "backup", false, "Copy the image to <rom>.bak before saving")
	rootCmd.AddCommand(cmd)
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <rom>",
		Short: "Edit the boot order and options interactively",
		Long: `The edit command opens a full screen editor with a main menu:

  B  Edit boot order   press a record's letter to move it to the cursor,
                       PgUp/Ctrl+P and PgDn/Ctrl+N move the current record
  O  Edit options      press an option's key or space to toggle it
  S  Save & exit
  X  Exit without saving

The image stays locked while the editor runs and is written only after
"Save & exit". Logs go to --log-file when given.

Example:
  cbctl edit coreboot.rom
  cbctl edit coreboot.rom --backup --log-file cbctl.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(args)
		},
	}
	return cmd
}

func runEdit(args []string) error {
	romPath := args[0]
	logger.Info("starting editor", "path", romPath)

	opts := bootOptions()
	opts.CreateBackup = editBackup
	// Warnings would be drawn over by the editor.
	opts.OnWarning = nil

	err := bootorder.Edit(romPath, func(c *bootdata.Config) error {
		save, err := runEditor(c, tui.Options{Title: romPath, Devices: verbose})
		if err != nil {
			return fmt.Errorf("editor: %w", err)
		}
		if !save {
			return errDiscarded
		}
		return nil
	}, opts)

	switch {
	case errors.Is(err, errDiscarded):
		logger.Info("editor exited without saving", "path", romPath)
		printInfo("No changes written to %s\n", romPath)
		return nil
	case err != nil:
		return err
	}

	logger.Info("saved boot data", "path", romPath)
	printInfo("✓ Boot data saved to %s\n", romPath)
	if editBackup {
		printInfo("Backup created: %s.bak\n", romPath)
	}
	return nil
}
