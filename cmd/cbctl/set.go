package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/pkg/bootorder"
)

var (
	setOrder   []string
	setOptions []string
	setBackup  bool
	setDryRun  bool
)

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringSliceVarP(&setOrder, "boot-order", "b", nil, "Record names to boot first, in order")
	cmd.Flags().StringArrayVarP(&setOptions, "option", "o", nil, "Option as keyword=value (repeatable)")
	cmd.Flags().BoolVar(&setBackup, "backup", false, "Copy the image to <rom>.bak before writing")
	cmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show the result without writing the image")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <rom>",
		Short: "Change the boot order and options without the editor",
		Long: `The set command reorders boot records and changes options in one pass.
Records named with -b move to the front in the given order; the others keep
their relative order behind them. Options are given as keyword=value.

Toggle options (uartc, uartd) take one of their labels. The words first and
second, and 1 and 0, also work: first and 1 select the first label (UART),
matching the value the editor shows for it.

Example:
  cbctl set coreboot.rom -b "mSATA,USB"
  cbctl set coreboot.rom -o pxen=on -o watchdog=0x3c
  cbctl set coreboot.rom -b "SD card" -o uartc=GPIO --backup
  cbctl set coreboot.rom -o usben=off --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

func runSet(args []string) error {
	romPath := args[0]

	if len(setOrder) == 0 && len(setOptions) == 0 {
		return fmt.Errorf("nothing to change: give --boot-order and/or --option")
	}

	printVerbose("Editing boot data: %s\n", romPath)

	opts := bootOptions()
	opts.CreateBackup = setBackup
	opts.DryRun = setDryRun

	var result *bootdata.Config
	err := bootorder.Edit(romPath, func(c *bootdata.Config) error {
		if err := c.MoveNames(setOrder); err != nil {
			return err
		}
		for _, s := range setOptions {
			if err := c.ApplySetting(s); err != nil {
				return err
			}
			printVerbose("  set %s\n", s)
		}
		result = c.Clone()
		return nil
	}, opts)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", romPath, err)
	}

	if jsonOut {
		out := showResult(result)
		out["rom"] = romPath
		out["written"] = !setDryRun
		return printJSON(out)
	}

	printInfo("Boot order: %s\n", orderSummary(result))
	if setDryRun {
		printInfo("\nDry run, %s not modified\n", romPath)
		return nil
	}
	printInfo("\n✓ Boot data updated\n")
	if setBackup {
		printInfo("Backup created: %s.bak\n", romPath)
	}
	return nil
}
