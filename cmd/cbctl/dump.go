package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/internal/writer"
	"github.com/joshuapare/bootkit/pkg/bootorder"
)

var (
	dumpArtifact string
	dumpOutput   string
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpArtifact, "artifact", "a", "order", "Artifact to print: order, map or padded")
	cmd.Flags().StringVarP(&dumpOutput, "output", "O", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <rom>",
		Short: "Print the boot data artifacts as the firmware reads them",
		Long: `The dump command serializes the boot configuration of an image and prints
one artifact: the boot order with options ("order"), the record map ("map")
or the order padded to a full flash sector ("padded").

Example:
  cbctl dump coreboot.rom
  cbctl dump coreboot.rom --artifact map
  cbctl dump coreboot.rom --artifact padded -O bootorder.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	romPath := args[0]

	c, err := bootorder.Read(romPath, bootOptions())
	if err != nil {
		return err
	}

	data, err := artifact(c, dumpArtifact)
	if err != nil {
		return err
	}

	if dumpOutput != "" {
		w := &writer.FileWriter{Path: dumpOutput}
		if err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", dumpOutput, err)
		}
		printVerbose("Wrote %d bytes to %s\n", len(data), dumpOutput)
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

func artifact(c *bootdata.Config, name string) ([]byte, error) {
	switch name {
	case "order":
		return bootdata.DumpOrder(c), nil
	case "map":
		return bootdata.DumpMap(c), nil
	case "padded":
		return bootdata.PaddedOrder(c)
	default:
		return nil, fmt.Errorf("unknown artifact %q (want order, map or padded)", name)
	}
}
