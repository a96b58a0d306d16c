package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/flash"
	"github.com/joshuapare/bootkit/flash/cbfs"
	"github.com/joshuapare/bootkit/internal/logger"
)

var entriesRegion string

func init() {
	cmd := newEntriesCmd()
	cmd.Flags().StringVar(&entriesRegion, "region", "", "CBFS region to list (default from config, COREBOOT)")
	rootCmd.AddCommand(cmd)
}

func newEntriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries <rom>",
		Short: "List the CBFS entries of a region",
		Long: `The entries command lists the files stored in a CBFS region with their
type, offset, length and alignment, followed by the used and free space.

Example:
  cbctl entries coreboot.rom
  cbctl entries coreboot.rom --region FW_MAIN_A
  cbctl entries coreboot.rom --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(args)
		},
	}
	return cmd
}

type entryJSON struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Offset     int    `json:"offset"`
	DataOffset int    `json:"data_offset"`
	Length     int    `json:"length"`
	Align      int    `json:"align,omitempty"`
}

func runEntries(args []string) error {
	romPath := args[0]
	region := entriesRegion
	if region == "" {
		region = cfg.Names.Primary
	}

	printVerbose("Opening image: %s\n", romPath)

	img, err := flash.Open(romPath, &flash.OpenOptions{Logger: logger.L})
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	r, err := img.ReadRegion(region)
	if err != nil {
		return err
	}
	st, err := cbfs.Open(r.Bytes())
	if err != nil {
		return fmt.Errorf("region %s: %w", region, err)
	}
	entries := st.Entries()

	if jsonOut {
		out := make([]entryJSON, len(entries))
		for i, e := range entries {
			out[i] = entryJSON{
				Name:       entryName(e),
				Type:       cbfs.TypeName(e.Type),
				Offset:     e.Offset,
				DataOffset: e.DataOffset,
				Length:     e.Len,
				Align:      e.Align,
			}
		}
		return printJSON(map[string]interface{}{
			"rom":     romPath,
			"region":  region,
			"entries": out,
			"used":    st.Used(),
			"free":    st.Free(),
		})
	}

	printInfo("%-24s %-10s %10s %10s %8s\n", "NAME", "TYPE", "OFFSET", "LENGTH", "ALIGN")
	for _, e := range entries {
		align := "-"
		if e.Align > 0 {
			align = fmt.Sprintf("0x%x", e.Align)
		}
		printInfo("%-24s %-10s 0x%08x %10d %8s\n", entryName(e), cbfs.TypeName(e.Type), e.Offset, e.Len, align)
	}
	printInfo("\n%d entries in %s, %d bytes used, %d bytes free\n", len(entries), region, st.Used(), st.Free())
	return nil
}

// entryName labels free-space records the way cbfstool print does.
func entryName(e cbfs.Entry) string {
	if e.Empty() {
		return "(empty)"
	}
	return e.Name
}
