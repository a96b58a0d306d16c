package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/flash"
	"github.com/joshuapare/bootkit/internal/logger"
	"github.com/joshuapare/bootkit/internal/textenc"
)

func init() {
	rootCmd.AddCommand(newRegionsCmd())
}

func newRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions <rom>",
		Short: "List the FMAP regions of an image",
		Long: `The regions command prints the FMAP of an image: every area with its
offset, size and flags. Images without an FMAP are reported as legacy images
holding a single COREBOOT region.

Example:
  cbctl regions coreboot.rom
  cbctl regions coreboot.rom --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(args)
		},
	}
	return cmd
}

type regionJSON struct {
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	Flags  string `json:"flags,omitempty"`
}

func runRegions(args []string) error {
	romPath := args[0]

	printVerbose("Opening image: %s\n", romPath)

	img, err := flash.Open(romPath, &flash.OpenOptions{Logger: logger.L})
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	areas := img.Areas()

	if jsonOut {
		out := make([]regionJSON, len(areas))
		for i, a := range areas {
			out[i] = regionJSON{Name: textenc.Display(a.Name), Offset: a.Offset, Size: a.Size, Flags: a.FlagString()}
		}
		result := map[string]interface{}{
			"rom":     romPath,
			"size":    img.Size(),
			"legacy":  img.Legacy(),
			"regions": out,
		}
		if !img.Legacy() {
			result["fmap_offset"] = img.FMapOffset()
			result["fmap_name"] = img.FMap().Name()
		}
		return printJSON(result)
	}

	if img.Legacy() {
		printInfo("%s: no FMAP, legacy image of %d bytes\n", romPath, img.Size())
	} else {
		m := img.FMap()
		printInfo("%s: FMAP %q v%d.%d at 0x%x, %d bytes\n",
			romPath, textenc.Display(m.Name()), m.VersionMajor(), m.VersionMinor(), img.FMapOffset(), img.Size())
	}
	printInfo("\n%-24s %10s %10s  %s\n", "NAME", "OFFSET", "SIZE", "FLAGS")
	for _, a := range areas {
		printInfo("%-24s 0x%08x 0x%08x  %s\n", textenc.Display(a.Name), a.Offset, a.Size, a.FlagString())
	}
	return nil
}
