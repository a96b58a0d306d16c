package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/cmd/cbctl/tui"
	"github.com/joshuapare/bootkit/internal/textenc"
	"github.com/joshuapare/bootkit/pkg/bootorder"
)

func init() {
	rootCmd.AddCommand(newShowCmd())
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <rom>",
		Short: "Show the boot order and option values",
		Long: `The show command prints the boot records in priority order followed by
the firmware options. Use --verbose to list the devices of every record.

Example:
  cbctl show coreboot.rom
  cbctl show coreboot.rom -v
  cbctl show coreboot.rom --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args)
		},
	}
	return cmd
}

type recordJSON struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Devices []string `json:"devices"`
}

type optionJSON struct {
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Value       int    `json:"value"`
	Display     string `json:"display"`
}

// recordKey is the label that selects record i in listings and in the
// interactive editor.
func recordKey(i int) string {
	return tui.RecordLabel(i)
}

func runShow(args []string) error {
	romPath := args[0]

	printVerbose("Reading boot data: %s\n", romPath)

	c, err := bootorder.Read(romPath, bootOptions())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(showResult(c))
	}

	printInfo("Boot order:\n")
	if len(c.Records) == 0 {
		printInfo("  (no boot records)\n")
	}
	for i, r := range c.Records {
		printInfo("  %s  %s\n", recordKey(i), textenc.Display(r.Name))
		for _, dev := range r.Devices {
			printVerbose("       %s\n", dev)
		}
	}

	printInfo("\nOptions:\n")
	for _, def := range bootdata.Options() {
		printInfo("  %-12s %-8s %s\n", def.Keyword, c.FormatValue(def.ID), def.Description)
	}
	return nil
}

func showResult(c *bootdata.Config) map[string]interface{} {
	records := make([]recordJSON, len(c.Records))
	for i, r := range c.Records {
		records[i] = recordJSON{
			Key:     recordKey(i),
			Name:    textenc.Display(r.Name),
			Devices: append([]string{}, r.Devices...),
		}
	}
	options := make([]optionJSON, 0, bootdata.NumOptions)
	for _, def := range bootdata.Options() {
		options = append(options, optionJSON{
			Keyword:     def.Keyword,
			Description: def.Description,
			Kind:        def.Kind.String(),
			Value:       c.Value(def.ID),
			Display:     c.FormatValue(def.ID),
		})
	}
	return map[string]interface{}{
		"records": records,
		"options": options,
	}
}

// orderSummary renders the record names in order on one line.
func orderSummary(c *bootdata.Config) string {
	names := make([]string, len(c.Records))
	for i, r := range c.Records {
		names[i] = textenc.Display(r.Name)
	}
	return strings.Join(names, ", ")
}
