package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/bootkit/bootdata"
)

func init() {
	rootCmd.AddCommand(newOptionsCmd())
}

func newOptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the known firmware options",
		Long: `The options command lists every option keyword with its editor shortcut,
the values "cbctl set -o" accepts and a description.

Example:
  cbctl options
  cbctl options --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions()
		},
	}
	return cmd
}

func runOptions() error {
	defs := bootdata.Options()

	if jsonOut {
		out := make([]map[string]interface{}, len(defs))
		for i, d := range defs {
			out[i] = map[string]interface{}{
				"keyword":     d.Keyword,
				"shortcut":    string(d.Shortcut),
				"kind":        d.Kind.String(),
				"accepts":     bootdata.Accepted(d.ID),
				"description": d.Description,
			}
		}
		return printJSON(out)
	}

	printInfo("%-12s %-3s %-22s %s\n", "KEYWORD", "KEY", "VALUES", "DESCRIPTION")
	for _, d := range defs {
		printInfo("%-12s %-3c %-22s %s\n", d.Keyword, d.Shortcut, bootdata.Accepted(d.ID), d.Description)
	}
	return nil
}
