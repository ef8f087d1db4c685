package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve INPUT...",
	Short: "Show the command an input line runs after alias expansion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		result := a.Parser.Parse(strings.Join(args, " "))
		if result.Error != nil {
			return result.Error
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Expanded())
		return nil
	},
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List address book commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "COMMAND\tALIASABLE\tDESCRIPTION")
		for _, c := range a.Catalog.All() {
			aliasable := "yes"
			if a.Catalog.IsDisallowed(c.Name) {
				aliasable = "no"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, aliasable, c.Description)
		}
		return w.Flush()
	},
}
