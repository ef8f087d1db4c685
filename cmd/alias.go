package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zjrosen/addressbook/internal/app"
	"github.com/zjrosen/addressbook/internal/config"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage command aliases",
	Long: `Create, remove and list command aliases.

Aliases are alphabetic shorthands for address book commands, for example
'ls' for 'list'. Aliases cannot shadow a command, point at another alias, or
point at a meta command such as help or exit.`,
}

var aliasAddCmd = &cobra.Command{
	Use:   "add COMMAND ALIAS",
	Short: "Create or replace an alias for a command",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		command, name := args[0], args[1]
		if isAlias, _ := a.Aliases.IsAlias(command); !isAlias && !a.Catalog.IsValidCommand(command) {
			return fmt.Errorf("unknown command: %s", command)
		}
		if err := a.Aliases.RegisterAlias(command, name); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Alias %s -> %s\n", name, command)
		return nil
	},
}

var aliasRemoveCmd = &cobra.Command{
	Use:     "remove ALIAS",
	Aliases: []string{"rm"},
	Short:   "Remove an alias",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		a.Aliases.UnregisterAlias(args[0])
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed alias %s\n", args[0])
		return nil
	},
}

var aliasListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all aliases",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		aliases := a.Aliases.AliasList()
		if len(aliases) == 0 {
			_, _ = fmt.Fprintln(out, "No aliases defined")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ALIAS\tCOMMAND")
		for _, name := range a.Aliases.Aliases() {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", name, aliases[name])
		}
		return w.Flush()
	},
}

var aliasClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every alias",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		n := a.Aliases.Len()
		a.Aliases.ClearAliases()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d aliases\n", n)
		return nil
	},
}

var migratePath string

var aliasMigrateCmd = &cobra.Command{
	Use:   "migrate BACKEND",
	Short: "Copy aliases to another storage backend and switch to it",
	Long: `Copy every alias from the current store to BACKEND ("yaml" or "sqlite")
and record the new backend in the config file.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{config.BackendYAML, config.BackendSQLite},
	RunE: func(cmd *cobra.Command, args []string) error {
		target := cfg
		target.Aliases.Backend = args[0]
		target.Aliases.Path = migratePath
		if err := config.ValidateAliases(target.Aliases); err != nil {
			return err
		}
		if target.AliasStorePath() == cfg.AliasStorePath() {
			return fmt.Errorf("aliases are already stored at %s", cfg.AliasStorePath())
		}

		src, closeSrc, err := app.OpenStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeSrc() }()

		dst, closeDst, err := app.OpenStore(target)
		if err != nil {
			return err
		}
		defer func() { _ = closeDst() }()

		n, err := app.CopyAliases(src, dst)
		if err != nil {
			return err
		}
		if err := config.SaveAliasBackend(configPath(), target.Aliases.Backend, migratePath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Copied %d aliases to %s\n", n, target.AliasStorePath())
		return nil
	},
}

func init() {
	aliasMigrateCmd.Flags().StringVar(&migratePath, "path", "",
		"store location (default: derived from data_dir)")

	aliasCmd.AddCommand(aliasAddCmd, aliasRemoveCmd, aliasListCmd, aliasClearCmd, aliasMigrateCmd)
}
