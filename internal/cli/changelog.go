package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/registry"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func newChangelogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Record and list versions of an entity",
	}
	cmd.AddCommand(newChangelogSaveCmd(a))
	cmd.AddCommand(newChangelogListCmd(a))
	return cmd
}

func newChangelogSaveCmd(a *app) *cobra.Command {
	var author, note string
	cmd := &cobra.Command{
		Use:   "save <entity-id>",
		Short: "Snapshot an entity into its change log",
		Long: `Save appends a change-log entry holding a copy of the entity's current
state and prints the entry's version. The first version is 1.0.0; later
versions bump major when fields or relationships were removed or changed
incompatibly, minor when some were added and patch otherwise.

Example:
  mdmreg changelog save 0194... --note "add allergen flags"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("author") {
				author = a.cfg.Author
			}
			var entry types.ChangeLogEntry
			err := a.mutate(func(s *registry.Store) error {
				var err error
				entry, err = s.SaveVersion(args[0], author, note)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entry)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved version %s (%s)\n", entry.Version, entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "author of the entry (default: config author)")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	return cmd
}

func newChangelogListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity-id>",
		Short: "List an entity's change-log entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			e, ok := store.Entity(args[0])
			if !ok {
				return fmt.Errorf("entity %q: %w", args[0], types.ErrNotFound)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), e.ChangeLog)
			}
			if len(e.ChangeLog) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No versions saved.")
				return nil
			}
			rows := make([][]string, len(e.ChangeLog))
			for i, c := range e.ChangeLog {
				rows[i] = []string{c.Version, c.Timestamp.Format(time.RFC3339), c.Author, c.Note}
			}
			printTable(cmd.OutOrStdout(), []string{"VERSION", "TIMESTAMP", "AUTHOR", "NOTE"}, rows)
			return nil
		},
	}
}
