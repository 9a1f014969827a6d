package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/index"
	"github.com/mesh-intelligence/mdmreg/internal/registry"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func newEntityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity",
		Aliases: []string{"entities"},
		Short:   "Create, inspect and edit entities",
	}
	cmd.AddCommand(newEntityCreateCmd(a))
	cmd.AddCommand(newEntityListCmd(a))
	cmd.AddCommand(newEntityShowCmd(a))
	cmd.AddCommand(newEntityUpdateCmd(a))
	cmd.AddCommand(newEntityDeleteCmd(a))
	cmd.AddCommand(newEntityRefsCmd(a))
	return cmd
}

// entityFlags are the attribute flags shared by create and update.
type entityFlags struct {
	name        string
	typ         string
	status      string
	description string
	externalIDs []string
}

func (f *entityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.typ, "type", "", "type tag used as the schema key")
	cmd.Flags().StringVar(&f.status, "status", "", "draft, published or retired")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringSliceVar(&f.externalIDs, "external-id", nil, "identifier in an external system (repeatable)")
}

func newEntityCreateCmd(a *app) *cobra.Command {
	var f entityFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an entity",
		Long: `Create commits a new entity and prints its id. Unset attributes take
their defaults: empty strings, no fields or relationships, status draft.

Example:
  mdmreg entity create --name "Raw Material" --type raw-material
  mdmreg entity create --name Supplier --type supplier --external-id SAP:LFA1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := types.Draft{
				Name:        f.name,
				Type:        f.typ,
				Description: f.description,
				ExternalIDs: f.externalIDs,
			}
			if f.status != "" {
				st, err := types.ParseStatus(f.status)
				if err != nil {
					return err
				}
				d.Status = st
			}

			var created types.Entity
			err := a.edit(func(sess *registry.Session) error {
				sess.SetDraft(d)
				created = sess.Commit()
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), created)
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newEntityListCmd(a *app) *cobra.Command {
	var (
		filter index.Filter
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities",
		Long: `List prints the registry's entities in order. Filters are ANDed.

Example:
  mdmreg entity list
  mdmreg entity list --status published
  mdmreg entity list --name material --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				st, err := types.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = st
			}

			ix, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			defer ix.Close()

			rows, err := ix.ListEntities(cmd.Context(), filter)
			if err != nil {
				return systemError(err)
			}

			if a.flags.jsonMode {
				if rows == nil {
					rows = []index.EntityRow{}
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entities found.")
				return nil
			}
			table := make([][]string, len(rows))
			for i, r := range rows {
				table[i] = []string{r.ID, r.Name, r.Type, string(r.Status),
					strconv.Itoa(r.Fields), strconv.Itoa(r.Relationships)}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE", "STATUS", "FIELDS", "RELATIONSHIPS"}, table)
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d entity(s)\n", len(rows))

			counts, err := ix.CountByStatus(cmd.Context())
			if err != nil {
				return systemError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry: %s\n", formatStatusCounts(counts))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (draft, published, retired)")
	cmd.Flags().StringVar(&filter.Type, "type", "", "filter by type tag")
	cmd.Flags().StringVar(&filter.Name, "name", "", "filter by name substring (case-insensitive)")
	cmd.Flags().StringVar(&filter.ExternalID, "external-id", "", "filter by external identifier")
	return cmd
}

// formatStatusCounts renders counts as "2 draft, 1 published, 0 retired",
// followed by any other statuses found in imported files.
func formatStatusCounts(counts map[types.Status]int) string {
	known := []types.Status{types.StatusDraft, types.StatusPublished, types.StatusRetired}
	parts := make([]string, 0, len(counts)+len(known))
	for _, st := range known {
		parts = append(parts, fmt.Sprintf("%d %s", counts[st], st))
		delete(counts, st)
	}
	others := make([]string, 0, len(counts))
	for st := range counts {
		others = append(others, string(st))
	}
	sort.Strings(others)
	for _, st := range others {
		label := st
		if label == "" {
			label = "(no status)"
		}
		parts = append(parts, fmt.Sprintf("%d %s", counts[types.Status(st)], label))
	}
	return strings.Join(parts, ", ")
}

func newEntityShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entity-id>",
		Short: "Print an entity as JSON",
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
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
}

func newEntityUpdateCmd(a *app) *cobra.Command {
	var f entityFlags
	cmd := &cobra.Command{
		Use:   "update <entity-id>",
		Short: "Change an entity's attributes",
		Long: `Update overwrites only the attributes whose flags are given.

Example:
  mdmreg entity update 0194... --status published
  mdmreg entity update 0194... --name "Finished Good" --description ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch registry.EntityPatch
			changed := cmd.Flags().Changed
			if changed("name") {
				patch.Name = &f.name
			}
			if changed("type") {
				patch.Type = &f.typ
			}
			if changed("status") {
				st, err := types.ParseStatus(f.status)
				if err != nil {
					return err
				}
				patch.Status = &st
			}
			if changed("description") {
				patch.Description = &f.description
			}
			if changed("external-id") {
				patch.ExternalIDs = &f.externalIDs
			}

			err := a.mutate(func(s *registry.Store) error {
				return s.UpdateEntity(args[0], patch)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newEntityDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <entity-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an entity",
		Long: `Delete removes the entity. Relationships and relation fields on other
entities that point at it are kept; "mdmreg check" reports them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.edit(func(sess *registry.Session) error {
				return sess.Remove(args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newEntityRefsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refs <entity-id>",
		Short: "List relationships and relation fields pointing at an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			defer ix.Close()

			refs, err := ix.Referrers(cmd.Context(), args[0])
			if err != nil {
				return systemError(err)
			}
			if a.flags.jsonMode {
				if refs == nil {
					refs = []index.Reference{}
				}
				return printJSON(cmd.OutOrStdout(), refs)
			}
			if len(refs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing refers to %s.\n", args[0])
				return nil
			}
			rows := make([][]string, len(refs))
			for i, r := range refs {
				rows[i] = []string{r.EntityID, r.EntityName, r.Kind, r.ItemID, r.ItemName}
			}
			printTable(cmd.OutOrStdout(), []string{"ENTITY", "NAME", "KIND", "ITEM", "ITEM NAME"}, rows)
			return nil
		},
	}
}
