package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/index"
	"github.com/mesh-intelligence/mdmreg/internal/registry"
)

func newCheckCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report dangling references and duplicate names",
		Long: `Check lists relationships and relation fields whose target entity does
not exist, field names repeated within an entity, and type tags shared by
several entities (the later entity's schema wins on export), and type tags
that cannot be used as export file names. The registry
accepts all of these; with --strict any finding exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			ix, err := index.Open(cmd.Context(), store.Entities(), index.WithLogger(a.logger))
			if err != nil {
				return systemError(err)
			}
			defer ix.Close()

			dangling, err := ix.Dangling(cmd.Context())
			if err != nil {
				return systemError(err)
			}
			issues := danglingIssues(dangling)
			issues = append(issues, store.Check()...)

			if a.flags.jsonMode {
				if issues == nil {
					issues = []registry.Issue{}
				}
				if err := printJSON(cmd.OutOrStdout(), issues); err != nil {
					return err
				}
			} else if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
			} else {
				rows := make([][]string, len(issues))
				for i, is := range issues {
					rows[i] = []string{string(is.Kind), is.EntityID, is.ItemID, is.Message}
				}
				printTable(cmd.OutOrStdout(), []string{"KIND", "ENTITY", "ITEM", "MESSAGE"}, rows)
			}

			if strict && len(issues) > 0 {
				return fmt.Errorf("%d issue(s) found", len(issues))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 1 when issues are found")
	return cmd
}

// danglingIssues converts the index's dangling references into check findings.
func danglingIssues(refs []index.Reference) []registry.Issue {
	issues := make([]registry.Issue, 0, len(refs))
	for _, r := range refs {
		is := registry.Issue{EntityID: r.EntityID, ItemID: r.ItemID}
		if r.Kind == index.RefField {
			is.Kind = registry.IssueDanglingRelation
			is.Message = fmt.Sprintf("relation field %q targets missing entity %q", r.ItemName, r.Target)
		} else {
			is.Kind = registry.IssueDanglingRelationship
			is.Message = fmt.Sprintf("relationship %q targets missing entity %q", r.ItemName, r.Target)
		}
		issues = append(issues, is)
	}
	return issues
}
