package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/registry"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func newRelationshipCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "relationship",
		Aliases: []string{"rel"},
		Short:   "Add, edit and remove relationships between entities",
	}
	cmd.AddCommand(newRelationshipAddCmd(a))
	cmd.AddCommand(newRelationshipUpdateCmd(a))
	cmd.AddCommand(newRelationshipRemoveCmd(a))
	return cmd
}

type relationshipFlags struct {
	name        string
	target      string
	cardinality string
	required    bool
	description string
}

func (f *relationshipFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "relationship name")
	cmd.Flags().StringVar(&f.target, "target", "", "target entity id")
	cmd.Flags().StringVar(&f.cardinality, "cardinality", "", "1:1, 1:n or n:m")
	cmd.Flags().BoolVar(&f.required, "required", false, "relationship is mandatory")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
}

func (f *relationshipFlags) patch(cmd *cobra.Command) (registry.RelationshipPatch, error) {
	var p registry.RelationshipPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = &f.name
	}
	if changed("target") {
		p.Target = &f.target
	}
	if changed("cardinality") {
		c, err := types.ParseCardinality(f.cardinality)
		if err != nil {
			return p, err
		}
		p.Cardinality = &c
	}
	if changed("required") {
		p.Required = &f.required
	}
	if changed("description") {
		p.Description = &f.description
	}
	return p, nil
}

func newRelationshipAddCmd(a *app) *cobra.Command {
	var f relationshipFlags
	cmd := &cobra.Command{
		Use:   "add <entity-id>",
		Short: "Append a relationship to an entity",
		Long: `Add appends a relationship and prints its id. Without flags it is a
1:n relationship named relationship<N> with no target. The target is not
checked against the registry; "mdmreg check" reports dangling targets.

Example:
  mdmreg relationship add 0194... --name suppliedBy --target 0195... --cardinality n:m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}

			var added types.Relationship
			err = a.mutate(func(s *registry.Store) error {
				rel, err := s.AddRelationship(args[0])
				if err != nil {
					return err
				}
				if err := s.UpdateRelationship(args[0], rel.ID, p); err != nil {
					return err
				}
				e, _ := s.Entity(args[0])
				added = e.Relationships[e.RelationshipIndex(rel.ID)]
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), added)
			}
			fmt.Fprintln(cmd.OutOrStdout(), added.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newRelationshipUpdateCmd(a *app) *cobra.Command {
	var f relationshipFlags
	cmd := &cobra.Command{
		Use:   "update <entity-id> <relationship-id>",
		Short: "Change a relationship's attributes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			err = a.mutate(func(s *registry.Store) error {
				return s.UpdateRelationship(args[0], args[1], p)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated relationship %s\n", args[1])
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newRelationshipRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <entity-id> <relationship-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a relationship from an entity",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.mutate(func(s *registry.Store) error {
				return s.RemoveRelationship(args[0], args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed relationship %s\n", args[1])
			return nil
		},
	}
}
