package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/index"
	"github.com/mesh-intelligence/mdmreg/internal/registry"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func newFieldCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "field",
		Aliases: []string{"fields"},
		Short:   "Add, edit and remove entity fields",
	}
	cmd.AddCommand(newFieldAddCmd(a))
	cmd.AddCommand(newFieldUpdateCmd(a))
	cmd.AddCommand(newFieldRemoveCmd(a))
	cmd.AddCommand(newFieldListCmd(a))
	return cmd
}

type fieldFlags struct {
	name        string
	typ         string
	required    bool
	multi       bool
	description string
	options     []string
	target      string
}

var fieldTypeNames = func() string {
	names := make([]string, len(types.FieldTypes))
	for i, ft := range types.FieldTypes {
		names[i] = string(ft)
	}
	return strings.Join(names, ", ")
}()

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "property key in the derived schema")
	cmd.Flags().StringVar(&f.typ, "type", "", "field type ("+fieldTypeNames+")")
	cmd.Flags().BoolVar(&f.required, "required", false, "value is mandatory")
	cmd.Flags().BoolVar(&f.multi, "multi", false, "field holds a list of values")
	cmd.Flags().StringVar(&f.description, "description", "", "description, also used as the input placeholder")
	cmd.Flags().StringSliceVar(&f.options, "option", nil, "allowed value for enum fields (repeatable)")
	cmd.Flags().StringVar(&f.target, "target", "", "referenced entity id for relation fields")
}

// patch builds a FieldPatch from the flags the user set.
func (f *fieldFlags) patch(cmd *cobra.Command) (registry.FieldPatch, error) {
	var p registry.FieldPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = &f.name
	}
	if changed("type") {
		ft, err := types.ParseFieldType(f.typ)
		if err != nil {
			return p, err
		}
		p.Type = &ft
	}
	if changed("required") {
		p.Required = &f.required
	}
	if changed("multi") {
		p.Multi = &f.multi
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("option") {
		p.Options = &f.options
	}
	if changed("target") {
		p.Target = &f.target
	}
	return p, nil
}

func newFieldAddCmd(a *app) *cobra.Command {
	var f fieldFlags
	cmd := &cobra.Command{
		Use:   "add <entity-id>",
		Short: "Append a field to an entity",
		Long: `Add appends a field and prints its id. Without flags the field is a
string named field<N>, where N is the new field count.

Example:
  mdmreg field add 0194... --name sku --required
  mdmreg field add 0194... --name grade --type enum --option A --option B
  mdmreg field add 0194... --name supplier --type relation --target 0195...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}

			var added types.Field
			err = a.mutate(func(s *registry.Store) error {
				field, err := s.AddField(args[0])
				if err != nil {
					return err
				}
				if err := s.UpdateField(args[0], field.ID, p); err != nil {
					return err
				}
				e, _ := s.Entity(args[0])
				added = e.Fields[e.FieldIndex(field.ID)]
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

func newFieldUpdateCmd(a *app) *cobra.Command {
	var f fieldFlags
	cmd := &cobra.Command{
		Use:   "update <entity-id> <field-id>",
		Short: "Change a field's attributes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			err = a.mutate(func(s *registry.Store) error {
				return s.UpdateField(args[0], args[1], p)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated field %s\n", args[1])
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newFieldRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <entity-id> <field-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a field from an entity",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.mutate(func(s *registry.Store) error {
				return s.RemoveField(args[0], args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed field %s\n", args[1])
			return nil
		},
	}
}

func newFieldListCmd(a *app) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "list [entity-id]",
		Short: "List the fields of an entity, or every field of a type",
		Long: `List prints one entity's fields in order, keeping only fields of the
given --type when it is set. With --type and no entity id it lists every
field of that type across the registry.

Example:
  mdmreg field list 0194...
  mdmreg field list 0194... --type relation
  mdmreg field list --type date`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ft types.FieldType
			if typ != "" {
				parsed, err := types.ParseFieldType(typ)
				if err != nil {
					return err
				}
				ft = parsed
			}
			if len(args) == 1 {
				return a.listEntityFields(cmd, args[0], ft)
			}
			if ft == "" {
				return errors.New("give an entity id or --type")
			}

			ix, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			defer ix.Close()

			rows, err := ix.FieldsOfType(cmd.Context(), ft)
			if err != nil {
				return systemError(err)
			}
			if a.flags.jsonMode {
				if rows == nil {
					rows = []index.FieldRow{}
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s fields found.\n", ft)
				return nil
			}
			table := make([][]string, len(rows))
			for i, r := range rows {
				table[i] = []string{r.EntityType, r.EntityID, r.FieldID, r.FieldName, yesNo(r.Required), yesNo(r.Multi)}
			}
			printTable(cmd.OutOrStdout(), []string{"TYPE", "ENTITY", "FIELD", "NAME", "REQUIRED", "MULTI"}, table)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only fields of this type")
	return cmd
}

// listEntityFields prints the entity's fields, only those of type ft when
// ft is set.
func (a *app) listEntityFields(cmd *cobra.Command, entityID string, ft types.FieldType) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	e, ok := store.Entity(entityID)
	if !ok {
		return fmt.Errorf("entity %q: %w", entityID, types.ErrNotFound)
	}
	fields := e.Fields
	if ft != "" {
		fields = make([]types.Field, 0, len(e.Fields))
		for _, f := range e.Fields {
			if f.Type == ft {
				fields = append(fields, f)
			}
		}
	}
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), fields)
	}
	if len(fields) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No fields.")
		return nil
	}
	rows := make([][]string, len(fields))
	for i, f := range fields {
		rows[i] = []string{f.ID, f.Name, string(f.Type), yesNo(f.Required), yesNo(f.Multi)}
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE", "REQUIRED", "MULTI"}, rows)
	return nil
}
