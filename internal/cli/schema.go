package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/pkg/schema"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// schemaFormat returns the --format flag when given and the configured
// schema_format otherwise.
func (a *app) schemaFormat(cmd *cobra.Command, flag string) (string, error) {
	format := a.cfg.SchemaFormat
	if cmd.Flags().Changed("format") {
		format = flag
	}
	switch format {
	case "", types.FormatJSON:
		return types.FormatJSON, nil
	case types.FormatYAML:
		return types.FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrFormatUnknown, format)
	}
}

// render converts JSON output to the requested format.
func render(data []byte, format string) ([]byte, error) {
	if format == types.FormatYAML {
		return exchange.RenderYAML(data)
	}
	return append(data, '\n'), nil
}

func newSchemaCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema [key]",
		Short: "Print derived JSON Schema",
		Long: `Schema derives the JSON Schema document for the entity whose type tag
(or id, for untyped entities) is key. Without a key it prints the combined
export of every entity's schema.

Example:
  mdmreg schema raw-material
  mdmreg schema --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.schemaFormat(cmd, format)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}

			var data []byte
			if len(args) == 0 {
				data, err = exchange.ExportSchemas(store.Entities(), a.now())
			} else {
				doc, ok := schema.DeriveAll(store.Entities()).Get(args[0])
				if !ok {
					return fmt.Errorf("%q: %w", args[0], types.ErrSchemaNotFound)
				}
				data, err = json.MarshalIndent(doc, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}

			out, err := render(data, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default: config schema_format)")
	return cmd
}

func newTypesCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "types [key]",
		Short: "Print TypeScript declarations for a schema",
		Long: `Types projects an entity's derived schema to TypeScript interfaces. With
--file it projects a saved .schema.json document instead.

Example:
  mdmreg types raw-material
  mdmreg types --file schemas/raw-material.schema.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc *schema.Document
				key string
			)
			switch {
			case file != "" && len(args) == 0:
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read schema file: %w", err)
				}
				if doc, err = schema.ParseDocument(data); err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
				key = strings.TrimSuffix(filepath.Base(file), ".schema.json")
			case file == "" && len(args) == 1:
				store, err := a.openStore()
				if err != nil {
					return err
				}
				var ok bool
				key = args[0]
				if doc, ok = schema.DeriveAll(store.Entities()).Get(key); !ok {
					return fmt.Errorf("%q: %w", key, types.ErrSchemaNotFound)
				}
			default:
				return errors.New("give either a schema key or --file")
			}

			fmt.Fprint(cmd.OutOrStdout(), schema.TypeScript(doc, schema.TypeName(doc, key)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "project this schema document instead of a registry entity")
	return cmd
}
