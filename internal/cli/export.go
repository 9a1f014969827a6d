package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/pkg/schema"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the registry or derived schemas to files",
	}
	cmd.AddCommand(newExportRegistryCmd(a))
	cmd.AddCommand(newExportSchemasCmd(a))
	cmd.AddCommand(newExportEntityCmd(a))
	return cmd
}

// writeOutput writes data to path, or to stdout when path is "-".
func (a *app) writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := exchange.WriteFileAtomic(path, data, 0o644); err != nil {
		return systemError(err)
	}
	a.logger.Info("export written", "path", path, "bytes", len(data))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func newExportRegistryCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Export every entity as " + exchange.RegistryFileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			data, err := exchange.ExportRegistry(store.Entities(), a.now())
			if err != nil {
				return fmt.Errorf("encode registry: %w", err)
			}
			if out == "" {
				out = filepath.Join(a.exportDir, exchange.RegistryFileName)
			}
			return a.writeOutput(cmd, out, append(data, '\n'))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default: <export-dir>/"+exchange.RegistryFileName+")")
	return cmd
}

func newExportSchemasCmd(a *app) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Export every derived schema as " + exchange.SchemasFileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.schemaFormat(cmd, format)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			data, err := exchange.ExportSchemas(store.Entities(), a.now())
			if err != nil {
				return fmt.Errorf("encode schemas: %w", err)
			}
			rendered, err := render(data, format)
			if err != nil {
				return err
			}
			if out == "" {
				name := exchange.SchemasFileName
				if format == types.FormatYAML {
					name = strings.TrimSuffix(name, ".json") + ".yaml"
				}
				out = filepath.Join(a.exportDir, name)
			}
			return a.writeOutput(cmd, out, rendered)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default: <export-dir>/"+exchange.SchemasFileName+")")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default: config schema_format)")
	return cmd
}

func newExportEntityCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "entity [glob]",
		Short: "Write <key>.schema.json and <key>.d.ts for matching schema keys",
		Long: `Entity writes the schema document and TypeScript declarations of every
schema key matching glob (all keys when omitted). Globs follow doublestar
syntax: *, ?, [abc] and {a,b}.

Example:
  mdmreg export entity
  mdmreg export entity 'raw-*' --dir web/src/schemas`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			set := schema.DeriveAll(store.Entities())
			keys, err := exchange.SelectKeys(pattern, set.Keys())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				return fmt.Errorf("no schema key matches %q: %w", pattern, types.ErrSchemaNotFound)
			}
			if dir == "" {
				dir = a.exportDir
			}

			var written []string
			for _, key := range keys {
				paths, err := exchange.WriteEntityFiles(dir, set, key)
				if errors.Is(err, types.ErrInvalidName) {
					return err
				}
				if err != nil {
					return systemError(err)
				}
				written = append(written, paths...)
			}
			a.logger.Info("entity files written", "dir", dir, "files", len(written))
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), written)
			}
			for _, p := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default: export dir)")
	return cmd
}
