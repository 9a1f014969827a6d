package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/internal/registry"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the registry with the entities of an export file",
		Long: `Import reads a registry export and replaces every entity in the
registry with the file's entities. The file must be a JSON object whose
"entities" member is an array; anything else is rejected and the registry
is left as it was.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			store := registry.New(registry.WithLogger(a.logger), registry.WithClock(a.now))
			n, err := exchange.Import(store, data, a.now())
			if err != nil {
				var ie *exchange.ImportError
				if errors.As(err, &ie) {
					a.logger.Warn("import rejected", "file", args[0], "kind", string(ie.Kind))
				}
				return err
			}
			if err := a.saveStore(store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entity(s) from %s\n", n, args[0])
			return nil
		},
	}
}
