package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and an empty registry",
		Long: `Init creates the configuration directory with a default config.yaml,
the data directory and an empty registry file. An existing registry is
left untouched.`,
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
		return systemError(fmt.Errorf("create data directory: %w", err))
	}

	created := false
	if _, err := os.Stat(a.registryPath); os.IsNotExist(err) {
		if err := exchange.SaveRegistryFile(a.registryPath, []types.Entity{}, a.now()); err != nil {
			return systemError(fmt.Errorf("create registry: %w", err))
		}
		created = true
	} else if err != nil {
		return systemError(fmt.Errorf("stat registry: %w", err))
	}

	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"configDir": a.configDir,
			"dataDir":   a.dataDir,
			"registry":  a.registryPath,
			"created":   created,
		})
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Registry initialized at %s\n", a.registryPath)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Registry already exists at %s\n", a.registryPath)
	}
	return nil
}
