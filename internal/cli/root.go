// Package cli implements the mdmreg command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/internal/paths"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	registry  string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command invocation.
type app struct {
	flags rootFlags
	cfg   types.Config

	configDir    string
	dataDir      string
	registryPath string
	exportDir    string

	logger *slog.Logger
	now    func() time.Time
}

// NewRootCmd creates the top-level "mdmreg" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now, logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "mdmreg",
		Short: "Author master-data entities and derive JSON Schema and TypeScript from them",
		Long: `mdmreg keeps a registry of master-data entity definitions (fields,
relationships, change log) in a JSON file and derives a JSON Schema
document with UI hints and TypeScript declarations for each entity.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.mdmreg)")
	root.PersistentFlags().StringVar(&a.flags.registry, "registry", "", "registry file (default: <data-dir>/"+exchange.RegistryFileName+")")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newEntityCmd(a))
	root.AddCommand(newFieldCmd(a))
	root.AddCommand(newRelationshipCmd(a))
	root.AddCommand(newChangelogCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newTypesCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newWatchCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// setup loads configuration and resolves directories before any subcommand
// runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	a.configDir = configDir
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, a.flags.verbose)

	if a.dataDir, err = paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir); err != nil {
		return systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	if a.registryPath, err = paths.ResolveRegistry(a.flags.registry, cfg.RegistryPath, a.dataDir); err != nil {
		return systemError(fmt.Errorf("resolve registry: %w", err))
	}
	if a.exportDir, err = paths.ResolveExportDir(cfg.ExportDir, a.dataDir); err != nil {
		return systemError(fmt.Errorf("resolve export dir: %w", err))
	}

	a.logger.Debug("configuration loaded",
		"config_dir", a.configDir, "data_dir", a.dataDir, "registry", a.registryPath)
	return nil
}

// sysError marks failures of the environment (filesystem, database) rather
// than of the user's input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
