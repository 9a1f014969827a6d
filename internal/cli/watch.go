package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mdmreg/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		dir      string
		pattern  string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate schema files whenever the registry changes",
		Long: `Watch writes mdm-json-schemas.json and every entity's .schema.json and
.d.ts into the output directory, then rewrites them each time the
registry file changes. It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.exportDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return systemError(err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(a.registryPath, dir,
				watch.WithLogger(a.logger),
				watch.WithPattern(pattern),
				watch.WithDebounce(debounce),
				watch.WithClock(a.now),
				watch.OnGenerate(func(paths []string, err error) {
					if err == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "Regenerated %d file(s) in %s\n", len(paths), dir)
					}
				}),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", a.registryPath)
			if err := w.Run(ctx); err != nil {
				return systemError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default: export dir)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "only write per-entity files for keys matching this glob")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}
