// Package cli provides the command-line interface for taskboard.
package cli

import (
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	ConfigPath string
	Backend    string
	Path       string
	Key        string
}

// NewRootCommand creates the root command. Running it without a subcommand
// launches the TUI.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Terminal task manager",
		Long: `taskboard keeps a prioritized task list in a single key-value slot
(SQLite by default, or a JSON file, Redis, or memory).

Run without arguments to open the interactive UI, or use the subcommands
to script it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (.toml, .yaml or .yml)")
	flags.StringVar(&opts.Backend, "backend", "", "slot backend: sqlite, file, redis or memory")
	flags.StringVar(&opts.Path, "path", "", "SQLite database file, or directory for the file backend")
	flags.StringVar(&opts.Key, "key", "", "slot key holding the task list")

	root.AddCommand(
		newTUICommand(opts),
		newAddCommand(opts),
		newListCommand(opts),
		newToggleCommand(opts),
		newDeleteCommand(opts),
		newStatsCommand(opts),
	)
	return root
}
