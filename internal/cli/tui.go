package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/update"
	"github.com/spf13/cobra"
)

// launchTUIFunc runs the interactive program; tests replace it.
var launchTUIFunc = launchTUI

func newTUICommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive UI",
		Long:  `Launch the interactive terminal UI (same as running taskboard without arguments).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	return launchTUIFunc(sess)
}

func launchTUI(sess *session) error {
	m := update.NewModel(sess.store, sess.cfg, sess.logger).ReportLoad(sess.load)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
