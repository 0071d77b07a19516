package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/persist"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/spf13/cobra"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var flags struct {
		Priority string
		Due      string
	}

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Long: `Add a task to the list. Words after the command form the title.

Examples:
  taskboard add Buy milk
  taskboard add --priority High --due 2024-01-01 Pay rent`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := model.ParseDueDate(flags.Due)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			raw := flags.Priority
			if raw == "" {
				raw = sess.cfg.DefaultPriority
			}
			priority, err := model.ParsePriority(raw)
			if err != nil {
				return err
			}

			task, err := sess.store.Add(cmd.Context(), strings.Join(args, " "), priority, due)
			if task.ID == 0 {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d: %s\n", task.ID, task.Title)
			return warnPersist(cmd.ErrOrStderr(), err)
		},
	}

	cmd.Flags().StringVarP(&flags.Priority, "priority", "p", "", "Low, Medium or High (default from config)")
	cmd.Flags().StringVar(&flags.Due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newListCommand(opts *globalOptions) *cobra.Command {
	var flags struct {
		Priority string
		Search   string
		Sort     string
		JSON     bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks after applying the priority filter, title search and sort order.

Sort keys: newest, oldest, dueEarliest, dueLatest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			query := pipeline.Query{Priority: pipeline.FilterAll, Search: flags.Search}
			if flags.Priority != "" && !strings.EqualFold(flags.Priority, pipeline.FilterAll) {
				p, err := model.ParsePriority(flags.Priority)
				if err != nil {
					return err
				}
				query.Priority = string(p)
			}
			rawSort := flags.Sort
			if rawSort == "" {
				rawSort = sess.cfg.DefaultSort
			}
			if query.Sort, err = pipeline.ParseSortKey(rawSort); err != nil {
				return err
			}

			tasks := pipeline.Apply(sess.store.Tasks(), query)
			if flags.JSON {
				payload, err := persist.MarshalTasks(tasks)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return err
			}
			return printTaskTable(cmd.OutOrStdout(), tasks)
		},
	}

	cmd.Flags().StringVarP(&flags.Priority, "priority", "p", "", "All, Low, Medium or High")
	cmd.Flags().StringVarP(&flags.Search, "search", "s", "", "case-insensitive title search")
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "sort key (default from config)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "output in the stored JSON layout")
	return cmd
}

func printTaskTable(w io.Writer, tasks []model.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := t.DueLabel()
		if due == "" {
			due = "-"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, done, t.Priority, due, t.Title)
	}
	return tw.Flush()
}

func newToggleCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Toggle a task between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			found, err := sess.store.ToggleComplete(cmd.Context(), id)
			if !found {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d not found\n", id)
				return nil
			}
			task, _ := sess.store.Get(id)
			state := "pending"
			if task.Completed {
				state = "done"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %s\n", id, state)
			return warnPersist(cmd.ErrOrStderr(), err)
		},
	}
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			found, err := sess.store.Delete(cmd.Context(), id)
			if !found {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d not found\n", id)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return warnPersist(cmd.ErrOrStderr(), err)
		},
	}
}

// statsOutput is the --json shape of the stats command.
type statsOutput struct {
	Total          int            `json:"total"`
	Pending        int            `json:"pending"`
	Completed      int            `json:"completed"`
	DonePercent    int            `json:"donePercent"`
	PriorityCounts map[string]int `json:"priorityCounts"`
	Slot           string         `json:"slot"`
	LastSaved      *time.Time     `json:"lastSaved,omitempty"`
}

func newStatsCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			s := pipeline.Summarize(sess.store.Tasks())
			saved := sess.lastSaved(cmd.Context())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statsOutput{
					Total:          s.Total,
					Pending:        s.Pending,
					Completed:      s.Completed,
					DonePercent:    s.DonePercent,
					PriorityCounts: s.PriorityCounts,
					Slot:           sess.adapter.Key(),
					LastSaved:      saved,
				})
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Total:   %d\n", s.Total)
			_, _ = fmt.Fprintf(w, "Pending: %d\n", s.Pending)
			_, _ = fmt.Fprintf(w, "Done:    %d%%\n", s.DonePercent)
			for _, opt := range pipeline.FilterOptions() {
				_, _ = fmt.Fprintf(w, "  %-7s %d\n", opt, s.PriorityCounts[opt])
			}
			_, _ = fmt.Fprintf(w, "Slot:    %s (%s)\n", sess.adapter.Key(), sess.cfg.Backend)
			if saved != nil {
				_, _ = fmt.Fprintf(w, "Saved:   %s\n", saved.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func parseTaskID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id: %s", raw)
	}
	return id, nil
}
