// Package cli implements casectl, an offline companion to the CaseTrail
// server: it lists the seeded pages through the same list view the server
// uses and pokes the notification queue.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/casetrail/casetrail/internal/app"
	"github.com/casetrail/casetrail/internal/listview"
	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/jobs"
)

// Queue is an open connection to the notification queue.
type Queue struct {
	Client    Enqueuer
	Inspector jobs.QueueInspector
	Close     func() error
}

// Options injects the clock, output and queue connection.
type Options struct {
	Out     io.Writer
	Now     func() time.Time
	Connect func(redisAddr string) (Queue, error)
}

// DialQueue connects to the asynq queue at redisAddr.
func DialQueue(redisAddr string) (Queue, error) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client, err := jobs.NewClient(opts)
	if err != nil {
		return Queue{}, err
	}
	inspector := asynq.NewInspector(opts)
	return Queue{
		Client:    client,
		Inspector: inspector,
		Close: func() error {
			inspErr := inspector.Close()
			if err := client.Close(); err != nil {
				return err
			}
			return inspErr
		},
	}, nil
}

type rootFlags struct {
	redisAddr string
	workflow  string
	json      bool
}

// NewRootCommand builds the casectl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Connect == nil {
		opts.Connect = DialQueue
	}
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "casectl",
		Short:         "Inspect CaseTrail list views and notification jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Out)
	root.PersistentFlags().StringVar(&flags.redisAddr, "redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "Redis address of the job queue")
	root.PersistentFlags().StringVar(&flags.workflow, "workflow", envOr("WORKFLOW_MODE", string(workflow.ModeManual)), "Workflow mode: manual or strict")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "Print JSON instead of a table")

	root.AddCommand(newListCommand(opts, flags), newWindowCommand(opts, flags), newJobsCommand(opts, flags))
	return root
}

func loadPages(opts Options, flags *rootFlags) (*app.Pages, error) {
	return app.NewPages(app.PagesConfig{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:          opts.Now(),
		WorkflowMode: workflow.Mode(flags.workflow),
		DemoPassword: envOr("DEMO_PASSWORD", "casetrail-demo"),
		HashCost:     bcrypt.MinCost,
	})
}

func newListCommand(opts Options, flags *rootFlags) *cobra.Command {
	var (
		search   string
		filters  []string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list <page>",
		Short: "Filter and paginate a page of seeded records",
		Long: `List one page of records the way the server's list view computes it.

Pages: audit, cases, evidence, reports, transfers, users.
Filters are category=value pairs; dateRange=today|7d|30d|90d|year narrows by time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := loadPages(opts, flags)
			if err != nil {
				return err
			}
			all := listers(pages, opts.Now)
			run, ok := all[args[0]]
			if !ok {
				return fmt.Errorf("unknown page %q (want one of %v)", args[0], pageNames(all))
			}
			q := url.Values{}
			if cmd.Flags().Changed("search") {
				q.Set("search", search)
			}
			byName, err := parseFilters(filters)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("page-size") {
				q.Set("page_size", strconv.Itoa(pageSize))
			}
			if cmd.Flags().Changed("page") {
				q.Set("page", strconv.Itoa(page))
			}
			t, err := run(cmd.Context(), byName, q)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			return renderTable(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Free-text search")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Category filter as name=value (repeatable)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page")
	return cmd
}

func newWindowCommand(_ Options, flags *rootFlags) *cobra.Command {
	var current, total int
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Print the pagination window for a page position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := listview.PageWindow(current, total)
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderWindow(items))
			return err
		},
	}
	cmd.Flags().IntVar(&current, "current", 1, "Current page")
	cmd.Flags().IntVar(&total, "total", 1, "Total pages")
	return cmd
}

func newJobsCommand(opts Options, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage notification jobs",
	}

	withJobs := func(fn func(*JobsCLI) error) error {
		pages, err := loadPages(opts, flags)
		if err != nil {
			return err
		}
		queue, err := opts.Connect(flags.redisAddr)
		if err != nil {
			return err
		}
		if queue.Close != nil {
			defer func() { _ = queue.Close() }()
		}
		return fn(NewJobsCLI(pages, queue.Client, queue.Inspector))
	}

	trigger := &cobra.Command{
		Use:   "trigger <task> <record-id>",
		Short: "Enqueue a notice for a seeded record",
		Long: fmt.Sprintf(`Enqueue a notice for a seeded record.

Tasks: %s (transfer id), %s (report id).`, jobs.TaskNotifyTransfer, jobs.TaskNotifyReport),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobs(func(c *JobsCLI) error {
				info, err := c.Trigger(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if flags.json {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"id": info.ID, "queue": info.Queue, "type": info.Type})
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s %s on %s\n", info.Type, info.ID, info.Queue)
				return err
			})
		},
	}

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Show queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJobs(func(c *JobsCLI) error {
				stats, err := c.InspectQueue()
				if err != nil {
					return err
				}
				if flags.json {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d archived=%d paused=%t\n",
					stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived, stats.Paused)
				return err
			})
		},
	}

	cmd.AddCommand(trigger, inspect)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
