// Package commands implements the CLI commands for dr.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/app"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/build"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
)

// CLI represents the command line interface for dr.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Init(ctx context.Context, name string) (*app.InitResult, error)

	AddElement(ctx context.Context, in app.ElementInput) (*app.ElementResult, error)
	UpdateElement(ctx context.Context, elementID string, patch app.ElementPatch) (*app.ElementResult, error)
	DeleteElement(ctx context.Context, elementID string) (*app.ElementResult, error)
	ListElements(ctx context.Context, opts app.ListOptions) (*app.ElementView, error)
	SearchElements(ctx context.Context, query string, opts app.ListOptions) (*app.ElementView, error)
	ShowElement(ctx context.Context, elementID string, opts app.ViewOptions) (*app.ElementView, error)

	CreateChangeset(ctx context.Context, name, description string, activate bool) (*domain.Changeset, error)
	ListChangesets(ctx context.Context) ([]app.ChangesetEntry, error)
	ShowChangeset(ctx context.Context, id string) (*domain.Changeset, error)
	ActivateChangeset(ctx context.Context, id string) error
	DeactivateChangeset(ctx context.Context) (string, error)
	ChangesetStatus(ctx context.Context, id string) (*app.StatusReport, error)
	DiffChangeset(ctx context.Context, id string) (string, []staging.ElementDiff, error)
	Unstage(ctx context.Context, id, elementID string) (staging.UnstageResult, error)
	Discard(ctx context.Context, id string) (string, int, error)
	Commit(ctx context.Context, id string, opts app.CommitOptions) (*staging.CommitResult, error)
	Apply(ctx context.Context, id string) (*staging.CommitResult, error)
	Revert(ctx context.Context, id string) (*staging.CommitResult, error)
	DeleteChangeset(ctx context.Context, id string) error
	Watch(ctx context.Context, onReport func(app.WatchReport)) error
}

// logConfigurer is implemented by loggers whose format and verbosity can change after construction.
type logConfigurer interface {
	SetJSON(enable bool)
	SetQuiet(quiet bool)
}

// New creates a new CLI instance with the given app.
// When log implements SetJSON and SetQuiet the --log-json and --quiet flags configure it.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "dr",
		Short:         "Architecture documentation with staged changes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("log-json", false, "Write log messages as JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		lc, ok := c.logger.(logConfigurer)
		if !ok {
			return
		}
		jsonMode, _ := cmd.Flags().GetBool("log-json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		lc.SetJSON(jsonMode)
		lc.SetQuiet(quiet)
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newElementCmd())
	rootCmd.AddCommand(c.newChangesetCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
