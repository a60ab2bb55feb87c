package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/storysort/pkg/config"
	"github.com/macropower/storysort/pkg/log"
	"github.com/macropower/storysort/pkg/tracing"
	"github.com/macropower/storysort/pkg/version"
	"github.com/macropower/storysort/pkg/workspace"
)

const (
	cmdName = "storysort"
	cmdDesc = `Hierarchical sidebar ordering for component catalogs.`

	// DefaultCatalogPath is the index written by a static catalog build.
	DefaultCatalogPath = "storybook-static/index.json"
)

type RootArgs struct {
	shutdown   tracing.ShutdownFunc
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVarP(&ra.ConfigPath, "config", "c", "", "Path to the preview configuration file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	sortArgs := NewSortArgs(args)

	sortCmd := NewSortCmd(sortArgs)
	cmd := &cobra.Command{
		Use:                cmdName + " [catalog]",
		Short:              cmdDesc,
		Example:            sortExamples,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
		Args:               sortCmd.Args,
		RunE:               sortCmd.RunE,
	}

	args.AddFlags(cmd)
	sortArgs.AddFlags(cmd)
	cmd.AddCommand(
		sortCmd,
		NewCompareCmd(args),
		NewBrowseCmd(args),
		NewConfigCmd(args),
		NewElementsCmd(args),
		NewServeMCPCmd(args),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		ra.shutdown, err = tracing.Setup(ctx, tracing.ConfigFromEnv(cmdName, version.GetVersion()))
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdown == nil {
			return nil
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		err := ra.shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown tracing: %w", err)
		}

		return nil
	}
}

// workspace returns a [workspace.Workspace] for the catalog at path, using
// the configuration selected by the root flags.
func (ra *RootArgs) workspace(cmd *cobra.Command, path string, opts ...workspace.Opt) *workspace.Workspace {
	return workspace.New(path, append([]workspace.Opt{
		workspace.WithConfig(ra.ConfigPath),
		workspace.WithStdin(cmd.InOrStdin()),
		workspace.WithLoaderOpts(config.WithColor(isTerminal(cmd.ErrOrStderr()))),
	}, opts...)...)
}

// catalogArg returns the catalog path from the first argument, or the
// default path.
func catalogArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return DefaultCatalogPath
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
