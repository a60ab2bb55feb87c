package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/storysort/pkg/log"
	"github.com/macropower/storysort/pkg/ui"
	"github.com/macropower/storysort/pkg/watch"
	"github.com/macropower/storysort/pkg/workspace"
)

type BrowseArgs struct {
	*RootArgs

	Watch bool
}

func NewBrowseCmd(ra *RootArgs) *cobra.Command {
	ba := &BrowseArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "browse [catalog]",
		Short: "Browse a catalog in an interactive sidebar",
		Example: `  # Browse the default catalog, reloading when files change.
  storysort browse --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, ba, catalogArg(args))
		},
	}

	cmd.Flags().BoolVarP(&ba.Watch, "watch", "w", false, "Reload when the catalog or configuration changes")

	return cmd
}

func runBrowse(cmd *cobra.Command, ba *BrowseArgs, path string) error {
	if path == workspace.StdinPath {
		return errors.New("invalid argument \"-\": the browser cannot read the catalog from stdin")
	}

	ctx := cmd.Context()

	// Logs written while the UI owns the terminal are kept in the backlog,
	// shown in the log view, and printed after exit.
	backlog := log.NewBacklog(0)

	logHandler, err := log.CreateHandlerWithStrings(backlog, ba.LogLevel, ba.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prevLogger)

		_, err := backlog.WriteTo(cmd.ErrOrStderr())
		if err != nil {
			prevLogger.Error("write log backlog", slog.Any("err", err))
		}
	}()

	ws := ba.workspace(cmd, path)
	cfg := ui.Config{Load: ws.Load, Backlog: backlog}

	if ba.Watch {
		w, err := newWatcher(ws, nil)
		if err != nil {
			return err
		}

		defer func() {
			err := w.Close()
			if err != nil {
				slog.Error("close watcher", slog.Any("err", err))
			}
		}()

		s, err := ws.Load(ctx)
		if err == nil {
			err = w.Add(ws.WatchPaths(s)...)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
		}

		events := make(chan watch.Event, 1)
		w.Subscribe(events)
		cfg.Events = events

		go w.Run(ctx)
	}

	p := ui.NewProgram(cfg,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	m, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}

	if model, ok := m.(*ui.Model); ok && model.Err() != nil {
		slog.Debug("ui exited with load error", slog.Any("err", model.Err()))
	}

	return nil
}
