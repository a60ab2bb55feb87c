package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/match"
	"github.com/macropower/storysort/pkg/sidebar"
	"github.com/macropower/storysort/pkg/watch"
	"github.com/macropower/storysort/pkg/workspace"
	"github.com/macropower/storysort/pkg/yaml"
)

const sortExamples = `  # Print the sidebar of the default catalog.
  storysort

  # Sort a catalog read from stdin and print entry IDs.
  cat index.json | storysort sort - -o list

  # Show how the configured order moves entries.
  storysort sort ./storybook-static/index.json --diff

  # Only show docs pages, re-sorting whenever a file changes.
  storysort sort --filter 'entryType == entry.DOCS' --watch

  # Repeated filters must all match.
  storysort sort --filter 'kindRoot(kind) == "Forms"' --filter 'tags.hasAny("beta")'`

// Output formats supported by the sort command.
const (
	OutputTree = "tree"
	OutputList = "list"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var (
	AllOutputs = []string{OutputTree, OutputList, OutputJSON, OutputYAML}

	ErrInvalidOutput = errors.New("unknown output format")
)

type SortArgs struct {
	*RootArgs

	Filters []string
	Output string
	Diff   bool
	Watch  bool
}

func NewSortArgs(ra *RootArgs) *SortArgs {
	return &SortArgs{RootArgs: ra}
}

func (sa *SortArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&sa.Filters, "filter", nil,
		"CEL expression selecting the entries to print, may be repeated to require every expression")
	cmd.Flags().StringVarP(&sa.Output, "output", "o", OutputTree,
		fmt.Sprintf("Output format, one of: %s", AllOutputs))
	cmd.Flags().BoolVar(&sa.Diff, "diff", false, "Print a diff between the source and sorted order")
	cmd.Flags().BoolVarP(&sa.Watch, "watch", "w", false, "Sort again when the catalog or configuration changes")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewSortCmd(sa *SortArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sort [catalog]",
		Short:   "Print a catalog in sidebar order",
		Example: sortExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, sa, catalogArg(args))
		},
	}

	sa.AddFlags(cmd)

	return cmd
}

func runSort(cmd *cobra.Command, sa *SortArgs, path string) error {
	if !slices.Contains(AllOutputs, sa.Output) {
		return fmt.Errorf("invalid argument %q for \"--output\": %w", sa.Output, ErrInvalidOutput)
	}

	if sa.Watch && path == workspace.StdinPath {
		return fmt.Errorf("invalid argument %q: cannot watch stdin", "--watch")
	}

	opts := []workspace.Opt{}
	if len(sa.Filters) > 0 {
		f, err := match.Compile(sa.Filters...)
		if err != nil {
			return fmt.Errorf("invalid argument %q: %w", "--filter", err)
		}

		opts = append(opts, workspace.WithFilter(f))
	}

	ws := sa.workspace(cmd, path, opts...)
	w := cmd.OutOrStdout()
	styles := sidebar.PlainStyles()
	if isTerminal(w) {
		styles = sidebar.DefaultStyles()
	}

	printState := func(ctx context.Context) (*workspace.State, error) {
		s, err := ws.Load(ctx)
		if err != nil {
			return nil, err //nolint:wrapcheck // Already wrapped by the workspace.
		}

		return s, writeState(w, s, sa.Output, sa.Diff, styles)
	}

	ctx := cmd.Context()

	s, err := printState(ctx)
	if !sa.Watch {
		return err
	}

	if err != nil {
		slog.ErrorContext(ctx, "sort failed", slog.Any("err", err))
	}

	return watchLoop(ctx, ws, s, func(ctx context.Context) (*workspace.State, error) {
		s, err := printState(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "sort failed", slog.Any("err", err))
		}

		return s, nil
	})
}

// watchLoop calls reload after every change to the files used by s. It
// returns when ctx is done.
func watchLoop(
	ctx context.Context,
	ws *workspace.Workspace,
	s *workspace.State,
	reload workspace.LoadFunc,
) error {
	w, err := newWatcher(ws, s)
	if err != nil {
		return err
	}

	defer func() {
		err := w.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	ch := make(chan watch.Event, 1)
	w.Subscribe(ch)

	go w.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt := <-ch:
			if evt.Err != nil {
				slog.ErrorContext(ctx, "watch error", slog.Any("err", evt.Err))

				continue
			}

			slog.DebugContext(ctx, "file changed", slog.String("path", evt.Path))

			s, err = reload(evt.GetContext())
			if err != nil {
				return err
			}

			// The configuration file may have moved.
			if s != nil {
				w.Reset()

				err = w.Add(ws.WatchPaths(s)...)
				if err != nil {
					return fmt.Errorf("watch: %w", err)
				}
			}
		}
	}
}

// newWatcher returns a [watch.Watcher] for the files used by s.
// When s is nil only the catalog is watched.
func newWatcher(ws *workspace.Workspace, s *workspace.State) (*watch.Watcher, error) {
	w, err := watch.New()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	paths := []string{ws.CatalogPath()}
	if s != nil {
		paths = ws.WatchPaths(s)
	}

	err = w.Add(paths...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("watch: %w", err), w.Close())
	}

	return w, nil
}

func writeState(w io.Writer, s *workspace.State, output string, diff bool, styles sidebar.Styles) error {
	if diff {
		d := catalog.Diff(s.Source, s.Catalog, s.Comparator.Separator())
		if d == "" {
			slog.Info("catalog is already in sidebar order",
				slog.String("entries", english.Plural(s.Catalog.Len(), "entry", "")),
			)

			return nil
		}

		_, err := io.WriteString(w, d)
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}

		return nil
	}

	var (
		b   []byte
		err error
	)

	switch output {
	case OutputTree:
		tree := sidebar.Build(s.Catalog.Entries, s.Comparator.Separator())
		b = []byte(tree.Render(
			sidebar.WithShowRoots(s.ShowRoots),
			sidebar.WithStyles(styles),
		))
	case OutputList:
		for _, e := range s.Catalog.Entries {
			b = append(b, e.ID...)
			b = append(b, '\n')
		}
	case OutputJSON:
		b, err = json.MarshalIndent(s.Catalog.Entries, "", "  ")
		b = append(b, '\n')
	case OutputYAML:
		b, err = yaml.Marshal(s.Catalog.Entries)
	}

	if err != nil {
		return fmt.Errorf("encode %s: %w", output, err)
	}

	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
