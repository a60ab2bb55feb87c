package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/storysort/pkg/mcp"
	"github.com/macropower/storysort/pkg/workspace"
)

type ServeMCPArgs struct {
	*RootArgs

	Address string
	Watch   bool
}

func NewServeMCPCmd(ra *RootArgs) *cobra.Command {
	sa := &ServeMCPArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "serve-mcp [catalog]",
		Short: "Serve the sorted catalog over the Model Context Protocol",
		Long: `Serve the sorted catalog over the Model Context Protocol.

Without --addr the server uses stdio. With --watch, results are cached and
refreshed when the catalog or configuration changes; otherwise every tool
call reads the files again.`,
		Example: `  # Serve over stdio.
  storysort serve-mcp ./storybook-static/index.json

  # Serve over streamable HTTP.
  storysort serve-mcp --addr :8080 --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeMCP(cmd, sa, catalogArg(args))
		},
	}

	cmd.Flags().StringVar(&sa.Address, "addr", "", "Address to serve streamable HTTP on, stdio is used when empty")
	cmd.Flags().BoolVarP(&sa.Watch, "watch", "w", false, "Cache results and refresh them when files change")

	return cmd
}

func runServeMCP(cmd *cobra.Command, sa *ServeMCPArgs, path string) error {
	ctx := cmd.Context()
	ws := sa.workspace(cmd, path)

	opts := []mcp.Opt{}

	if sa.Watch {
		if path == workspace.StdinPath {
			return fmt.Errorf("invalid argument %q: cannot watch stdin", "--watch")
		}

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
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped by the workspace.
		}

		err = w.Add(ws.WatchPaths(s)...)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		opts = append(opts, mcp.WithWatcher(w))

		go w.Run(ctx)
	}

	srv, err := mcp.NewServer(sa.Address, ws.Load, opts...)
	if err != nil {
		return fmt.Errorf("create mcp server: %w", err)
	}
	defer srv.Close()

	slog.DebugContext(ctx, "serving catalog", slog.String("path", path))

	err = srv.Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}

	return nil
}
