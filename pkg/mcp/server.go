package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/storysort/pkg/version"
	"github.com/macropower/storysort/pkg/watch"
	"github.com/macropower/storysort/pkg/workspace"
)

// Watcher notifies the server when the files behind its state change.
type Watcher interface {
	Subscribe(ch chan<- watch.Event)
}

// Server implements the MCP server for storysort.
type Server struct {
	tracer  trace.Tracer
	server  *mcp.Server
	load    workspace.LoadFunc
	state   *workspace.State
	eventCh chan watch.Event
	done    chan struct{}
	address string
	mu      sync.Mutex
	close   sync.Once
}

// Opt configures a [Server].
type Opt func(*Server)

// WithWatcher reloads the state after w reports a change. Without a
// watcher the state is reloaded on every tool call.
func WithWatcher(w Watcher) Opt {
	return func(s *Server) {
		s.eventCh = make(chan watch.Event, 100)
		w.Subscribe(s.eventCh)
	}
}

// NewServer creates a new MCP server instance. An empty address serves
// over stdio.
func NewServer(address string, load workspace.LoadFunc, opts ...Opt) (*Server, error) {
	if load == nil {
		return nil, errors.New("load function is required")
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		tracer:  otel.Tracer("github.com/macropower/storysort/pkg/mcp"),
		address: address,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		load:    load,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	if s.eventCh != nil {
		go s.processEvents()
	}

	return s, nil
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List catalog entries (stories and docs pages) in sidebar order. Optionally filter them with a CEL expression.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"filter": {
					Type: "string",
					Description: "Optional CEL expression over id, kind, name, importPath, entryType and tags. " +
						`Example: kindRoot(kind) == "Forms" && entryType == entry.STORY`,
				},
			},
		},
	}, WithTracing(s.tracer, s.handleListEntries))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_kinds",
		Description: "Compare two kinds (slash-separated sidebar paths, e.g. 'Forms/Button') using the configured order.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"a": newKindSchema("The first kind."),
				"b": newKindSchema("The second kind."),
			},
			Required: []string{"a", "b"},
		},
	}, WithTracing(s.tracer, s.handleCompareKinds))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sort_kinds",
		Description: "Sort a list of kinds using the configured order. Kinds that compare equal keep their input order.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"kinds": {
					Type:        "array",
					Description: "The kinds to sort.",
					Items:       newKindSchema("A kind."),
				},
			},
			Required: []string{"kinds"},
		},
	}, WithTracing(s.tracer, s.handleSortKinds))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_sidebar",
		Description: "Render the sidebar tree of the catalog as text.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"showRoots": {
					Type:        "boolean",
					Description: "Render top-level groups as section headers. Defaults to the configured value.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleGetSidebar))
}

// processEvents drops the cached state whenever a watched file changes.
func (s *Server) processEvents() {
	for {
		select {
		case <-s.done:
			return

		case evt := <-s.eventCh:
			if evt.Err != nil {
				slog.Warn("watch error", slog.Any("error", evt.Err))

				continue
			}

			s.mu.Lock()
			s.state = nil
			s.mu.Unlock()
		}
	}
}

// current returns the cached state, loading it if needed.
func (s *Server) current(ctx context.Context) (*workspace.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil {
		return s.state, nil
	}

	ctx, span := s.tracer.Start(ctx, "load state")
	defer span.End()

	state, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// Only cache when a watcher can tell us the state went stale.
	if s.eventCh != nil {
		s.state = state
	}

	return state, nil
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Close stops processing watch events.
func (s *Server) Close() {
	s.close.Do(func() {
		close(s.done)
	})
}

// Serve starts the MCP server.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx) //nolint:contextcheck // Parent is already done.
		if err != nil {
			slog.Error("shutdown MCP server", slog.Any("error", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
