// Package workspace loads a catalog together with the preview configuration
// that orders it.
package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/storysort/api/v1beta1/previews"
	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/config"
	"github.com/macropower/storysort/pkg/order"
)

// StdinPath reads the catalog from standard input.
const StdinPath = "-"

// State is a loaded catalog in sidebar order.
type State struct {
	// Catalog holds the entries in sidebar order.
	Catalog *catalog.Catalog
	// Source holds the entries in the order they were read.
	Source     *catalog.Catalog
	Comparator *order.Comparator
	Preview    *previews.Preview
	LoadedAt   time.Time
	// ConfigPath is empty when the embedded default configuration is used.
	ConfigPath   string
	ConfigSource config.Source
	ShowRoots    bool
}

// LoadFunc loads a [State].
type LoadFunc func(ctx context.Context) (*State, error)

// Workspace describes where to find the catalog and its configuration.
type Workspace struct {
	tracer      trace.Tracer
	filter      catalog.Matcher
	stdin       io.Reader
	catalogPath string
	target      string
	configPath  string
	loaderOpts  []config.LoaderOpt
	stdinData   []byte
	stdinErr    error
	stdinOnce   sync.Once
}

// Opt configures a [Workspace].
type Opt func(*Workspace)

// WithConfig sets an explicit preview configuration path.
func WithConfig(path string) Opt {
	return func(w *Workspace) {
		w.configPath = path
	}
}

// WithTarget sets the directory where the configuration search starts.
// It defaults to the directory of the catalog, or the working directory
// when the catalog is read from stdin.
func WithTarget(dir string) Opt {
	return func(w *Workspace) {
		w.target = dir
	}
}

// WithFilter keeps only the entries m matches.
func WithFilter(m catalog.Matcher) Opt {
	return func(w *Workspace) {
		w.filter = m
	}
}

// WithLoaderOpts passes opts to the configuration loader.
func WithLoaderOpts(opts ...config.LoaderOpt) Opt {
	return func(w *Workspace) {
		w.loaderOpts = append(w.loaderOpts, opts...)
	}
}

// WithStdin sets the reader used for [StdinPath].
func WithStdin(r io.Reader) Opt {
	return func(w *Workspace) {
		w.stdin = r
	}
}

// New creates a [Workspace] for the catalog at catalogPath.
func New(catalogPath string, opts ...Opt) *Workspace {
	w := &Workspace{
		tracer:      otel.Tracer("github.com/macropower/storysort/pkg/workspace"),
		catalogPath: catalogPath,
		stdin:       os.Stdin,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.target == "" {
		w.target = "."
		if catalogPath != StdinPath {
			w.target = catalogPath
		}
	}

	return w
}

// CatalogPath returns the catalog path.
func (w *Workspace) CatalogPath() string {
	return w.catalogPath
}

// Load reads the configuration and the catalog, then sorts the catalog.
//
// Standard input is read once. Later calls reuse the same data.
func (w *Workspace) Load(ctx context.Context) (*State, error) {
	ctx, span := w.tracer.Start(ctx, "load workspace",
		trace.WithAttributes(attribute.String("catalog.path", w.catalogPath)),
	)
	defer span.End()

	res, err := config.Resolve(w.target, w.configPath, w.loaderOpts...)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("resolve preview configuration: %w", err)
	}

	cmp, err := res.Preview.Comparator()
	if err != nil {
		return nil, fmt.Errorf("create comparator: %w", err)
	}

	src, err := w.readCatalog()
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	if w.filter != nil {
		src, err = src.Filter(w.filter)
		if err != nil {
			return nil, fmt.Errorf("filter catalog: %w", err)
		}
	}

	sorted := src.Clone()

	err = sorted.Sort(cmp)
	if err != nil {
		span.RecordError(err)

		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	span.SetAttributes(attribute.Int("catalog.entries", sorted.Len()))

	slog.DebugContext(ctx, "loaded workspace",
		slog.String("config", res.Path),
		slog.String("source", string(res.Source)),
		slog.Int("entries", sorted.Len()),
	)

	return &State{
		Catalog:      sorted,
		Source:       src,
		Comparator:   cmp,
		Preview:      res.Preview,
		LoadedAt:     time.Now(),
		ConfigPath:   res.Path,
		ConfigSource: res.Source,
		ShowRoots:    res.Preview.RootsShown(),
	}, nil
}

// WatchPaths returns the files a watcher should observe for s.
func (w *Workspace) WatchPaths(s *State) []string {
	paths := []string{}
	if w.catalogPath != StdinPath {
		paths = append(paths, w.catalogPath)
	}
	if s != nil && s.ConfigPath != "" {
		paths = append(paths, s.ConfigPath)
	}

	return paths
}

func (w *Workspace) readCatalog() (*catalog.Catalog, error) {
	if w.catalogPath != StdinPath {
		return catalog.LoadFile(w.catalogPath) //nolint:wrapcheck // Already wrapped.
	}

	w.stdinOnce.Do(func() {
		w.stdinData, w.stdinErr = io.ReadAll(w.stdin)
	})

	if w.stdinErr != nil {
		return nil, fmt.Errorf("read catalog from stdin: %w", w.stdinErr)
	}

	c, err := catalog.Load(w.stdinData)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}

	return c, nil
}
