package workspace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/storysort/pkg/config"
	"github.com/macropower/storysort/pkg/match"
	"github.com/macropower/storysort/pkg/workspace"
)

const previewYAML = `apiVersion: storysort.macropower.dev/v1beta1
kind: Preview
options:
  showRoots: false
  storySort:
    order:
      - [Intro, Forms, "..."]
      - ["...abc"]
`

const catalogYAML = `entries:
  - kind: Overlays/Dialog
    name: Docs
    type: docs
  - kind: Forms/Select
    name: Default
    tags: [beta]
  - kind: Forms/Input
    name: Default
  - kind: Intro
    name: Docs
    type: docs
`

func setup(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".storysort.yaml")
	catalogPath := filepath.Join(dir, "catalog.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte(previewYAML), 0o600))
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogYAML), 0o600))

	return configPath, catalogPath
}

func TestWorkspace_Load(t *testing.T) {
	t.Parallel()

	configPath, catalogPath := setup(t)

	ws := workspace.New(catalogPath)
	s, err := ws.Load(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"Intro", "Forms/Input", "Forms/Select", "Overlays/Dialog"}, s.Catalog.Kinds())
	assert.Equal(t, []string{"Overlays/Dialog", "Forms/Select", "Forms/Input", "Intro"}, s.Source.Kinds())
	assert.Equal(t, configPath, s.ConfigPath)
	assert.Equal(t, config.SourceProject, s.ConfigSource)
	assert.False(t, s.ShowRoots)
	assert.False(t, s.LoadedAt.IsZero())

	assert.ElementsMatch(t, []string{catalogPath, configPath}, ws.WatchPaths(s))
}

func TestWorkspace_LoadWithFilter(t *testing.T) {
	t.Parallel()

	_, catalogPath := setup(t)

	f, err := match.New(`kindRoot(kind) == "Forms"`)
	require.NoError(t, err)

	ws := workspace.New(catalogPath, workspace.WithFilter(f))
	s, err := ws.Load(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"Forms/Input", "Forms/Select"}, s.Catalog.Kinds())
}

func TestWorkspace_LoadStdin(t *testing.T) {
	t.Parallel()

	configPath, _ := setup(t)

	ws := workspace.New(workspace.StdinPath,
		workspace.WithConfig(configPath),
		workspace.WithStdin(strings.NewReader(catalogYAML)),
	)

	for range 2 {
		s, err := ws.Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 4, s.Catalog.Len())
		assert.Equal(t, config.SourceFlag, s.ConfigSource)
		assert.Equal(t, []string{configPath}, ws.WatchPaths(s))
	}
}

func TestWorkspace_LoadErrors(t *testing.T) {
	t.Parallel()

	configPath, catalogPath := setup(t)

	tcs := map[string]struct {
		ws *workspace.Workspace
	}{
		"missing catalog": {
			ws: workspace.New(filepath.Join(filepath.Dir(catalogPath), "missing.yaml"),
				workspace.WithConfig(configPath)),
		},
		"missing config": {
			ws: workspace.New(catalogPath,
				workspace.WithConfig(filepath.Join(filepath.Dir(configPath), "missing.yaml"))),
		},
		"invalid catalog": {
			ws: workspace.New(workspace.StdinPath,
				workspace.WithConfig(configPath),
				workspace.WithStdin(strings.NewReader("entries: 1\n"))),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.ws.Load(t.Context())
			require.Error(t, err)
		})
	}
}
