package api_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/storysort/api"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, "/custom/config/storysort/preview.yaml", api.GetConfigPath("preview.yaml"))

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/test/home")

	assert.Equal(t, "/test/home/.config/storysort/preview.yaml", api.GetConfigPath("preview.yaml"))
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: b\n"), 0o600))

	tcs := map[string]struct {
		path    string
		want    string
		errMsg  string
		wantErr bool
	}{
		"regular file": {
			path: path,
			want: "a: b\n",
		},
		"directory": {
			path:    dir,
			wantErr: true,
			errMsg:  "path is a directory",
		},
		"missing": {
			path:    filepath.Join(dir, "missing.yaml"),
			wantErr: true,
			errMsg:  "stat file",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := api.ReadFile(tc.path)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	b, err := api.MarshalYAML(map[string]any{"key": "value"})
	require.NoError(t, err)
	assert.Equal(t, "key: value\n", string(b))
}

func TestWriteIfNotExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.yaml")

	require.NoError(t, api.WriteIfNotExists(path, []byte("first")))
	require.NoError(t, api.WriteIfNotExists(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	err = api.WriteIfNotExists(dir, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is a directory")
}

func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		existing    string
		force       bool
		want        string
		wantBackups int
	}{
		"new file": {
			want: "default",
		},
		"existing file kept": {
			existing: "custom",
			want:     "custom",
		},
		"existing file replaced with force": {
			existing:    "custom",
			force:       true,
			want:        "default",
			wantBackups: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "preview.yaml")

			if tc.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.existing), 0o600))
			}

			err := api.WriteDefaultFile(path, []byte("default"), tc.force, "preview")
			require.NoError(t, err)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))

			backups, err := filepath.Glob(filepath.Join(dir, "preview.yaml.*.old"))
			require.NoError(t, err)
			assert.Len(t, backups, tc.wantBackups)
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "packages", "ui")
	require.NoError(t, os.MkdirAll(nested, 0o700))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".storybook"), 0o700))

	configPath := filepath.Join(root, ".storybook", "preview.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("kind: Preview\n"), 0o600))

	names := []string{"storysort.yaml", ".storybook/preview.yaml"}

	got, err := api.FindConfigFile(nested, names)
	require.NoError(t, err)
	assert.Equal(t, configPath, got)

	other := t.TempDir()
	got, err = api.FindConfigFile(other, []string{"does-not-exist-" + filepath.Base(other) + ".yaml"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = api.FindConfigFile(filepath.Join(root, "missing"), names)
	require.Error(t, err)
}
