package previews_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/storysort/api/v1beta1/previews"
	"github.com/macropower/storysort/pkg/order"
	"github.com/macropower/storysort/pkg/yaml"
)

func TestNew(t *testing.T) {
	t.Parallel()

	p := previews.New()

	assert.Equal(t, "storysort.macropower.dev/v1beta1", p.GetAPIVersion())
	assert.Equal(t, "Preview", p.GetKind())
	require.NotNil(t, p.Options)
	require.NotNil(t, p.Options.StorySort)
	assert.Equal(t, previews.DefaultOrder(), p.Options.StorySort.Order)
	assert.True(t, p.RootsShown())
	assert.Equal(t, "200px", p.Docs.IframeHeight)
	require.NotNil(t, p.A11y.Options.RestoreScroll)
	assert.True(t, *p.A11y.Options.RestoreScroll)
	assert.Equal(t, true, p.A11y.Options.Checks["color-contrast"].Options["noScroll"])
	require.NoError(t, p.Validate())
}

func TestPreview_EnsureDefaults(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in        *previews.Preview
		wantOrder order.Spec
		wantRoots bool
	}{
		"empty document": {
			in:        &previews.Preview{},
			wantOrder: previews.DefaultOrder(),
			wantRoots: true,
		},
		"options without story sort": {
			in: &previews.Preview{
				Options: &previews.Options{},
			},
			wantOrder: nil,
			wantRoots: true,
		},
		"explicit values are kept": {
			in: &previews.Preview{
				Options: &previews.Options{
					ShowRoots: new(bool),
					StorySort: &previews.StorySort{
						Order: order.Spec{{"B", "A"}},
					},
				},
			},
			wantOrder: order.Spec{{"B", "A"}},
			wantRoots: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tc.in.EnsureDefaults()

			assert.Equal(t, tc.wantOrder, tc.in.Options.StorySort.Order)
			assert.Equal(t, tc.wantRoots, tc.in.RootsShown())
			assert.Equal(t, previews.DefaultIframeHeight, tc.in.Docs.IframeHeight)
			assert.NotNil(t, tc.in.A11y.Options)
		})
	}
}

func TestPreview_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in       *previews.Preview
		wantErr  error
		wantPath string
	}{
		"defaults": {
			in: previews.New(),
		},
		"invalid depth rule": {
			in: &previews.Preview{
				Options: &previews.Options{
					StorySort: &previews.StorySort{
						Order: order.Spec{{"A"}, {"...", "...abc"}},
					},
				},
			},
			wantErr:  order.ErrInvalidDepthRule,
			wantPath: "$.options.storySort.order[1]",
		},
		"invalid locale": {
			in: &previews.Preview{
				Options: &previews.Options{
					StorySort: &previews.StorySort{Locale: "not a locale!"},
				},
			},
			wantErr:  previews.ErrInvalidLocale,
			wantPath: "$.options.storySort.locale",
		},
		"invalid iframe height": {
			in: &previews.Preview{
				Docs: &previews.Docs{IframeHeight: "tall"},
			},
			wantErr:  previews.ErrInvalidHeight,
			wantPath: "$.docs.iframeHeight",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.in.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tc.wantErr)

			var yamlErr *yaml.Error
			require.True(t, errors.As(err, &yamlErr))
			require.NotNil(t, yamlErr.Path)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}

func TestPreview_Comparator(t *testing.T) {
	t.Parallel()

	c, err := previews.New().Comparator()
	require.NoError(t, err)

	got, err := c.Compare("Forms/Input", "Buttons/Button")
	require.NoError(t, err)
	assert.Negative(t, got)

	got, err = c.Compare("Forms/System", "Forms/Input")
	require.NoError(t, err)
	assert.Positive(t, got)

	p := &previews.Preview{
		Options: &previews.Options{
			StorySort: &previews.StorySort{Locale: "%%"},
		},
	}
	_, err = p.Comparator()
	require.ErrorIs(t, err, previews.ErrInvalidLocale)
}

func TestPreview_ElementsPath(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		elements   string
		configPath string
		want       string
	}{
		"unset": {
			configPath: "/repo/.storybook/preview.yaml",
			want:       "",
		},
		"relative": {
			elements:   "../custom-elements.json",
			configPath: "/repo/.storybook/preview.yaml",
			want:       "/repo/custom-elements.json",
		},
		"absolute": {
			elements:   "/abs/custom-elements.json",
			configPath: "/repo/.storybook/preview.yaml",
			want:       "/abs/custom-elements.json",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := &previews.Preview{CustomElements: tc.elements}
			assert.Equal(t, tc.want, p.ElementsPath(tc.configPath))
		})
	}
}

func TestDefaultYAML(t *testing.T) {
	t.Parallel()

	data := previews.DefaultYAML()

	var doc any
	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
	require.NoError(t, err)
	require.NoError(t, previews.DefaultValidator.Validate(doc))

	p := previews.NewEmpty()
	err = yaml.NewDecoder(bytes.NewReader(data)).Decode(p)
	require.NoError(t, err)
	p.EnsureDefaults()

	assert.Equal(t, previews.New().Options.StorySort.Order, p.Options.StorySort.Order)
	assert.Equal(t, previews.DefaultIframeHeight, p.Docs.IframeHeight)
	require.NoError(t, p.Validate())
}

func TestDefaultValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc      map[string]any
		wantPath string
	}{
		"unknown field": {
			doc: map[string]any{
				"apiVersion": "storysort.macropower.dev/v1beta1",
				"kind":       "Preview",
				"sidebar":    true,
			},
			wantPath: "$",
		},
		"wrong kind": {
			doc: map[string]any{
				"apiVersion": "storysort.macropower.dev/v1beta1",
				"kind":       "Configuration",
			},
			wantPath: "$.kind",
		},
		"order must be nested lists": {
			doc: map[string]any{
				"apiVersion": "storysort.macropower.dev/v1beta1",
				"kind":       "Preview",
				"options": map[string]any{
					"storySort": map[string]any{
						"order": []any{"Intro"},
					},
				},
			},
			wantPath: "$.options.storySort.order[0]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := previews.DefaultValidator.Validate(tc.doc)
			require.Error(t, err)

			var yamlErr *yaml.Error
			require.True(t, errors.As(err, &yamlErr))
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}

func TestPreview_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "preview.yaml")

	err := previews.New().Write(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Preview")
	assert.Contains(t, string(data), "storySort:")

	// Existing files are left alone.
	err = os.WriteFile(path, []byte("existing"), 0o600)
	require.NoError(t, err)
	require.NoError(t, previews.New().Write(path))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preview.yaml")

	require.NoError(t, previews.WriteDefault(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, previews.DefaultYAML(), data)
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sb := filepath.Join(root, ".storybook")
	require.NoError(t, os.MkdirAll(sb, 0o700))

	want := filepath.Join(sb, "preview.yaml")
	require.NoError(t, os.WriteFile(want, previews.DefaultYAML(), 0o600))

	sub := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(sub, 0o700))

	got, err := previews.Find(sub)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
