package sidebar_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/sidebar"
)

func testEntries() []catalog.Entry {
	return catalog.New(
		catalog.Entry{Kind: "Intro", Name: "Docs", Type: catalog.TypeDocs},
		catalog.Entry{Kind: "Forms/Input", Name: "Default", Type: catalog.TypeStory},
		catalog.Entry{Kind: "Forms/Button", Name: "Primary", Type: catalog.TypeStory},
		catalog.Entry{Kind: "Overlays/Dialog", Name: "Docs", Type: catalog.TypeDocs},
	).Entries
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tree := sidebar.Build(testEntries(), "")

	roots := tree.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, "Intro", roots[0].Name)
	assert.True(t, roots[0].IsLeaf())
	assert.Equal(t, "Forms", roots[1].Name)
	require.Len(t, roots[1].Children, 2)
	assert.Equal(t, "Forms/Input", roots[1].Children[0].Path)
	assert.Equal(t, 1, roots[1].Children[0].Depth)
	assert.Equal(t, "Button", roots[1].Children[1].Name)
	assert.Equal(t, "/", tree.Separator())

	ids := []string{}
	for _, e := range tree.Entries() {
		ids = append(ids, e.ID)
	}

	assert.Equal(t, []string{
		"intro--docs",
		"forms-input--default",
		"forms-button--primary",
		"overlays-dialog--docs",
	}, ids)
}

func TestBuild_GroupsLateSiblings(t *testing.T) {
	t.Parallel()

	tree := sidebar.Build(catalog.New(
		catalog.Entry{Kind: "A/One", Name: "x"},
		catalog.Entry{Kind: "B", Name: "y"},
		catalog.Entry{Kind: "A/Two", Name: "z"},
	).Entries, "/")

	roots := tree.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "A", roots[0].Name)
	assert.Len(t, roots[0].Children, 2)
}

func TestBuild_CustomSeparator(t *testing.T) {
	t.Parallel()

	tree := sidebar.Build(catalog.New(
		catalog.Entry{Kind: "Forms.Input", Name: "x"},
	).Entries, ".")

	require.Len(t, tree.Roots(), 1)
	assert.Equal(t, "Forms.Input", tree.Roots()[0].Children[0].Path)
}

func TestTree_Render(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want      []string
		showRoots bool
	}{
		"roots shown": {
			showRoots: true,
			want: []string{
				"▾ Intro",
				"  ≡ Docs",
				"",
				"FORMS",
				"▾ Input",
				"  • Default",
				"▾ Button",
				"  • Primary",
				"",
				"OVERLAYS",
				"▾ Dialog",
				"  ≡ Docs",
			},
		},
		"roots hidden": {
			showRoots: false,
			want: []string{
				"▾ Intro",
				"  ≡ Docs",
				"▾ Forms",
				"  ▾ Input",
				"    • Default",
				"  ▾ Button",
				"    • Primary",
				"▾ Overlays",
				"  ▾ Dialog",
				"    ≡ Docs",
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tree := sidebar.Build(testEntries(), "/")
			got := tree.Render(
				sidebar.WithShowRoots(tc.showRoots),
				sidebar.WithStyles(sidebar.PlainStyles()),
			)

			assert.Equal(t, strings.Join(tc.want, "\n")+"\n", ansi.Strip(got))
		})
	}
}

func TestTree_Lines(t *testing.T) {
	t.Parallel()

	tree := sidebar.Build(testEntries(), "/")
	lines := tree.Lines(
		sidebar.WithShowRoots(true),
		sidebar.WithStyles(sidebar.PlainStyles()),
		sidebar.WithWidth(4),
	)

	var roots, entries int
	for _, l := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(l.Text), 4)

		if l.Root {
			roots++
		}
		if l.Entry != nil {
			entries++
		}
	}

	assert.Equal(t, 2, roots)
	assert.Equal(t, 4, entries)
}
