package order_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/macropower/storysort/pkg/order"
)

// defaultSpec is the ordering used by the default preview configuration.
var defaultSpec = order.Spec{
	{"Intro", "Forms", "Buttons", "Overlays", "Navigation", "Localize", "Icons", order.Rest},
	{"Intro", order.Rest, "System"},
	{"Overview", order.Rest, "_internals"},
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}

	return 0
}

func TestComparator_Compare(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		spec order.Spec
		a    string
		b    string
		want int
	}{
		"identical names": {
			spec: defaultSpec,
			a:    "Forms/Buttons",
			b:    "Forms/Buttons",
			want: 0,
		},
		"identical names with empty spec": {
			spec: nil,
			a:    "Forms/Buttons",
			b:    "Forms/Buttons",
			want: 0,
		},
		"listed names in rule order": {
			spec: order.Spec{{"X", "Y", order.Rest}},
			a:    "X",
			b:    "Y",
			want: -1,
		},
		"listed name before unlisted": {
			spec: order.Spec{{"X", "Y", order.Rest}},
			a:    "Y",
			b:    "Z",
			want: -1,
		},
		"unlisted name after listed": {
			spec: order.Spec{{"X", "Y", order.Rest}},
			a:    "Z",
			b:    "X",
			want: 1,
		},
		"unlisted names keep source order": {
			spec: order.Spec{{"X", "Y", order.Rest}},
			a:    "B",
			b:    "A",
			want: 0,
		},
		"unlisted names sorted alphabetically": {
			spec: order.Spec{{"X", order.RestAlphabetical}},
			a:    "B",
			b:    "A",
			want: 1,
		},
		"alphabetical is case insensitive at the primary level": {
			spec: order.Spec{{order.RestAlphabetical}},
			a:    "apple",
			b:    "Banana",
			want: -1,
		},
		"intro before forms": {
			spec: order.Spec{{"Intro", "Forms", order.Rest}, {}, {}},
			a:    "Intro",
			b:    "Forms",
			want: -1,
		},
		"forms before zebra": {
			spec: order.Spec{{"Intro", "Forms", order.Rest}, {}, {}},
			a:    "Forms",
			b:    "Zebra",
			want: -1,
		},
		"second level rule": {
			spec: order.Spec{{}, {"Buttons", "Overlays", order.Rest}},
			a:    "Forms/Buttons",
			b:    "Forms/Overlays",
			want: -1,
		},
		"placeholder in the middle": {
			spec: defaultSpec,
			a:    "Forms/System",
			b:    "Forms/Input",
			want: 1,
		},
		"unlisted sorted before trailing name": {
			spec: defaultSpec,
			a:    "Forms/Input",
			b:    "Forms/System",
			want: -1,
		},
		"no placeholder puts unlisted last": {
			spec: order.Spec{{"A", "B"}},
			a:    "Z",
			b:    "B",
			want: 1,
		},
		"no rule for level keeps source order": {
			spec: order.Spec{{"Forms"}},
			a:    "Forms/B",
			b:    "Forms/A",
			want: 0,
		},
		"missing segment is empty": {
			spec: order.Spec{{}, {"Buttons", order.Rest}},
			a:    "Forms",
			b:    "Forms/Buttons",
			want: 1,
		},
		"missing segment sorts alphabetically first": {
			spec: order.Spec{{}, {order.RestAlphabetical}},
			a:    "Forms",
			b:    "Forms/Buttons",
			want: -1,
		},
		"trailing separator": {
			spec: defaultSpec,
			a:    "Forms",
			b:    "Forms/",
			want: 0,
		},
		"third level": {
			spec: defaultSpec,
			a:    "Forms/Input/_internals",
			b:    "Forms/Input/Overview",
			want: 1,
		},
		"first duplicate position wins": {
			spec: order.Spec{{"A", "B", "A"}},
			a:    "A",
			b:    "B",
			want: -1,
		},
		"placeholder text is not a listed name": {
			spec: order.Spec{{"A", order.Rest}},
			a:    "...",
			b:    "Z",
			want: 0,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := order.New(tc.spec)

			got, err := c.Compare(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sign(got))
		})
	}
}

func TestComparator_ComparePositionDifference(t *testing.T) {
	t.Parallel()

	c := order.New(order.Spec{{"A", "B", "C", order.Rest}})

	got, err := c.Compare("A", "Z")
	require.NoError(t, err)
	assert.Equal(t, -3, got)

	got, err = c.Compare("C", "A")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestComparator_InvalidDepthRule(t *testing.T) {
	t.Parallel()

	spec := order.Spec{
		{"Intro", order.Rest},
		{"A", order.Rest, order.RestAlphabetical},
	}
	c := order.New(spec)

	tcs := map[string]struct {
		a       string
		b       string
		wantErr bool
	}{
		"differs at the invalid level": {
			a:       "Forms/A",
			b:       "Forms/B",
			wantErr: true,
		},
		"differs below the invalid level": {
			a:       "Forms/A/X",
			b:       "Forms/A/Y",
			wantErr: true,
		},
		"differs above the invalid level": {
			a:       "Intro/A",
			b:       "Forms/A",
			wantErr: false,
		},
		"identical names": {
			a:       "Forms/A",
			b:       "Forms/A",
			wantErr: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := c.Compare(tc.a, tc.b)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, order.ErrInvalidDepthRule)

			var ruleErr *order.InvalidDepthRuleError
			require.ErrorAs(t, err, &ruleErr)
			assert.Equal(t, 1, ruleErr.Depth)
			assert.Equal(t, spec[1], ruleErr.Rule)
			assert.Contains(t, err.Error(), "A,...,...abc")
		})
	}
}

func TestComparator_InvalidTopLevelRule(t *testing.T) {
	t.Parallel()

	c := order.New(order.Spec{{order.RestAlphabetical, order.Rest}})

	for _, pair := range [][2]string{
		{"A", "B"},
		{"Forms/Buttons", "Forms/Overlays"},
		{"Intro", "Zebra/Stripes"},
	} {
		_, err := c.Compare(pair[0], pair[1])
		require.ErrorIs(t, err, order.ErrInvalidDepthRule)
	}
}

func TestComparator_AntiSymmetry(t *testing.T) {
	t.Parallel()

	c := order.New(order.Spec{
		{"Intro", "Forms", order.RestAlphabetical},
		{"Overview", order.Rest, "System"},
	})

	names := []string{
		"Intro",
		"Intro/Overview",
		"Forms",
		"Forms/Overview",
		"Forms/System",
		"Forms/Input",
		"Alpha",
		"Zebra/Stripes",
		"Beta/System",
	}

	for _, a := range names {
		for _, b := range names {
			ab, err := c.Compare(a, b)
			require.NoError(t, err)

			ba, err := c.Compare(b, a)
			require.NoError(t, err)

			assert.Equal(t, sign(ab), -sign(ba), "%q vs %q", a, b)
		}
	}
}

func TestComparator_Options(t *testing.T) {
	t.Parallel()

	t.Run("separator", func(t *testing.T) {
		t.Parallel()

		c := order.New(order.Spec{{}, {"Buttons", "Overlays"}}, order.WithSeparator("."))
		assert.Equal(t, ".", c.Separator())

		got, err := c.Compare("Forms.Overlays", "Forms.Buttons")
		require.NoError(t, err)
		assert.Positive(t, got)
	})

	t.Run("empty separator is ignored", func(t *testing.T) {
		t.Parallel()

		c := order.New(nil, order.WithSeparator(""))
		assert.Equal(t, order.DefaultSeparator, c.Separator())
	})

	t.Run("language", func(t *testing.T) {
		t.Parallel()

		spec := order.Spec{{order.RestAlphabetical}}

		root := order.New(spec)
		got, err := root.Compare("Ärlig", "Zebra")
		require.NoError(t, err)
		assert.Negative(t, got)

		swedish := order.New(spec, order.WithLanguage(language.Swedish))
		got, err = swedish.Compare("Ärlig", "Zebra")
		require.NoError(t, err)
		assert.Positive(t, got)
	})
}

func TestComparator_SpecIsCopied(t *testing.T) {
	t.Parallel()

	spec := order.Spec{{"A", "B"}}
	c := order.New(spec)

	spec[0][0] = "B"
	spec[0][1] = "A"

	got, err := c.Compare("A", "B")
	require.NoError(t, err)
	assert.Negative(t, got)

	out := c.Spec()
	out[0][0] = "changed"
	assert.Equal(t, order.Spec{{"A", "B"}}, c.Spec())
}

func TestComparator_Func(t *testing.T) {
	t.Parallel()

	c := order.New(defaultSpec)
	f := c.Func()
	assert.Negative(t, f("Intro", "Forms"))

	invalid := order.New(order.Spec{{order.Rest, order.RestAlphabetical}}).Func()
	assert.Panics(t, func() {
		invalid("A", "B")
	})
}

func TestComparator_Concurrent(t *testing.T) {
	t.Parallel()

	c := order.New(order.Spec{{"Intro", order.RestAlphabetical}})

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 100 {
				got, err := c.Compare("Charlie", "Bravo")
				assert.NoError(t, err)
				assert.Positive(t, got)
			}
		})
	}

	wg.Wait()
}

type entry struct {
	kind string
	name string
}

func TestSortStable(t *testing.T) {
	t.Parallel()

	entries := []entry{
		{kind: "Zebra", name: "1"},
		{kind: "Forms/Overlays", name: "2"},
		{kind: "Forms/Buttons", name: "3"},
		{kind: "Intro", name: "4"},
		{kind: "Forms/Buttons", name: "5"},
		{kind: "Apple", name: "6"},
		{kind: "Forms/Buttons", name: "7"},
	}

	c := order.New(order.Spec{
		{"Intro", "Forms", order.Rest},
		{"Buttons", "Overlays", order.Rest},
	})

	err := order.SortStable(c, entries, func(e entry) string { return e.kind })
	require.NoError(t, err)

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.kind+"#"+e.name)
	}

	assert.Equal(t, []string{
		"Intro#4",
		"Forms/Buttons#3",
		"Forms/Buttons#5",
		"Forms/Buttons#7",
		"Forms/Overlays#2",
		"Zebra#1",
		"Apple#6",
	}, got)
}

func TestSortStable_Error(t *testing.T) {
	t.Parallel()

	c := order.New(order.Spec{{order.Rest, order.RestAlphabetical}})
	kinds := []string{"B", "A", "C"}

	err := order.SortStable(c, kinds, func(s string) string { return s })
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrInvalidDepthRule))
}

func TestSpec_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		spec    order.Spec
		depths  []int
		wantErr bool
	}{
		"nil": {
			spec: nil,
		},
		"default": {
			spec: defaultSpec,
		},
		"one invalid": {
			spec:    order.Spec{{"A"}, {order.Rest, order.RestAlphabetical}},
			wantErr: true,
			depths:  []int{1},
		},
		"two invalid": {
			spec: order.Spec{
				{order.RestAlphabetical, order.Rest},
				{"A"},
				{order.Rest, "B", order.RestAlphabetical},
			},
			wantErr: true,
			depths:  []int{0, 2},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.spec.Validate()
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, order.ErrInvalidDepthRule)

			for _, depth := range tc.depths {
				assert.Contains(t, err.Error(), fmt.Sprintf("at depth %d", depth))
			}
		})
	}
}

func TestDepthRule(t *testing.T) {
	t.Parallel()

	r := order.DepthRule{"Intro", order.Rest, "System"}
	assert.Equal(t, order.Rest, r.Placeholder())
	assert.Equal(t, []string{"Intro", "System"}, r.Names())

	assert.Equal(t, order.RestAlphabetical, order.DepthRule{"A", order.RestAlphabetical}.Placeholder())
	assert.Empty(t, order.DepthRule{"A"}.Placeholder())
}
