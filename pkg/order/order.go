package order

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultSeparator splits hierarchical names into segments.
const DefaultSeparator = "/"

// Comparator orders hierarchical names according to a [Spec].
//
// A Comparator is immutable after [New] returns and is safe for concurrent
// use.
type Comparator struct {
	collators sync.Pool
	spec      Spec
	rules     []compiledRule
	empty     compiledRule
	separator string
	lang      language.Tag
}

// Opt configures a [Comparator].
type Opt func(*Comparator)

// WithSeparator sets the segment separator. Empty separators are ignored.
func WithSeparator(sep string) Opt {
	return func(c *Comparator) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// WithLanguage sets the collation language used for [RestAlphabetical].
// The default is the root collation ([language.Und]).
func WithLanguage(tag language.Tag) Opt {
	return func(c *Comparator) {
		c.lang = tag
	}
}

// New creates a new [Comparator] for the given [Spec]. The spec is copied, so
// later changes to it have no effect.
//
// New never fails: invalid rules are reported by [Comparator.Compare] when a
// comparison reaches their level. Use [Spec.Validate] to check them up front.
func New(spec Spec, opts ...Opt) *Comparator {
	c := &Comparator{
		spec:      spec.Clone(),
		separator: DefaultSeparator,
		lang:      language.Und,
		empty:     compileRule(0, nil),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rules = make([]compiledRule, len(c.spec))
	for depth, r := range c.spec {
		c.rules[depth] = compileRule(depth, r)
	}

	// Collators keep internal buffers and must not be shared between
	// goroutines.
	lang := c.lang
	c.collators.New = func() any {
		return collate.New(lang)
	}

	return c
}

// Spec returns a copy of the comparator's [Spec].
func (c *Comparator) Spec() Spec {
	return c.spec.Clone()
}

// Separator returns the segment separator.
func (c *Comparator) Separator() string {
	return c.separator
}

// Compare returns a negative number when a sorts before b, a positive number
// when a sorts after b, and 0 when they are equal or the order should be taken
// from the source.
//
// It returns an [*InvalidDepthRuleError] if the rule for any level it visits
// contains both placeholders.
func (c *Comparator) Compare(a, b string) (int, error) {
	if a == b {
		return 0, nil
	}

	segsA := strings.Split(a, c.separator)
	segsB := strings.Split(b, c.separator)

	for depth := range max(len(segsA), len(segsB)) {
		r := c.rule(depth)
		if r.err != nil {
			return 0, r.err
		}

		nameA, nameB := segment(segsA, depth), segment(segsB, depth)
		if nameA == nameB {
			continue
		}

		return c.compareNames(r, nameA, nameB), nil
	}

	// Only reachable when the names differ in trailing empty segments, e.g.
	// "Forms" and "Forms/".
	return 0, nil
}

// Func adapts [Comparator.Compare] to the signature expected by the
// [slices] and [sort] packages. The returned function panics with an
// [*InvalidDepthRuleError] if a rule is invalid.
func (c *Comparator) Func() func(a, b string) int {
	return func(a, b string) int {
		n, err := c.Compare(a, b)
		if err != nil {
			panic(err)
		}

		return n
	}
}

func (c *Comparator) rule(depth int) *compiledRule {
	if depth < len(c.rules) {
		return &c.rules[depth]
	}

	return &c.empty
}

func (c *Comparator) compareNames(r *compiledRule, nameA, nameB string) int {
	posA, okA := r.index[nameA]
	posB, okB := r.index[nameB]

	if okA || okB {
		if !okA {
			posA = r.insert
		}
		if !okB {
			posB = r.insert
		}

		return posA - posB
	}

	if r.alpha {
		col, ok := c.collators.Get().(*collate.Collator)
		if !ok {
			col = collate.New(c.lang)
		}
		defer c.collators.Put(col)

		return col.CompareString(nameA, nameB)
	}

	return 0
}

// SortStable sorts s by the hierarchical name returned by kind, keeping the
// original order of elements that compare equal.
//
// If a rule is invalid, SortStable returns the first [*InvalidDepthRuleError]
// and leaves s in an unspecified order.
func SortStable[T any](c *Comparator, s []T, kind func(T) string) error {
	var err error

	slices.SortStableFunc(s, func(a, b T) int {
		if err != nil {
			return 0
		}

		n, cmpErr := c.Compare(kind(a), kind(b))
		if cmpErr != nil {
			err = cmpErr
			return 0
		}

		return n
	})

	return err
}

func segment(segs []string, depth int) string {
	if depth < len(segs) {
		return segs[depth]
	}

	return ""
}
