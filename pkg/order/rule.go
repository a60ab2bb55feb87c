package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// Rest is the placeholder for unlisted names, kept in source order.
	Rest = "..."
	// RestAlphabetical is the placeholder for unlisted names, sorted
	// alphabetically.
	RestAlphabetical = "...abc"
)

// ErrInvalidDepthRule is matched by every [*InvalidDepthRuleError].
var ErrInvalidDepthRule = errors.New("invalid depth rule")

// InvalidDepthRuleError is returned when a [DepthRule] contains both
// [Rest] and [RestAlphabetical].
type InvalidDepthRuleError struct {
	Rule  DepthRule
	Depth int
}

func (e *InvalidDepthRuleError) Error() string {
	return fmt.Sprintf("%v at depth %d: found [%s], use either %q or %q for each level",
		ErrInvalidDepthRule, e.Depth, strings.Join(e.Rule, ","), Rest, RestAlphabetical)
}

func (e *InvalidDepthRuleError) Unwrap() error {
	return ErrInvalidDepthRule
}

// DepthRule is the explicit ordering for one level of the hierarchy.
type DepthRule []string

// Placeholder returns the placeholder used by the rule, or an empty string if
// the rule has none. An invalid rule reports [RestAlphabetical].
func (r DepthRule) Placeholder() string {
	switch {
	case slices.Contains(r, RestAlphabetical):
		return RestAlphabetical
	case slices.Contains(r, Rest):
		return Rest
	}

	return ""
}

// Names returns the explicitly listed names, without placeholders.
func (r DepthRule) Names() []string {
	names := make([]string, 0, len(r))
	for _, name := range r {
		if isPlaceholder(name) {
			continue
		}

		names = append(names, name)
	}

	return names
}

func (r DepthRule) validate(depth int) error {
	if slices.Contains(r, Rest) && slices.Contains(r, RestAlphabetical) {
		return &InvalidDepthRuleError{Rule: slices.Clone(r), Depth: depth}
	}

	return nil
}

// Spec is an ordered list of depth rules. Index 0 applies to the top level.
type Spec []DepthRule

// Validate checks every rule in s. [Comparator.Compare] performs the
// same check lazily, for the levels it visits; Validate reports problems
// before any sorting happens.
func (s Spec) Validate() error {
	var errs []error
	for depth, r := range s {
		err := r.validate(depth)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy of s.
func (s Spec) Clone() Spec {
	if s == nil {
		return nil
	}

	c := make(Spec, len(s))
	for i, r := range s {
		c[i] = slices.Clone(r)
	}

	return c
}

// compiledRule is a [DepthRule] resolved into lookups for comparison.
type compiledRule struct {
	err error
	// Positions of explicitly listed names. The first occurrence wins.
	index map[string]int
	// Position assigned to unlisted names.
	insert int
	alpha  bool
}

func compileRule(depth int, r DepthRule) compiledRule {
	cr := compiledRule{
		index:  make(map[string]int, len(r)),
		insert: len(r),
		err:    r.validate(depth),
	}

	rest, abc := -1, -1

	for i, name := range r {
		switch name {
		case Rest:
			if rest == -1 {
				rest = i
			}

		case RestAlphabetical:
			if abc == -1 {
				abc = i
			}

		default:
			if _, ok := cr.index[name]; !ok {
				cr.index[name] = i
			}
		}
	}

	switch {
	case abc != -1:
		cr.insert = abc
		cr.alpha = true

	case rest != -1:
		cr.insert = rest
	}

	return cr
}

func isPlaceholder(name string) bool {
	return name == Rest || name == RestAlphabetical
}
