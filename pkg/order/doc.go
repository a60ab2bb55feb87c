// Package order decides the display order of catalog entries whose names are
// slash-delimited hierarchies, such as "Forms/Buttons/Primary".
//
// A [Spec] holds one [DepthRule] per hierarchy level. Each rule lists segment
// names in the order they should appear, and may contain one placeholder:
//   - [Rest] ("...") places every unlisted name at that position, keeping the
//     order the entries were defined in.
//   - [RestAlphabetical] ("...abc") places every unlisted name at that
//     position, ordered alphabetically using locale-aware collation.
//
// Without a placeholder, unlisted names are placed after all listed names.
// A rule that contains both placeholders is invalid, and comparing entries at
// that level returns an [*InvalidDepthRuleError].
//
// For example:
//
//	order.Spec{
//		{"Intro", "Forms", "Buttons", "..."}, // Top level.
//		{"Intro", "...", "System"},           // Intro first, System last.
//		{"Overview", "...abc"},               // Overview first, rest A-Z.
//	}
//
// When neither name at the first differing level is listed and the rule does
// not use [RestAlphabetical], [Comparator.Compare] returns 0 so that the
// original entry order is kept. That only holds under a stable sort, which is
// why [SortStable] should be preferred over passing [Comparator.Func] to an
// unstable sort such as [slices.SortFunc].
package order
