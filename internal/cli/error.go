package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/storysort/pkg/order"
	"github.com/macropower/storysort/pkg/yaml"
)

var errText = lipgloss.NewStyle().MarginLeft(2)

// ErrorHandler prints err with fang's styles. Configuration errors keep the
// annotated YAML source as-is, and known mistakes get a hint.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))

	var yamlErr *yaml.Error
	if errors.As(err, &yamlErr) {
		// The source annotation is already laid out line by line.
		mustN(fmt.Fprintln(w, err.Error()))
	} else {
		mustN(fmt.Fprintln(w, errText.Render(err.Error())))
	}

	mustN(fmt.Fprintln(w))

	if hint := errorHint(err); hint != "" {
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Hint:"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hint),
		)))
		mustN(fmt.Fprintln(w))
	}

	if isUsageError(err) {
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		)))
		mustN(fmt.Fprintln(w))
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, order.ErrInvalidDepthRule):
		return fmt.Sprintf(
			"each storySort.order level takes %q (unlisted names in source order) or %q (unlisted names alphabetically), not both.",
			order.Rest, order.RestAlphabetical,
		)

	case errors.Is(err, ErrInvalidOutput):
		return "use --output with one of: " + strings.Join(AllOutputs, ", ") + "."

	case errors.Is(err, ErrNoManifest):
		return "set customElements in the preview configuration to the path of custom-elements.json."
	}

	return ""
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
