package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/storysort/pkg/config"
	"github.com/macropower/storysort/pkg/manifest"
)

const defaultElementsWidth = 80

// ErrNoManifest is returned when the preview configuration does not name a
// custom elements manifest.
var ErrNoManifest = errors.New("no custom elements manifest configured")

func NewElementsCmd(ra *RootArgs) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "elements [path]",
		Short: "List the custom elements declared by the configured manifest",
		Long: `List the custom elements declared by the manifest named in customElements.

The configuration is found by walking up from the path, which defaults to the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			res, err := config.Resolve(target, ra.ConfigPath, config.WithColor(isTerminal(cmd.ErrOrStderr())))
			if err != nil {
				return fmt.Errorf("resolve preview configuration: %w", err)
			}

			path := res.Preview.ElementsPath(res.Path)
			if path == "" {
				return ErrNoManifest
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			elements := m.Elements()
			if tag != "" {
				e, ok := m.Element(tag)
				if !ok {
					return fmt.Errorf("invalid argument %q: element not found in %s", tag, path)
				}

				elements = []manifest.Element{e}
			}

			return manifest.Write(cmd.OutOrStdout(), elements, terminalWidth(cmd)) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Only show the element with this tag name")

	return cmd
}

func terminalWidth(cmd *cobra.Command) int {
	if f, ok := cmd.OutOrStdout().(interface{ Fd() uintptr }); ok {
		w, _, err := term.GetSize(int(f.Fd()))
		if err == nil && w > 0 {
			return w
		}
	}

	return defaultElementsWidth
}
