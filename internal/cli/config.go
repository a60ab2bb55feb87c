package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/storysort/api/v1beta1/previews"
	"github.com/macropower/storysort/pkg/config"
	"github.com/macropower/storysort/pkg/yaml"
)

// ErrNoConfig is returned when there is no preview configuration to validate.
var ErrNoConfig = errors.New("no preview configuration found")

func NewConfigCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the preview configuration",
	}

	cmd.AddCommand(
		newConfigInitCmd(),
		newConfigShowCmd(ra),
		newConfigValidateCmd(ra),
		newConfigSchemaCmd(),
	)

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default preview configuration",
		Long: `Write the default preview configuration.

Without a path, the configuration is written to ` + previews.FileNames[0] + ` in the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := previews.FileNames[0]
			if len(args) > 0 {
				path = args[0]
			}

			return previews.WriteDefault(path, force) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Print the preview configuration that applies to a path",
		Long: `Print the preview configuration that applies to a path, with defaults applied.

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

			slog.Info("resolved preview configuration",
				slog.String("path", res.Path),
				slog.String("source", string(res.Source)),
			)

			b, err := res.Preview.MarshalYAML()
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			w := cmd.OutOrStdout()
			if isTerminal(w) {
				return yaml.Highlight(w, b, "", "") //nolint:wrapcheck // Already wrapped.
			}

			_, err = w.Write(b)
			if err != nil {
				return fmt.Errorf("write configuration: %w", err)
			}

			return nil
		},
	}
}

func newConfigValidateCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a preview configuration file",
		Long: `Validate a preview configuration file against its schema and order rules.

Without a file, the file given by --config or the nearest project configuration is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ra.ConfigPath
			if len(args) > 0 {
				path = args[0]
			}

			if path == "" {
				found, err := previews.Find(".")
				if err != nil {
					return err //nolint:wrapcheck // Already wrapped.
				}

				if found == "" {
					return ErrNoConfig
				}

				path = found
			}

			l, err := config.NewLoaderFromFile(path, previews.NewEmpty, previews.DefaultValidator,
				config.WithColor(isTerminal(cmd.ErrOrStderr())),
			)
			if err != nil {
				return fmt.Errorf("read preview configuration: %w", err)
			}

			err = l.Validate()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			_, err = l.Load()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			if err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the preview configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := bytes.NewReader(previews.Schema()).WriteTo(cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
