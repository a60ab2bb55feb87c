// Package previews provides the Preview configuration type for storysort.
package previews

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/language"

	_ "embed"

	"github.com/macropower/storysort/api"
	"github.com/macropower/storysort/api/v1beta1"
	"github.com/macropower/storysort/pkg/order"
	"github.com/macropower/storysort/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o previews.v1beta1.json

// DefaultIframeHeight is the height of inline story frames in docs.
const DefaultIframeHeight = "200px"

var (
	// FileNames contains the valid names for preview configuration files,
	// in order of preference.
	FileNames = []string{
		filepath.Join(".storybook", "preview.yaml"),
		".storysort.yaml",
		"storysort.yaml",
	}

	//go:embed preview.yaml
	defaultPreviewYAML []byte

	//go:embed previews.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for preview configurations.
	ValidKinds = []string{"Preview"}

	// DefaultValidator validates preview configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/previews.v1beta1.json", schemaJSON)

	// ErrInvalidLocale is returned when the story sort locale is not a valid
	// BCP 47 language tag.
	ErrInvalidLocale = errors.New("invalid locale")

	// ErrInvalidHeight is returned when the docs iframe height is not a CSS length.
	ErrInvalidHeight = errors.New("invalid iframe height")

	cssLengthRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|em|rem|vh|%)$`)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Preview)(nil)
)

// DefaultOrder returns the sidebar order used when none is configured.
func DefaultOrder() order.Spec {
	return order.Spec{
		{"Intro", "Forms", "Buttons", "Overlays", "Navigation", "Localize", "Icons", order.Rest},
		{"Intro", order.Rest, "System"},
		{"Overview", order.Rest, "_internals"},
	}
}

// Preview represents the preview configuration of a component catalog.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Preview struct {
	Options          *Options `json:"options,omitempty"        jsonschema:"title=Options"`
	A11y             *A11y    `json:"a11y,omitempty"           jsonschema:"title=Accessibility"`
	Docs             *Docs    `json:"docs,omitempty"           jsonschema:"title=Docs"`
	CustomElements   string   `json:"customElements,omitempty" jsonschema:"title=Custom Elements"`
	v1beta1.TypeMeta `json:",inline"`
}

// Options configures the sidebar.
type Options struct {
	// ShowRoots renders top-level groups as sidebar sections.
	ShowRoots *bool `json:"showRoots,omitempty" jsonschema:"title=Show Roots"`
	// StorySort configures the sidebar order.
	StorySort *StorySort `json:"storySort,omitempty" jsonschema:"title=Story Sort"`
}

// StorySort configures the sidebar order.
type StorySort struct {
	// Locale is the BCP 47 language tag used to order names alphabetically.
	Locale string `json:"locale,omitempty" jsonschema:"title=Locale"`
	// Order contains one depth rule per level of the hierarchy.
	Order order.Spec `json:"order,omitempty" jsonschema:"title=Order"`
}

// A11y configures accessibility checks. The values are passed through to
// the checker without interpretation.
type A11y struct {
	Config  map[string]any `json:"config,omitempty"  jsonschema:"title=Config"`
	Options *A11yOptions   `json:"options,omitempty" jsonschema:"title=Options"`
}

// A11yOptions configures how accessibility checks run.
type A11yOptions struct {
	Checks        map[string]A11yCheck `json:"checks,omitempty"        jsonschema:"title=Checks"`
	RestoreScroll *bool                `json:"restoreScroll,omitempty" jsonschema:"title=Restore Scroll"`
}

// A11yCheck configures a single accessibility check.
type A11yCheck struct {
	Enabled *bool          `json:"enabled,omitempty" jsonschema:"title=Enabled"`
	Options map[string]any `json:"options,omitempty" jsonschema:"title=Options"`
}

// Docs configures documentation pages.
type Docs struct {
	IframeHeight string `json:"iframeHeight,omitempty" jsonschema:"title=Iframe Height"`
}

// NewEmpty creates a [Preview] with only its type metadata set. Loaders
// decode into it and apply defaults afterwards.
func NewEmpty() *Preview {
	return &Preview{TypeMeta: v1beta1.NewTypeMeta("Preview")}
}

// New creates a new [Preview] with default values.
func New() *Preview {
	p := &Preview{
		TypeMeta: v1beta1.NewTypeMeta("Preview"),
	}
	p.EnsureDefaults()

	return p
}

// EnsureDefaults initializes nil fields to their default values.
//
// A missing options section gets the default order. A present options
// section without storySort keeps source order everywhere.
func (p *Preview) EnsureDefaults() {
	if p.Options == nil {
		p.Options = &Options{
			StorySort: &StorySort{Order: DefaultOrder()},
		}
	}
	if p.Options.ShowRoots == nil {
		p.Options.ShowRoots = ptr(true)
	}
	if p.Options.StorySort == nil {
		p.Options.StorySort = &StorySort{}
	}

	if p.A11y == nil {
		p.A11y = &A11y{
			Config: map[string]any{},
			Options: &A11yOptions{
				Checks: map[string]A11yCheck{
					"color-contrast": {
						Options: map[string]any{"noScroll": true},
					},
				},
				RestoreScroll: ptr(true),
			},
		}
	}
	if p.A11y.Options == nil {
		p.A11y.Options = &A11yOptions{}
	}

	if p.Docs == nil {
		p.Docs = &Docs{}
	}
	if p.Docs.IframeHeight == "" {
		p.Docs.IframeHeight = DefaultIframeHeight
	}
}

// Validate validates the preview configuration. Errors that can be tied to
// a location in the document are returned as [*yaml.Error].
func (p *Preview) Validate() error {
	pb := yaml.NewPathBuilder()

	if p.Options != nil && p.Options.StorySort != nil {
		sortPath := pb.Root().Child("options").Child("storySort")

		_, err := p.Options.StorySort.language()
		if err != nil {
			return yaml.NewError(err, yaml.WithPath(sortPath.Child("locale").Build()))
		}

		err = p.Options.StorySort.Order.Validate()
		var ruleErr *order.InvalidDepthRuleError
		if errors.As(err, &ruleErr) {
			return yaml.NewError(ruleErr,
				yaml.WithPath(pb.Root().
					Child("options").
					Child("storySort").
					Child("order").
					Index(uint(ruleErr.Depth)).
					Build()),
			)
		}
		if err != nil {
			return fmt.Errorf("validate story sort: %w", err)
		}
	}

	if p.Docs != nil && p.Docs.IframeHeight != "" && !cssLengthRe.MatchString(p.Docs.IframeHeight) {
		return yaml.NewError(
			fmt.Errorf("%w: %q", ErrInvalidHeight, p.Docs.IframeHeight),
			yaml.WithPath(pb.Root().Child("docs").Child("iframeHeight").Build()),
		)
	}

	return nil
}

// Comparator returns an [order.Comparator] for the configured story sort.
func (p *Preview) Comparator() (*order.Comparator, error) {
	if p.Options == nil || p.Options.StorySort == nil {
		return order.New(nil), nil
	}

	return p.Options.StorySort.Comparator()
}

// RootsShown reports whether top-level groups are rendered as sections.
func (p *Preview) RootsShown() bool {
	if p.Options == nil || p.Options.ShowRoots == nil {
		return true
	}

	return *p.Options.ShowRoots
}

// ElementsPath returns the custom elements manifest path resolved against
// the directory of the configuration file at configPath.
func (p *Preview) ElementsPath(configPath string) string {
	if p.CustomElements == "" || filepath.IsAbs(p.CustomElements) {
		return p.CustomElements
	}

	return filepath.Join(filepath.Dir(configPath), p.CustomElements)
}

// Validate checks every depth rule and the locale.
func (s *StorySort) Validate() error {
	_, err := s.language()
	if err != nil {
		return err
	}

	err = s.Order.Validate()
	if err != nil {
		return fmt.Errorf("order: %w", err)
	}

	return nil
}

// Comparator returns an [order.Comparator] for the configured order and
// locale. Depth rules are checked lazily during comparison.
func (s *StorySort) Comparator() (*order.Comparator, error) {
	tag, err := s.language()
	if err != nil {
		return nil, err
	}

	return order.New(s.Order, order.WithLanguage(tag)), nil
}

func (s *StorySort) language() (language.Tag, error) {
	if s.Locale == "" {
		return language.Und, nil
	}

	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %w", ErrInvalidLocale, s.Locale, err)
	}

	return tag, nil
}

func (p Preview) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the preview configuration to YAML.
func (p Preview) MarshalYAML() ([]byte, error) {
	type alias Preview

	b, err := api.MarshalYAML(alias(p))
	if err != nil {
		return nil, fmt.Errorf("marshal preview: %w", err)
	}

	return b, nil
}

// Write writes the preview configuration to the specified path if it
// doesn't already exist.
func (p Preview) Write(path string) error {
	b, err := p.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default preview.yaml.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultPreviewYAML...)
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// WriteDefault writes the embedded default preview.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultPreviewYAML, force, "preview configuration")
	if err != nil {
		return fmt.Errorf("write default preview: %w", err)
	}

	return nil
}

// GetPath returns the path to the user-level preview configuration file.
func GetPath() string {
	return api.GetConfigPath("preview.yaml")
}

// Find searches for a preview configuration file starting from targetPath
// and walking up the directory tree until the filesystem root.
// Returns the path to the file if found, or empty string if not found.
func Find(targetPath string) (string, error) {
	path, err := api.FindConfigFile(targetPath, FileNames)
	if err != nil {
		return "", fmt.Errorf("find preview config: %w", err)
	}

	return path, nil
}

func ptr[T any](v T) *T {
	return &v
}
