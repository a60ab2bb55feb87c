package yaml

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

var errStyle = lipgloss.NewStyle().PaddingTop(1)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// ErrorWrapper applies a fixed set of [ErrorOpt]s to every [*Error] it wraps.
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap applies the wrapper's options (then opts) to err if it is an [*Error].
// Other errors are returned unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range ew.Opts {
		opt(yamlErr)
	}

	for _, opt := range opts {
		opt(yamlErr)
	}

	return yamlErr
}

// Error is a YAML decoding or validation error. It points at the failure using
// either a [*yaml.Path] or a [*token.Token], and renders the surrounding
// source when the Source is known.
type Error struct {
	Err     error
	Path    *yaml.Path
	Token   *token.Token
	Source  []byte
	Colored bool
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// WithColor enables ANSI colors in the annotated source.
func WithColor(colored bool) ErrorOpt {
	return func(e *Error) {
		e.Colored = colored
	}
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	switch {
	case e.Token != nil:
		return e.annotateToken()

	case e.Path != nil:
		if len(e.Source) == 0 {
			return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
		}

		annotated, err := e.Path.AnnotateSource(e.Source, e.Colored)
		if err != nil {
			slog.Debug("failed to annotate source with error",
				slog.String("path", e.Path.String()),
				slog.Any("error", err),
			)

			return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
		}

		return fmt.Sprintf("error at %s: %v\n%s", e.Path.String(), e.Err, errStyle.Render(string(annotated)))
	}

	return e.Err.Error()
}

func (e Error) annotateToken() string {
	pos := e.Token.Position
	msg := fmt.Sprintf("[%d:%d] %v", pos.Line, pos.Column, e.Err)

	var pp printer.Printer

	src := pp.PrintErrorToken(e.Token, e.Colored)
	if src == "" {
		return msg
	}

	return fmt.Sprintf("%s\n%s", msg, errStyle.Render(src))
}
