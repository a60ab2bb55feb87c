package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/macropower/storysort/api/v1beta1/previews"
)

// Source describes where a preview configuration was found.
type Source string

const (
	// SourceFlag is a path given explicitly by the user.
	SourceFlag Source = "flag"
	// SourceProject is a file found by walking up from the target path.
	SourceProject Source = "project"
	// SourceUser is the user-level configuration file.
	SourceUser Source = "user"
	// SourceDefault is the embedded default configuration.
	SourceDefault Source = "default"
)

// Resolved is a located preview configuration.
type Resolved struct {
	Preview *previews.Preview
	Path    string
	Source  Source
}

// Resolve locates and loads the preview configuration for target.
//
// An explicit path wins. Otherwise the nearest project file is used,
// then the user-level file, then the embedded default.
func Resolve(target, explicit string, opts ...LoaderOpt) (*Resolved, error) {
	path, src, err := locate(target, explicit)
	if err != nil {
		return nil, err
	}

	if src == SourceDefault {
		slog.Debug("no preview configuration found, using defaults")

		return &Resolved{Preview: previews.New(), Source: src}, nil
	}

	slog.Debug("load preview configuration",
		slog.String("path", path),
		slog.String("source", string(src)),
	)

	l, err := NewLoaderFromFile(path, previews.NewEmpty, previews.DefaultValidator, opts...)
	if err != nil {
		return nil, fmt.Errorf("read preview configuration: %w", err)
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Resolved{Preview: p, Path: path, Source: src}, nil
}

func locate(target, explicit string) (string, Source, error) {
	if explicit != "" {
		return explicit, SourceFlag, nil
	}

	if target != "" {
		path, err := previews.Find(target)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", "", err //nolint:wrapcheck // Already wrapped.
		}
		if path != "" {
			return path, SourceProject, nil
		}
	}

	path := previews.GetPath()

	_, err := os.Stat(path)
	if err == nil {
		return path, SourceUser, nil
	}

	return "", SourceDefault, nil
}
