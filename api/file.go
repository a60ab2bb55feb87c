// Package api contains the versioned configuration types for storysort, and
// helpers for locating, reading and writing their files.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/storysort/pkg/yaml"
)

// AppName is the directory name used below the user's config directory.
const AppName = "storysort"

// GetConfigPath returns the path to filename in the user's config directory.
// It checks $XDG_CONFIG_HOME first, then ~/.config, and finally the temp
// directory.
func GetConfigPath(filename string) string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, AppName, filename)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", AppName, filename)
	}

	tmpPath := filepath.Join(os.TempDir(), AppName, filename)

	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", tmpPath),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpPath
}

// fileState reports whether path is an existing regular file. It returns an
// error for directories and other non-regular files.
func fileState(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file: %w", err)
	}

	switch {
	case info.Mode().IsRegular():
		return true, nil
	case info.IsDir():
		return false, fmt.Errorf("%s: path is a directory", path)
	}

	return false, fmt.Errorf("%s: unknown file state", path)
}

// ReadFile reads a regular file.
func ReadFile(path string) ([]byte, error) {
	exists, err := fileState(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("stat file: %w", fs.ErrNotExist)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// MarshalYAML serializes an object to YAML bytes.
func MarshalYAML(obj any) ([]byte, error) {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// WriteIfNotExists writes data to path unless a file already exists there.
// Parent directories are created as needed.
func WriteIfNotExists(path string, data []byte) error {
	exists, err := fileState(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return writeFile(path, data)
}

// WriteDefaultFile writes defaultData to path. An existing file is kept,
// unless force is set, in which case it is renamed to a timestamped backup
// first. The kind is used in log messages and errors.
func WriteDefaultFile(path string, defaultData []byte, force bool, kind string) error {
	exists, err := fileState(path)
	if err != nil {
		return err
	}

	if exists && !force {
		slog.Debug("file already exists, skipping write",
			slog.String("type", kind),
			slog.String("path", path),
		)

		return nil
	}

	if exists {
		backupPath := filepath.Join(filepath.Dir(path),
			fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano()))

		slog.Info("backing up existing file",
			slog.String("type", kind),
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing %s file to backup: %w", kind, err)
		}
	}

	slog.Info("write default file",
		slog.String("type", kind),
		slog.String("path", path),
	)

	err = writeFile(path, defaultData)
	if err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}

	return nil
}

func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// FindConfigFile searches for any of fileNames starting at targetPath and
// walking up to the filesystem root. fileNames may contain subdirectories,
// e.g. ".storybook/preview.yaml". It returns an empty string if nothing is
// found.
func FindConfigFile(targetPath string, fileNames []string) (string, error) {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	searchDir := absPath
	if !info.IsDir() {
		searchDir = filepath.Dir(absPath)
	}

	for {
		for _, fileName := range fileNames {
			configPath := filepath.Join(searchDir, fileName)

			exists, _ := fileState(configPath)
			if exists {
				return configPath, nil
			}
		}

		parent := filepath.Dir(searchDir)
		if parent == searchDir {
			return "", nil
		}

		searchDir = parent
	}
}
