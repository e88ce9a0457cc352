package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stylebook/internal/logging"
	"stylebook/pkg/fileops"
)

// LocalSource is a local directory used directly as the content root.
// No network operations are performed; Prepare only validates the path.
type LocalSource struct {
	// Path is the content directory, absolute or home-relative (~/...).
	Path string
}

func NewLocalSource(path string) LocalSource {
	return LocalSource{Path: path}
}

// Prepare validates the configured directory and returns its absolute
// path. The directory must already exist: creation belongs to setup
// flows (config.CreateNewConfig, the init command), not to serving.
func (ls LocalSource) Prepare(logger *logging.AppLogger) (string, error) {
	if logger != nil {
		logger.Info("Preparing local content source", "path", ls.Path)
	}

	trimmed := strings.TrimSpace(ls.Path)
	if trimmed == "" {
		return "", fmt.Errorf("local source path cannot be empty")
	}

	// Traversal, reserved directories, absolute-or-home requirement.
	// Runs on the raw path: cleaning first would erase ".." segments.
	if err := fileops.ValidateStoragePath(trimmed); err != nil {
		return "", fmt.Errorf("invalid local source path: %w", err)
	}

	clean := filepath.Clean(fileops.ExpandPath(trimmed))

	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("local source directory does not exist: %s", clean)
		}
		return "", fmt.Errorf("cannot access local source directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("local source path is not a directory: %s", clean)
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		// Already absolute after expansion; keep the cleaned path.
		abs = clean
	}

	if logger != nil {
		logger.Debug("Local content source validated", "resolved_path", abs)
	}
	return abs, nil
}

func (ls LocalSource) String() string {
	return fmt.Sprintf("LocalSource{Path: %s}", ls.Path)
}
