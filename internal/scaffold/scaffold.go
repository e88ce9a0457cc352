// Package scaffold materializes the embedded starter content tree into a
// content directory, giving a fresh install a working catalog: the four
// canonical standards documents and one code example per category.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stylebook/internal/logging"
	"stylebook/pkg/fileops"
)

//go:embed all:starter
var starterFS embed.FS

const starterRoot = "starter"

// Result reports what Materialize did, path by path, relative to the
// target directory.
type Result struct {
	Written []string
	Skipped []string
}

// Materialize writes the starter tree below targetDir. Existing files
// are never overwritten: a path already present is skipped, so running
// init over a populated tree is safe and repeatable.
func Materialize(targetDir string, logger *logging.AppLogger) (*Result, error) {
	if strings.TrimSpace(targetDir) == "" {
		return nil, fmt.Errorf("target directory cannot be empty")
	}
	if logger == nil {
		logger = logging.GetDefault()
	}

	expanded := fileops.ExpandPath(strings.TrimSpace(targetDir))
	if err := fileops.ValidatePathSecurity(expanded); err != nil {
		return nil, fmt.Errorf("invalid target directory: %w", err)
	}
	absDir, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve target directory: %w", err)
	}
	// ValidatePathSecurity only sees the path as given; a relative target
	// could still resolve into a reserved location.
	if fileops.IsReservedDirectory(absDir) {
		return nil, fmt.Errorf("target directory is a reserved system path: %s", absDir)
	}
	if err := fileops.EnsureDirectoryExists(absDir); err != nil {
		return nil, fmt.Errorf("cannot create target directory: %w", err)
	}

	result := &Result{}
	err = fs.WalkDir(starterFS, starterRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, starterRoot+"/")
		dest := filepath.Join(absDir, filepath.FromSlash(rel))

		if _, statErr := os.Stat(dest); statErr == nil {
			result.Skipped = append(result.Skipped, rel)
			return nil
		}

		data, readErr := starterFS.ReadFile(p)
		if readErr != nil {
			return fmt.Errorf("embedded file %s: %w", p, readErr)
		}
		if mkErr := fileops.EnsureDirectoryExists(filepath.Dir(dest)); mkErr != nil {
			return fmt.Errorf("cannot create %s: %w", filepath.Dir(dest), mkErr)
		}
		if writeErr := fileops.AtomicWrite(dest, data, 0644); writeErr != nil {
			return fmt.Errorf("cannot write %s: %w", rel, writeErr)
		}

		result.Written = append(result.Written, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Starter content materialized",
		"dir", absDir,
		"written", len(result.Written),
		"skipped", len(result.Skipped))
	return result, nil
}
