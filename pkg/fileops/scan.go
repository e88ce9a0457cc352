package fileops

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxDepth bounds tree traversal when ScanOptions.MaxDepth is zero.
// Content trees are shallow in practice; the bound exists so a scan pointed
// at the wrong directory cannot wander arbitrarily deep.
const DefaultMaxDepth = 16

// ScanOptions configures a TreeScanner.
type ScanOptions struct {
	// MaxDepth limits how many directory levels below the scan root are
	// entered. Zero means DefaultMaxDepth.
	MaxDepth int

	// IncludeHidden includes files and directories whose names start with
	// a dot. Off by default: dotfiles in a content tree are editor and
	// tooling noise, not content.
	IncludeHidden bool

	// SkipPatterns lists directory base names that are never entered.
	// Nil means DefaultSkipPatterns().
	SkipPatterns []string

	// SkipUnreadableDirs makes the scan tolerate directories that cannot
	// be read instead of failing the whole walk.
	SkipUnreadableDirs bool

	// FileFilter decides whether a discovered file is reported, judged by
	// base name. Nil reports every file.
	FileFilter func(name string) bool
}

// FileEntry is one file discovered by a scan.
type FileEntry struct {
	// Name is the base filename.
	Name string

	// Path is the slash-separated path relative to the scan root.
	Path string
}

// TreeScanner walks a directory tree confined by an os.Root, so the scan
// can never follow anything out of the tree it was opened on. Traversal is
// fs.WalkDir, which visits entries in lexical order and does not descend
// into symlinked directories; scan results are therefore deterministic for
// a given filesystem state, and symlink loops cannot occur.
type TreeScanner struct {
	root     *os.Root
	rootPath string
	opts     ScanOptions
}

// NewTreeScanner validates dir and opens a scanner rooted there. The caller
// must Close the scanner when done. Construction fails if dir does not
// exist, is not a directory, or is a reserved system location.
func NewTreeScanner(dir string, opts ScanOptions) (*TreeScanner, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("scan path cannot be empty")
	}

	expanded := ExpandPath(dir)
	if err := ValidatePathSecurity(expanded); err != nil {
		return nil, fmt.Errorf("scan path security validation failed: %w", err)
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve scan path: %w", err)
	}
	if IsReservedDirectory(absPath) {
		return nil, fmt.Errorf("cannot scan reserved/system directory: %s", absPath)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access scan path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open scan root: %w", err)
	}

	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.SkipPatterns == nil {
		opts.SkipPatterns = DefaultSkipPatterns()
	}

	return &TreeScanner{
		root:     root,
		rootPath: absPath,
		opts:     opts,
	}, nil
}

// DefaultSkipPatterns returns the directory names a scan never enters.
// These cover what a content tree checked out next to (or inside) a real
// React Native project drags along.
func DefaultSkipPatterns() []string {
	return []string{
		".git",
		"node_modules",
		"dist",
		"build",
		"coverage",
		".expo",
	}
}

// RootPath returns the absolute path the scanner is confined to.
func (s *TreeScanner) RootPath() string {
	return s.rootPath
}

// Close releases the scanner's root handle.
func (s *TreeScanner) Close() error {
	if s.root != nil {
		err := s.root.Close()
		s.root = nil
		return err
	}
	return nil
}

// Scan walks the tree and returns every file matching the configured
// options, in lexical traversal order.
func (s *TreeScanner) Scan() ([]FileEntry, error) {
	if s.root == nil {
		return nil, fmt.Errorf("scanner has been closed")
	}

	var entries []FileEntry

	err := fs.WalkDir(s.root.FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if s.opts.SkipUnreadableDirs {
				return nil
			}
			return err
		}

		if d.IsDir() {
			if path == "." {
				return nil
			}
			name := d.Name()
			if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if slices.Contains(s.opts.SkipPatterns, name) {
				return fs.SkipDir
			}
			if pathDepth(path) >= s.opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !s.opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		// Symlinks count only when they resolve to a regular file without
		// leaving the root; broken or escaping links and links to
		// directories are dropped.
		if typ := d.Type(); typ&fs.ModeSymlink != 0 {
			info, err := fs.Stat(s.root.FS(), path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !typ.IsRegular() {
			return nil
		}

		if s.opts.FileFilter != nil && !s.opts.FileFilter(d.Name()) {
			return nil
		}

		entries = append(entries, FileEntry{Name: d.Name(), Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tree scan failed: %w", err)
	}

	return entries, nil
}

// ReadEntry reads the contents of a previously discovered entry through the
// scanner's root, so the read is subject to the same confinement as the
// scan. A file that disappeared or became unreadable since the scan
// surfaces here as an error.
func (s *TreeScanner) ReadEntry(relPath string) ([]byte, error) {
	if s.root == nil {
		return nil, fmt.Errorf("scanner has been closed")
	}
	data, err := fs.ReadFile(s.root.FS(), relPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", relPath, err)
	}
	return data, nil
}

// pathDepth counts how many levels below the scan root a slash-separated
// relative path sits.
func pathDepth(relPath string) int {
	return strings.Count(relPath, "/") + 1
}

// ScanTree opens a scanner on dir, runs one filtered scan, and closes it.
func ScanTree(dir string, fileFilter func(string) bool, maxDepth int) ([]FileEntry, error) {
	scanner, err := NewTreeScanner(dir, ScanOptions{
		MaxDepth:           maxDepth,
		SkipUnreadableDirs: true,
		FileFilter:         fileFilter,
	})
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	return scanner.Scan()
}
