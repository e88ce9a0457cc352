// Package content implements the read-only content model: categories of
// code examples resolved by name with fuzzy fallback, the grouped catalog
// listing, and standards documents addressed by identifier. Everything is
// served straight off a fixed directory tree; the package never writes to
// it.
package content

import (
	"fmt"
	"os"
	"path/filepath"

	"stylebook/internal/logging"
	"stylebook/pkg/fileops"
)

const (
	standardsDirName = "standards"
	examplesDirName  = "code-examples"

	// DefaultPlatform selects the example tree served when the
	// configuration names none.
	DefaultPlatform = "react-native"

	// maxFileSize bounds any single content file loaded into memory.
	maxFileSize = 5 * 1024 * 1024
)

// Library is the read-only view over one content tree: standards documents
// under <root>/standards and code examples under
// <root>/code-examples/<platform>/<category>. It is constructed once at
// startup and handed to the transport and CLI layers; it holds no mutable
// state, so concurrent use needs no locking. Every lookup re-walks the
// filesystem: the tree is small and externally managed, and a fresh walk
// means edits show up without a restart.
type Library struct {
	contentDir string
	platform   string
	logger     *logging.AppLogger
}

// Options configures a Library.
type Options struct {
	// ContentDir is the root of the content tree. Required.
	ContentDir string

	// Platform picks the subtree under code-examples. Empty means
	// DefaultPlatform.
	Platform string

	// Logger receives lookup diagnostics. Nil means the process logger.
	Logger *logging.AppLogger
}

// NewLibrary validates opts and builds a Library. The content directory
// does not have to exist yet; ValidateLayout reports on what is actually
// on disk.
func NewLibrary(opts Options) (*Library, error) {
	if opts.ContentDir == "" {
		return nil, fmt.Errorf("content directory is required")
	}

	expanded := fileops.ExpandPath(opts.ContentDir)
	if err := fileops.ValidatePathSecurity(expanded); err != nil {
		return nil, fmt.Errorf("invalid content directory: %w", err)
	}
	absDir, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve content directory: %w", err)
	}

	platform := opts.Platform
	if platform == "" {
		platform = DefaultPlatform
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetDefault()
	}

	return &Library{
		contentDir: absDir,
		platform:   platform,
		logger:     logger,
	}, nil
}

// ContentDir returns the absolute content tree root.
func (l *Library) ContentDir() string {
	return l.contentDir
}

// Platform returns the platform whose example tree is served.
func (l *Library) Platform() string {
	return l.platform
}

// StandardsDir returns the directory holding standards documents.
func (l *Library) StandardsDir() string {
	return filepath.Join(l.contentDir, standardsDirName)
}

// ExamplesDir returns the directory holding the platform's category
// subtrees.
func (l *Library) ExamplesDir() string {
	return filepath.Join(l.contentDir, examplesDirName, l.platform)
}

// categoryDir locates the directory backing a category, trying each
// candidate name in preference order. The returned dirName is the
// candidate that matched, used to build display paths. A category with no
// existing candidate yields a DirectoryMissingError naming the canonical
// location.
func (l *Library) categoryDir(category Category) (absDir, dirName string, err error) {
	candidates := category.DirCandidates()
	for _, name := range candidates {
		dir := filepath.Join(l.ExamplesDir(), name)
		info, statErr := os.Stat(dir)
		if statErr == nil && info.IsDir() {
			return dir, name, nil
		}
	}
	return "", "", &DirectoryMissingError{
		Category: string(category),
		Dir:      filepath.Join(l.ExamplesDir(), candidates[0]),
	}
}

// LayoutIssue is one problem found by ValidateLayout.
type LayoutIssue struct {
	Path   string
	Detail string
}

func (i LayoutIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Detail)
}

// ValidateLayout inspects the content tree and reports everything that
// would degrade lookups: missing roots, missing category directories,
// category directories that are symlinks escaping the tree. The check is
// advisory; requests against a broken tree still fail item by item with
// proper errors, but running it at startup gives operators the warning
// before the first request does.
func (l *Library) ValidateLayout() []LayoutIssue {
	var issues []LayoutIssue

	if info, err := os.Stat(l.contentDir); err != nil || !info.IsDir() {
		issues = append(issues, LayoutIssue{
			Path:   l.contentDir,
			Detail: "content directory does not exist",
		})
		return issues
	}

	if info, err := os.Stat(l.StandardsDir()); err != nil || !info.IsDir() {
		issues = append(issues, LayoutIssue{
			Path:   l.StandardsDir(),
			Detail: "standards directory does not exist",
		})
	} else {
		standards, err := l.Standards()
		if err == nil && len(standards) == 0 {
			issues = append(issues, LayoutIssue{
				Path:   l.StandardsDir(),
				Detail: "no standards documents found",
			})
		}
	}

	if info, err := os.Stat(l.ExamplesDir()); err != nil || !info.IsDir() {
		issues = append(issues, LayoutIssue{
			Path:   l.ExamplesDir(),
			Detail: fmt.Sprintf("examples directory for platform %q does not exist", l.platform),
		})
		return issues
	}

	for _, category := range Categories() {
		dir, _, err := l.categoryDir(category)
		if err != nil {
			issues = append(issues, LayoutIssue{
				Path:   filepath.Join(l.ExamplesDir(), category.DirCandidates()[0]),
				Detail: fmt.Sprintf("no directory for category %q", category),
			})
			continue
		}

		if isLink, err := fileops.IsSymlink(dir); err == nil && isLink {
			if err := fileops.ValidateSymlinkSecurity(dir, []string{l.contentDir}); err != nil {
				issues = append(issues, LayoutIssue{
					Path:   dir,
					Detail: "category directory is a symlink leaving the content tree",
				})
			}
		}
	}

	return issues
}
