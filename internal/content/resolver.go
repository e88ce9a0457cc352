package content

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"stylebook/pkg/fileops"
)

// Resolution is a successful lookup: the matched file's text and its path
// relative to the platform examples root. The relative path is
// informational, for display and diagnostics.
type Resolution struct {
	Category     Category
	Name         string
	Content      string
	RelativePath string
}

// Resolve locates the example best matching name inside a category and
// returns its contents. Three strategies run in order, first hit wins:
//
//  1. exact filename match, extension included if the caller passed one
//  2. name + extension, for each recognized extension in priority order
//  3. substring match of the lowercased name against lowercased file
//     stems, extension priority order then traversal order
//
// Within each strategy candidates are considered in the scanner's lexical
// traversal order, so resolution is reproducible for a given tree. The
// walk is fresh on every call; there is no index to go stale.
//
// Failures are typed: NotFoundError when nothing matches,
// DirectoryMissingError when the category has no backing directory, and
// ReadFailureError when a matched file cannot be read.
func (l *Library) Resolve(category Category, name string) (*Resolution, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	// A blank name would substring-match every stem in strategy 3.
	if strings.TrimSpace(name) == "" {
		return nil, &NotFoundError{Category: string(category), Name: name}
	}

	defer l.logger.LogPerformance(fmt.Sprintf("resolve %s/%s", category, name), time.Now())

	dir, dirName, err := l.categoryDir(category)
	if err != nil {
		l.logger.Warn("category directory missing", "category", category, "error", err)
		return nil, err
	}

	scanner, err := fileops.NewTreeScanner(dir, fileops.ScanOptions{SkipUnreadableDirs: true})
	if err != nil {
		l.logger.Error("cannot open category directory", "category", category, "dir", dir, "error", err)
		return nil, &ReadFailureError{Path: dir, Err: err}
	}
	defer scanner.Close()

	entries, err := scanner.Scan()
	if err != nil {
		l.logger.Error("category walk failed", "category", category, "dir", dir, "error", err)
		return nil, &ReadFailureError{Path: dir, Err: err}
	}

	if entry, ok := matchExact(entries, name); ok {
		return l.readEntry(scanner, category, name, dir, dirName, entry)
	}
	if entry, ok := matchWithExtension(entries, name); ok {
		return l.readEntry(scanner, category, name, dir, dirName, entry)
	}
	if entry, ok := matchFuzzy(entries, name); ok {
		return l.readEntry(scanner, category, name, dir, dirName, entry)
	}

	l.logger.Debug("no match", "category", category, "name", name)
	return nil, &NotFoundError{Category: string(category), Name: name}
}

// matchExact finds the first file whose full name equals name verbatim.
func matchExact(entries []fileops.FileEntry, name string) (fileops.FileEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return fileops.FileEntry{}, false
}

// matchWithExtension finds the first file named name+ext, trying each
// recognized extension in priority order across the whole tree before
// moving to the next.
func matchWithExtension(entries []fileops.FileEntry, name string) (fileops.FileEntry, bool) {
	for _, ext := range RecognizedExtensions() {
		want := name + ext
		for _, e := range entries {
			if e.Name == want {
				return e, true
			}
		}
	}
	return fileops.FileEntry{}, false
}

// matchFuzzy finds the first file whose lowercased stem contains the
// lowercased name. The containment test is one-directional and unranked:
// first hit in extension priority order, then traversal order.
func matchFuzzy(entries []fileops.FileEntry, name string) (fileops.FileEntry, bool) {
	query := strings.ToLower(name)
	for _, ext := range RecognizedExtensions() {
		for _, e := range entries {
			if filepath.Ext(e.Name) != ext {
				continue
			}
			stem := strings.TrimSuffix(e.Name, ext)
			if strings.Contains(strings.ToLower(stem), query) {
				return e, true
			}
		}
	}
	return fileops.FileEntry{}, false
}

// readEntry loads a matched file through the scanner's confined root. A
// file that vanished or lost read permission between discovery and read
// surfaces here as a ReadFailureError, logged at error level so it is
// never mistaken for an ordinary miss.
func (l *Library) readEntry(scanner *fileops.TreeScanner, category Category, name, absDir, dirName string, entry fileops.FileEntry) (*Resolution, error) {
	absPath := filepath.Join(absDir, filepath.FromSlash(entry.Path))
	if err := fileops.ValidateFileSizeLimit(absPath, maxFileSize); err != nil {
		l.logger.Error("content file rejected", "path", absPath, "error", err)
		return nil, &ReadFailureError{Path: absPath, Err: err}
	}

	data, err := scanner.ReadEntry(entry.Path)
	if err != nil {
		l.logger.Error("content read failed", "path", absPath, "error", err)
		return nil, &ReadFailureError{Path: absPath, Err: err}
	}

	relPath := path.Join(dirName, entry.Path)
	l.logger.Debug("resolved example", "category", category, "name", name, "path", relPath)

	return &Resolution{
		Category:     category,
		Name:         name,
		Content:      string(data),
		RelativePath: relPath,
	}, nil
}
