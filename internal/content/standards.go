package content

import (
	"bytes"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"

	"stylebook/pkg/fileops"
)

const standardExtension = ".md"

// Standard is the metadata of one standards document. The identifier is
// derived from the filename stem, normalized so it can double as a tool
// and resource name; Title and Description come from optional YAML
// frontmatter, with fallbacks derived from the stem.
type Standard struct {
	ID           string
	Title        string
	Description  string
	FileName     string
	RelativePath string
}

// StandardResolution is a successfully fetched standards document: its
// metadata plus the document text, frontmatter stripped.
type StandardResolution struct {
	Standard
	Content string
}

type standardMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Standards enumerates the standards documents in lexical order. A
// document whose metadata cannot be read is skipped with a logged
// diagnostic rather than failing the listing. A missing standards
// directory is a DirectoryMissingError.
func (l *Library) Standards() ([]Standard, error) {
	defer l.logger.LogPerformance("list standards", time.Now())

	scanner, err := l.standardsScanner()
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	entries, err := scanner.Scan()
	if err != nil {
		return nil, &ReadFailureError{Path: l.StandardsDir(), Err: err}
	}

	seen := make(map[string]bool)
	standards := make([]Standard, 0, len(entries))
	for _, entry := range entries {
		std, err := l.loadStandardMeta(scanner, entry)
		if err != nil {
			l.logger.Warn("skipping unreadable standard", "file", entry.Path, "error", err)
			continue
		}

		// Two files can normalize to the same identifier; suffix the
		// later one so every document stays addressable.
		id := std.ID
		for n := 2; seen[id]; n++ {
			id = std.ID + "_" + strconv.Itoa(n)
		}
		seen[id] = true
		std.ID = id

		standards = append(standards, std)
	}

	return standards, nil
}

// ResolveStandard fetches one document by identifier, matched
// case-insensitively. Missing identifiers are NotFoundError; located but
// unreadable documents are ReadFailureError, logged at error level.
func (l *Library) ResolveStandard(id string) (*StandardResolution, error) {
	standards, err := l.Standards()
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(id))
	for _, std := range standards {
		if std.ID != want {
			continue
		}

		scanner, err := l.standardsScanner()
		if err != nil {
			return nil, err
		}
		defer scanner.Close()

		relInside := strings.TrimPrefix(std.RelativePath, standardsDirName+"/")
		absPath := filepath.Join(l.StandardsDir(), filepath.FromSlash(relInside))

		data, err := scanner.ReadEntry(relInside)
		if err != nil {
			l.logger.Error("standard read failed", "path", absPath, "error", err)
			return nil, &ReadFailureError{Path: absPath, Err: err}
		}

		body := stripFrontmatter(data)
		l.logger.Debug("resolved standard", "id", std.ID, "path", std.RelativePath)
		return &StandardResolution{Standard: std, Content: string(body)}, nil
	}

	l.logger.Debug("no such standard", "id", id)
	return nil, &NotFoundError{Category: standardsDirName, Name: id}
}

// standardsScanner opens a confined scanner over the standards directory,
// restricted to markdown files.
func (l *Library) standardsScanner() (*fileops.TreeScanner, error) {
	dir := l.StandardsDir()
	scanner, err := fileops.NewTreeScanner(dir, fileops.ScanOptions{
		SkipUnreadableDirs: true,
		FileFilter: func(name string) bool {
			return filepath.Ext(name) == standardExtension
		},
	})
	if err != nil {
		return nil, &DirectoryMissingError{Category: standardsDirName, Dir: dir}
	}
	return scanner, nil
}

// loadStandardMeta reads one document's frontmatter and builds its
// metadata, deriving title and description when the frontmatter leaves
// them out.
func (l *Library) loadStandardMeta(scanner *fileops.TreeScanner, entry fileops.FileEntry) (Standard, error) {
	stem := strings.TrimSuffix(entry.Name, standardExtension)
	id, err := fileops.SanitizeIdentifier(stem, 64)
	if err != nil {
		return Standard{}, err
	}
	id = strings.ToLower(id)

	data, err := scanner.ReadEntry(entry.Path)
	if err != nil {
		return Standard{}, err
	}

	var meta standardMeta
	if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
		// Malformed frontmatter downgrades to derived metadata; the
		// document itself still serves.
		l.logger.Debug("unparseable frontmatter", "file", entry.Path, "error", err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleFromStem(stem)
	}
	description := strings.TrimSpace(meta.Description)
	if description == "" {
		description = title + " coding standard"
	}

	return Standard{
		ID:           id,
		Title:        title,
		Description:  description,
		FileName:     entry.Name,
		RelativePath: path.Join(standardsDirName, entry.Path),
	}, nil
}

// stripFrontmatter returns the document body without its YAML frontmatter
// block. Documents without frontmatter pass through untouched, as do
// documents whose frontmatter does not parse.
func stripFrontmatter(data []byte) []byte {
	var ignored struct{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &ignored)
	if err != nil {
		return data
	}
	return body
}

// titleFromStem turns a filename stem into a readable title:
// "component-design" becomes "Component Design".
func titleFromStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
