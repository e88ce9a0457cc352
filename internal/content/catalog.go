package content

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"stylebook/pkg/fileops"
)

// CatalogEntry lists the item names of one category.
type CatalogEntry struct {
	Category Category
	Items    []string
}

// Catalog is the full listing of item names grouped by category. Entries
// keep the fixed category declaration order, which a plain map would lose
// on marshalling, so the type carries its own JSON encoding.
type Catalog struct {
	Entries []CatalogEntry
}

// MarshalJSON encodes the catalog as one object whose keys appear in
// category declaration order. Empty categories encode as [] rather than
// null.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(entry.Category))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		items := entry.Items
		if items == nil {
			items = []string{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Items returns the item names for one category, nil when the category is
// not part of this catalog.
func (c Catalog) Items(category Category) []string {
	for _, entry := range c.Entries {
		if entry.Category == category {
			return entry.Items
		}
	}
	return nil
}

// TotalItems counts items across all categories.
func (c Catalog) TotalItems() int {
	total := 0
	for _, entry := range c.Entries {
		total += len(entry.Items)
	}
	return total
}

// FormatText renders the catalog as an indented plain-text listing, one
// category block per entry.
func (c Catalog) FormatText() string {
	var b strings.Builder
	for i, entry := range c.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(entry.Category))
		b.WriteString(":\n")
		if len(entry.Items) == 0 {
			b.WriteString("  (none)\n")
			continue
		}
		for _, item := range entry.Items {
			b.WriteString("  - ")
			b.WriteString(item)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Catalog enumerates every category and returns the grouped item listing.
// Per-category failures degrade to an empty list with a logged diagnostic;
// one broken directory never hides the rest of the catalog. Two calls
// against an unchanged tree return identical results.
func (l *Library) Catalog() Catalog {
	defer l.logger.LogPerformance("catalog", time.Now())

	entries := make([]CatalogEntry, 0, len(Categories()))
	for _, category := range Categories() {
		entries = append(entries, CatalogEntry{
			Category: category,
			Items:    l.categoryItems(category),
		})
	}
	return Catalog{Entries: entries}
}

// CatalogFor builds a catalog restricted to one category.
func (l *Library) CatalogFor(category Category) Catalog {
	return Catalog{Entries: []CatalogEntry{{
		Category: category,
		Items:    l.categoryItems(category),
	}}}
}

// categoryItems lists a category's item names: every file with a
// recognized extension, extension priority order then traversal order,
// stem deduplicated so a name backed by both a .ts and a .tsx file (or
// repeated across subdirectories) appears once, attributed to its
// first occurrence. Failures return an empty list.
func (l *Library) categoryItems(category Category) []string {
	dir, _, err := l.categoryDir(category)
	if err != nil {
		l.logger.Debug("category skipped in catalog", "category", category, "error", err)
		return []string{}
	}

	recognized := RecognizedExtensions()
	scanner, err := fileops.NewTreeScanner(dir, fileops.ScanOptions{
		SkipUnreadableDirs: true,
		FileFilter: func(name string) bool {
			return slices.Contains(recognized, filepath.Ext(name))
		},
	})
	if err != nil {
		l.logger.Warn("cannot open category directory for catalog", "category", category, "dir", dir, "error", err)
		return []string{}
	}
	defer scanner.Close()

	entries, err := scanner.Scan()
	if err != nil {
		l.logger.Warn("catalog walk failed", "category", category, "dir", dir, "error", err)
		return []string{}
	}

	seen := make(map[string]bool)
	items := []string{}
	for _, ext := range recognized {
		for _, e := range entries {
			if filepath.Ext(e.Name) != ext {
				continue
			}
			stem := strings.TrimSuffix(e.Name, ext)
			if seen[stem] {
				continue
			}
			seen[stem] = true
			items = append(items, stem)
		}
	}
	return items
}
