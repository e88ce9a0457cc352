package content

import (
	"fmt"
	"strings"
)

// Category names one logical bucket of code examples. Each category is
// backed by exactly one directory subtree under the examples root; the
// mapping is fixed at startup and never changes while the process runs.
type Category string

const (
	CategoryComponents Category = "components"
	CategoryHooks      Category = "hooks"
	CategoryServices   Category = "services"
	CategoryScreens    Category = "screens"
	CategoryThemes     Category = "themes"
)

// Categories returns every recognized category in declaration order. The
// catalog presents categories in exactly this order.
func Categories() []Category {
	return []Category{
		CategoryComponents,
		CategoryHooks,
		CategoryServices,
		CategoryScreens,
		CategoryThemes,
	}
}

// categoryDirs maps each category to its candidate directory names under
// the examples root, in preference order. The canonical name comes first;
// the alternates absorb trees produced by older content layouts that used
// "helper" for services and singular "theme". The first candidate that
// exists on disk wins.
var categoryDirs = map[Category][]string{
	CategoryComponents: {"components"},
	CategoryHooks:      {"hooks"},
	CategoryServices:   {"services", "helper"},
	CategoryScreens:    {"screens"},
	CategoryThemes:     {"themes", "theme"},
}

// DirCandidates returns the directory names that may back c, in
// preference order.
func (c Category) DirCandidates() []string {
	return categoryDirs[c]
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the recognized categories.
func (c Category) Valid() bool {
	_, ok := categoryDirs[c]
	return ok
}

// ParseCategory maps a caller-supplied string onto a recognized category.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (expected one of: %s)", s, categoryList())
	}
	return c, nil
}

func categoryList() string {
	names := make([]string, 0, len(categoryDirs))
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// RecognizedExtensions returns the example file extensions in match
// priority order. During extension-qualified and fuzzy lookup the first
// extension producing a hit wins, so the order is observable behavior.
func RecognizedExtensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx"}
}
