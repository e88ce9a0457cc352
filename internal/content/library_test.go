package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stylebook/internal/logging"
)

// newTestLibrary returns a Library over a fresh temp content root. Tests
// populate the tree with writeContentFile after construction; lookups
// re-walk the filesystem, so files written later are still seen.
func newTestLibrary(t *testing.T) (*Library, string) {
	t.Helper()

	contentDir, err := os.MkdirTemp("", "content_test_")
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(contentDir)
	})

	logger, _ := logging.NewTestLogger()
	lib, err := NewLibrary(Options{ContentDir: contentDir, Logger: logger})
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}
	return lib, contentDir
}

// writeContentFile writes one file below the content root; rel is
// slash-separated, e.g. "code-examples/react-native/components/Button.tsx".
func writeContentFile(t *testing.T, contentDir, rel, body string) {
	t.Helper()
	full := filepath.Join(contentDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func examplePath(category, rel string) string {
	return "code-examples/" + DefaultPlatform + "/" + category + "/" + rel
}

func TestNewLibrary(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		expectError bool
		errorText   string
	}{
		{
			name:        "valid options",
			opts:        Options{ContentDir: os.TempDir()},
			expectError: false,
		},
		{
			name:        "missing content dir",
			opts:        Options{},
			expectError: true,
			errorText:   "content directory is required",
		},
		{
			name:        "traversal in content dir",
			opts:        Options{ContentDir: "../../somewhere"},
			expectError: true,
			errorText:   "traversal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := NewLibrary(tt.opts)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got nil")
					return
				}
				if tt.errorText != "" && !strings.Contains(err.Error(), tt.errorText) {
					t.Errorf("expected error containing %q, got %q", tt.errorText, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if lib.Platform() != DefaultPlatform {
				t.Errorf("expected default platform %q, got %q", DefaultPlatform, lib.Platform())
			}
		})
	}
}

func TestLibrary_Paths(t *testing.T) {
	lib, contentDir := newTestLibrary(t)

	if got := lib.ContentDir(); got != contentDir {
		t.Errorf("expected content dir %q, got %q", contentDir, got)
	}
	if got := lib.StandardsDir(); got != filepath.Join(contentDir, "standards") {
		t.Errorf("unexpected standards dir: %q", got)
	}
	want := filepath.Join(contentDir, "code-examples", DefaultPlatform)
	if got := lib.ExamplesDir(); got != want {
		t.Errorf("expected examples dir %q, got %q", want, got)
	}
}

func TestLibrary_CustomPlatform(t *testing.T) {
	contentDir := t.TempDir()
	logger, _ := logging.NewTestLogger()
	lib, err := NewLibrary(Options{ContentDir: contentDir, Platform: "flutter", Logger: logger})
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	want := filepath.Join(contentDir, "code-examples", "flutter")
	if got := lib.ExamplesDir(); got != want {
		t.Errorf("expected examples dir %q, got %q", want, got)
	}
}

func TestValidateLayout_CompleteTree(t *testing.T) {
	lib, dir := newTestLibrary(t)
	writeContentFile(t, dir, "standards/component-design.md", "# Component Design")
	writeContentFile(t, dir, examplePath("components", "Button.tsx"), "button")
	writeContentFile(t, dir, examplePath("hooks", "useAuth.ts"), "auth")
	writeContentFile(t, dir, examplePath("services", "api.ts"), "api")
	writeContentFile(t, dir, examplePath("screens", "Home.tsx"), "home")
	writeContentFile(t, dir, examplePath("themes", "colors.ts"), "colors")

	if issues := lib.ValidateLayout(); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestValidateLayout_MissingContentDir(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	lib, err := NewLibrary(Options{
		ContentDir: filepath.Join(os.TempDir(), "content_test_does_not_exist"),
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	issues := lib.ValidateLayout()
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %v", issues)
	}
	if !strings.Contains(issues[0].Detail, "content directory does not exist") {
		t.Errorf("unexpected issue: %v", issues[0])
	}
}

func TestValidateLayout_PartialTree(t *testing.T) {
	lib, dir := newTestLibrary(t)
	writeContentFile(t, dir, examplePath("components", "Button.tsx"), "button")

	issues := lib.ValidateLayout()

	var details []string
	for _, issue := range issues {
		details = append(details, issue.Detail)
	}
	joined := strings.Join(details, "; ")

	if !strings.Contains(joined, "standards directory does not exist") {
		t.Errorf("expected standards issue, got: %s", joined)
	}
	for _, category := range []string{"hooks", "services", "screens", "themes"} {
		if !strings.Contains(joined, `category "`+category+`"`) {
			t.Errorf("expected issue for category %s, got: %s", category, joined)
		}
	}
	if strings.Contains(joined, `category "components"`) {
		t.Errorf("did not expect issue for components, got: %s", joined)
	}
}

func TestValidateLayout_AliasDirectorySatisfiesCategory(t *testing.T) {
	lib, dir := newTestLibrary(t)
	writeContentFile(t, dir, "standards/guide.md", "# Guide")
	writeContentFile(t, dir, examplePath("components", "Button.tsx"), "button")
	writeContentFile(t, dir, examplePath("hooks", "useAuth.ts"), "auth")
	writeContentFile(t, dir, examplePath("helper", "api.ts"), "api")
	writeContentFile(t, dir, examplePath("screens", "Home.tsx"), "home")
	writeContentFile(t, dir, examplePath("theme", "colors.ts"), "colors")

	if issues := lib.ValidateLayout(); len(issues) != 0 {
		t.Errorf("expected alias directories to satisfy categories, got %v", issues)
	}
}
