package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stylebook/internal/content"
	"stylebook/internal/logging"
)

func materialize(t *testing.T, dir string) *Result {
	t.Helper()

	logger, _ := logging.NewTestLogger()
	res, err := Materialize(dir, logger)
	if err != nil {
		t.Fatalf("Materialize(%q) failed: %v", dir, err)
	}
	return res
}

func TestMaterialize_CreatesStarterTree(t *testing.T) {
	dir := t.TempDir()

	res := materialize(t, dir)

	if len(res.Skipped) != 0 {
		t.Errorf("expected no skipped files in an empty directory, got %v", res.Skipped)
	}
	want := []string{
		"standards/project-structure.md",
		"standards/api-communication.md",
		"standards/component-design.md",
		"standards/state-management.md",
		"code-examples/react-native/components/Button.tsx",
		"code-examples/react-native/hooks/useDebounce.ts",
		"code-examples/react-native/services/apiClient.ts",
		"code-examples/react-native/screens/HomeScreen.tsx",
		"code-examples/react-native/themes/colors.ts",
	}
	if len(res.Written) != len(want) {
		t.Errorf("expected %d written files, got %d: %v", len(want), len(res.Written), res.Written)
	}
	for _, rel := range want {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected %s to have content", rel)
		}
	}
}

func TestMaterialize_StarterTreeServesWorkingLibrary(t *testing.T) {
	dir := t.TempDir()
	materialize(t, dir)

	logger, _ := logging.NewTestLogger()
	lib, err := content.NewLibrary(content.Options{ContentDir: dir, Logger: logger})
	if err != nil {
		t.Fatalf("NewLibrary failed: %v", err)
	}

	if issues := lib.ValidateLayout(); len(issues) != 0 {
		t.Errorf("expected a clean layout, got issues: %v", issues)
	}

	res, err := lib.Resolve(content.CategoryComponents, "Button")
	if err != nil {
		t.Fatalf("Resolve(Button) failed: %v", err)
	}
	if res.RelativePath != "components/Button.tsx" {
		t.Errorf("expected components/Button.tsx, got %s", res.RelativePath)
	}
	if !strings.Contains(res.Content, "export function Button") {
		t.Errorf("Button example does not look like a component:\n%s", res.Content)
	}

	catalog := lib.Catalog()
	wantItems := map[content.Category]string{
		content.CategoryComponents: "Button",
		content.CategoryHooks:      "useDebounce",
		content.CategoryServices:   "apiClient",
		content.CategoryScreens:    "HomeScreen",
		content.CategoryThemes:     "colors",
	}
	for category, item := range wantItems {
		items := catalog.Items(category)
		if len(items) != 1 || items[0] != item {
			t.Errorf("category %s: expected [%s], got %v", category, item, items)
		}
	}

	standards, err := lib.Standards()
	if err != nil {
		t.Fatalf("Standards failed: %v", err)
	}
	byID := make(map[string]content.Standard, len(standards))
	for _, std := range standards {
		byID[std.ID] = std
	}
	for id, desc := range map[string]string{
		"project_structure": "Get project structure standards for React Native development",
		"api_communication": "Get API communication standards for React Native development",
		"component_design":  "Get component design standards for React Native development",
		"state_management":  "Get state management standards for React Native development",
	} {
		std, ok := byID[id]
		if !ok {
			t.Errorf("expected standard %s to be discovered", id)
			continue
		}
		if std.Description != desc {
			t.Errorf("standard %s: expected description %q, got %q", id, desc, std.Description)
		}
	}
}

func TestMaterialize_NeverOverwritesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	materialize(t, dir)

	edited := filepath.Join(dir, "code-examples", "react-native", "components", "Button.tsx")
	custom := "// custom local Button variant\n"
	if err := os.WriteFile(edited, []byte(custom), 0644); err != nil {
		t.Fatalf("editing Button.tsx failed: %v", err)
	}

	res := materialize(t, dir)

	if len(res.Written) != 0 {
		t.Errorf("expected nothing written on a second run, got %v", res.Written)
	}
	if len(res.Skipped) != 9 {
		t.Errorf("expected 9 skipped files, got %d: %v", len(res.Skipped), res.Skipped)
	}

	data, err := os.ReadFile(edited)
	if err != nil {
		t.Fatalf("reading Button.tsx failed: %v", err)
	}
	if string(data) != custom {
		t.Errorf("local edit was overwritten:\n%s", data)
	}
}

func TestMaterialize_RestoresDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	materialize(t, dir)

	removed := filepath.Join(dir, "code-examples", "react-native", "hooks", "useDebounce.ts")
	if err := os.Remove(removed); err != nil {
		t.Fatalf("removing useDebounce.ts failed: %v", err)
	}

	res := materialize(t, dir)

	found := false
	for _, rel := range res.Written {
		if rel == "code-examples/react-native/hooks/useDebounce.ts" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the deleted file to be rewritten, written: %v", res.Written)
	}
	if _, err := os.Stat(removed); err != nil {
		t.Errorf("expected useDebounce.ts to be restored: %v", err)
	}
}

func TestMaterialize_CreatesNestedTargetDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deeply", "nested", "content")

	res := materialize(t, dir)

	if len(res.Written) == 0 {
		t.Error("expected files to be written into the new directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "standards")); err != nil {
		t.Errorf("expected standards directory to exist: %v", err)
	}
}

func TestMaterialize_InputErrors(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	tests := []struct {
		name    string
		target  string
		wantErr string
	}{
		{"empty target", "", "cannot be empty"},
		{"whitespace target", "   ", "cannot be empty"},
		// filepath.Join would clean the dots away, so build the path by hand.
		{"traversal target", t.TempDir() + "/../escape", "invalid target directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Materialize(tt.target, logger)
			if err == nil {
				t.Fatalf("expected an error for %q", tt.target)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err)
			}
		})
	}
}
