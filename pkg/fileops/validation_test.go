package fileops

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidatePathSecurity(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		expectError bool
		errorText   string
	}{
		{
			name:        "valid relative path",
			path:        "docs/guide.md",
			expectError: false,
		},
		{
			name:        "valid absolute temp path",
			path:        filepath.Join(os.TempDir(), "app-data"),
			expectError: false,
		},
		{
			name:        "empty path",
			path:        "",
			expectError: true,
			errorText:   "cannot be empty",
		},
		{
			name:        "whitespace only",
			path:        "   ",
			expectError: true,
			errorText:   "cannot be empty",
		},
		{
			name:        "simple traversal",
			path:        "../secrets",
			expectError: true,
			errorText:   "traversal",
		},
		{
			name:        "embedded traversal",
			path:        "docs/../../etc/passwd",
			expectError: true,
			errorText:   "traversal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathSecurity(tt.path)
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
			}
		})
	}
}

func TestValidatePathSecurity_ReservedAbsolutePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix reserved paths")
	}
	if err := ValidatePathSecurity("/etc/passwd"); err == nil {
		t.Errorf("expected error for reserved absolute path")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot determine home directory: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "home shortcut",
			path: "~/documents",
			want: filepath.Join(home, "documents"),
		},
		{
			name: "absolute path unchanged",
			path: "/var/tmp/data",
			want: "/var/tmp/data",
		},
		{
			name: "relative path unchanged",
			path: "relative/path",
			want: "relative/path",
		},
		{
			name: "bare tilde unchanged",
			path: "~",
			want: "~",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateStoragePath(t *testing.T) {
	tempDir := createTempDir(t, "fileops_validation_test_")

	tests := []struct {
		name        string
		path        string
		expectError bool
		errorText   string
	}{
		{
			name:        "valid path under temp",
			path:        filepath.Join(tempDir, "content"),
			expectError: false,
		},
		{
			name:        "empty",
			path:        "",
			expectError: true,
			errorText:   "cannot be empty",
		},
		{
			name:        "traversal",
			path:        "~/../../etc",
			expectError: true,
			errorText:   "traversal",
		},
		{
			name:        "bare relative path",
			path:        "just-relative",
			expectError: true,
			errorText:   "absolute or relative to home",
		},
		{
			name:        "missing parent",
			path:        filepath.Join(tempDir, "no", "such", "parent"),
			expectError: true,
			errorText:   "parent directory does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoragePath(tt.path)
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
			}
		})
	}
}

func TestValidateStoragePath_ReservedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix reserved paths")
	}
	if err := ValidateStoragePath("/etc/stylebook"); err == nil {
		t.Errorf("expected error for reserved directory")
	}
}

func TestValidateStoragePath_HomeRelative(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot determine home directory: %v", err)
	}
	if IsReservedDirectory(home) {
		// Running as root puts home inside a reserved prefix.
		t.Skipf("home directory %s is reserved", home)
	}

	if err := ValidateStoragePath("~/stylebook-content"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateDirectoryWritable(t *testing.T) {
	tempDir := createTempDir(t, "fileops_validation_test_")

	target := filepath.Join(tempDir, "writable")
	if err := ValidateDirectoryWritable(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fileExists(target) {
		t.Errorf("directory was not created")
	}
	if fileExists(filepath.Join(target, ".fileops-probe")) {
		t.Errorf("probe file was not cleaned up")
	}
}

func TestValidateFileInDirectory(t *testing.T) {
	tempDir := createTempDir(t, "fileops_validation_test_")
	insideFile := filepath.Join(tempDir, "inside.txt")
	createTestFile(t, insideFile, "content")

	subDir := filepath.Join(tempDir, "sub")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	outsideDir := createTempDir(t, "fileops_validation_outside_")
	outsideFile := filepath.Join(outsideDir, "outside.txt")
	createTestFile(t, outsideFile, "content")

	tests := []struct {
		name        string
		filePath    string
		baseDir     string
		expectError bool
		errorText   string
	}{
		{
			name:        "file inside directory",
			filePath:    insideFile,
			baseDir:     tempDir,
			expectError: false,
		},
		{
			name:        "file outside directory",
			filePath:    outsideFile,
			baseDir:     tempDir,
			expectError: true,
			errorText:   "not within base directory",
		},
		{
			name:        "missing file",
			filePath:    filepath.Join(tempDir, "missing.txt"),
			baseDir:     tempDir,
			expectError: true,
			errorText:   "does not exist",
		},
		{
			name:        "directory not file",
			filePath:    subDir,
			baseDir:     tempDir,
			expectError: true,
			errorText:   "directory, not a file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileInDirectory(tt.filePath, tt.baseDir)
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
			}
		})
	}
}

func TestValidateFileAccess(t *testing.T) {
	tempDir := createTempDir(t, "fileops_validation_test_")
	readable := filepath.Join(tempDir, "readable.txt")
	createTestFile(t, readable, "content")

	tests := []struct {
		name         string
		filePath     string
		requireWrite bool
		expectError  bool
	}{
		{
			name:        "readable file",
			filePath:    readable,
			expectError: false,
		},
		{
			name:         "writable file",
			filePath:     readable,
			requireWrite: true,
			expectError:  false,
		},
		{
			name:        "missing file",
			filePath:    filepath.Join(tempDir, "missing.txt"),
			expectError: true,
		},
		{
			name:        "directory instead of file",
			filePath:    tempDir,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileAccess(tt.filePath, tt.requireWrite)
			if tt.expectError && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateFileSizeLimit(t *testing.T) {
	tempDir := createTempDir(t, "fileops_validation_test_")
	smallFile := filepath.Join(tempDir, "small.txt")
	createTestFile(t, smallFile, "tiny")

	tests := []struct {
		name        string
		filePath    string
		maxSize     int64
		expectError bool
		errorText   string
	}{
		{
			name:        "within limit",
			filePath:    smallFile,
			maxSize:     1024,
			expectError: false,
		},
		{
			name:        "exactly at limit",
			filePath:    smallFile,
			maxSize:     4,
			expectError: false,
		},
		{
			name:        "exceeds limit",
			filePath:    smallFile,
			maxSize:     3,
			expectError: true,
			errorText:   "exceeds limit",
		},
		{
			name:        "invalid limit",
			filePath:    smallFile,
			maxSize:     0,
			expectError: true,
			errorText:   "invalid size limit",
		},
		{
			name:        "missing file",
			filePath:    filepath.Join(tempDir, "missing.txt"),
			maxSize:     1024,
			expectError: true,
			errorText:   "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileSizeLimit(tt.filePath, tt.maxSize)
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
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		want        string
		expectError bool
	}{
		{
			name:     "plain filename",
			filename: "guide.md",
			want:     "guide.md",
		},
		{
			name:     "path components stripped",
			filename: "/some/path/guide.md",
			want:     "guide.md",
		},
		{
			name:     "traversal stripped",
			filename: "../../../etc/passwd",
			want:     "passwd",
		},
		{
			name:        "empty",
			filename:    "",
			expectError: true,
		},
		{
			name:        "only traversal",
			filename:    "..",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.filename)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		identifier  string
		maxLength   int
		want        string
		expectError bool
	}{
		{
			name:       "already clean",
			identifier: "component_design",
			want:       "component_design",
		},
		{
			name:       "hyphens become underscores",
			identifier: "component-design",
			want:       "component_design",
		},
		{
			name:       "spaces become underscores",
			identifier: "My Tool Name",
			want:       "My_Tool_Name",
		},
		{
			name:       "separator runs collapse",
			identifier: "a - _ b",
			want:       "a_b",
		},
		{
			name:       "special characters dropped",
			identifier: "tool@name#123",
			want:       "toolname123",
		},
		{
			name:       "leading and trailing separators trimmed",
			identifier: "--api-communication--",
			want:       "api_communication",
		},
		{
			name:       "periods preserved",
			identifier: "v1.2-notes",
			want:       "v1.2_notes",
		},
		{
			name:       "length limit enforced",
			identifier: "abcdefghij",
			maxLength:  4,
			want:       "abcd",
		},
		{
			name:        "empty",
			identifier:  "",
			expectError: true,
		},
		{
			name:        "only special characters",
			identifier:  "@#$%",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeIdentifier(tt.identifier, tt.maxLength)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsReservedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix reserved paths")
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "etc is reserved",
			path: "/etc",
			want: true,
		},
		{
			name: "path under etc is reserved",
			path: "/etc/stylebook",
			want: true,
		},
		{
			name: "root is reserved",
			path: "/",
			want: true,
		},
		{
			name: "temp directory is allowed",
			path: os.TempDir(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReservedDirectory(tt.path); got != tt.want {
				t.Errorf("IsReservedDirectory(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
