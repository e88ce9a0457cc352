package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ValidatePathSecurity rejects paths that are empty or contain traversal
// sequences, and absolute paths that land in reserved system locations.
// The check is static: it never touches the filesystem, so it can run on
// paths that do not exist yet.
func ValidatePathSecurity(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(path, "..") || strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	if filepath.IsAbs(path) && IsReservedDirectory(cleanPath) {
		return fmt.Errorf("path points into a reserved directory")
	}

	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory. Paths
// without the prefix are returned unchanged, as is the input when the home
// directory cannot be determined.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ValidateStoragePath checks that path is usable as a content or data
// directory: non-empty, traversal-free, absolute or home-relative, not a
// reserved system location (directly or through a symlink), and with an
// existing parent directory.
func ValidateStoragePath(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return fmt.Errorf("storage directory cannot be empty")
	}

	if err := ValidatePathSecurity(trimmed); err != nil {
		return err
	}

	expanded := ExpandPath(trimmed)
	if !filepath.IsAbs(expanded) && !strings.HasPrefix(trimmed, "~/") {
		return fmt.Errorf("path must be absolute or relative to home directory (~)")
	}

	// A symlink must not smuggle the directory into a reserved location.
	if resolved, err := filepath.EvalSymlinks(expanded); err == nil {
		if IsReservedDirectory(resolved) {
			return fmt.Errorf("path resolves to reserved directory")
		}
	}
	if IsReservedDirectory(expanded) {
		return fmt.Errorf("cannot use system or reserved directories")
	}

	parentDir := filepath.Dir(expanded)
	if parentDir != "." {
		if _, err := os.Stat(parentDir); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("parent directory does not exist: %s", parentDir)
			}
			return fmt.Errorf("cannot access parent directory: %w", err)
		}
	}

	return nil
}

// ValidateDirectoryWritable verifies write permission on dirPath by
// creating and removing a probe file, creating the directory first if
// needed.
func ValidateDirectoryWritable(dirPath string) error {
	expanded := ExpandPath(strings.TrimSpace(dirPath))

	if err := EnsureDirectoryExists(expanded); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	probe := filepath.Join(expanded, ".fileops-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		return fmt.Errorf("no write permission in directory: %w", err)
	}
	os.Remove(probe)

	return nil
}

// ValidateFileInDirectory confirms that filePath names an existing regular
// file contained in baseDir. Symlinked files must also resolve to a target
// inside baseDir.
func ValidateFileInDirectory(filePath, baseDir string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("cannot resolve file path: %w", err)
	}
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("cannot resolve base directory: %w", err)
	}

	relPath, err := filepath.Rel(absBaseDir, absFilePath)
	if err != nil {
		return fmt.Errorf("cannot determine relative path: %w", err)
	}
	if strings.HasPrefix(relPath, "..") {
		return fmt.Errorf("file is not within base directory")
	}

	fileInfo, err := os.Lstat(absFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filepath.Base(filePath))
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file")
	}

	if fileInfo.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(absFilePath)
		if err != nil {
			return fmt.Errorf("cannot resolve symlink: %w", err)
		}
		relResolved, err := filepath.Rel(absBaseDir, resolved)
		if err != nil {
			return fmt.Errorf("cannot determine resolved relative path: %w", err)
		}
		if strings.HasPrefix(relResolved, "..") {
			return fmt.Errorf("symlink resolves outside base directory")
		}
	}

	return nil
}

// ValidateFileAccess checks that filePath names an existing, readable
// regular file, and a writable one when requireWrite is set.
func ValidateFileAccess(filePath string, requireWrite bool) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filePath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("file is not readable: %w", err)
	}
	f.Close()

	if requireWrite {
		f, err := os.OpenFile(filePath, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("file is not writable: %w", err)
		}
		f.Close()
	}

	return nil
}

// ValidateFileSizeLimit rejects files larger than maxSize bytes. Guards
// against loading an unexpectedly huge file into memory.
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	if maxSize <= 0 {
		return fmt.Errorf("invalid size limit: %d", maxSize)
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filepath.Base(filePath))
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if fileInfo.Size() > maxSize {
		return fmt.Errorf("file size %d bytes exceeds limit %d bytes", fileInfo.Size(), maxSize)
	}

	return nil
}

// SanitizeFilename reduces filename to a safe base name: path components
// and traversal sequences are stripped, and reserved names rejected.
func SanitizeFilename(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	clean := filepath.Base(filename)
	clean = strings.ReplaceAll(clean, "..", "")
	clean = strings.TrimSpace(clean)

	if clean == "" || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid filename after sanitization: %q", filename)
	}
	if strings.ContainsAny(clean, `/`) {
		return "", fmt.Errorf("filename contains path separators: %q", clean)
	}

	return clean, nil
}

// SanitizeIdentifier makes a string safe for use as a tool or resource
// identifier. Only alphanumerics, underscores, and periods survive; runs of
// spaces, hyphens, and underscores collapse into a single underscore; the
// result is length-limited when maxLength is positive and trimmed of
// leading and trailing separators.
func SanitizeIdentifier(identifier string, maxLength int) (string, error) {
	if strings.TrimSpace(identifier) == "" {
		return "", fmt.Errorf("identifier cannot be empty")
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range identifier {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}

	result := strings.Trim(b.String(), "_-.")
	if maxLength > 0 && len(result) > maxLength {
		result = strings.Trim(result[:maxLength], "_-.")
	}
	if result == "" {
		return "", fmt.Errorf("identifier becomes empty after sanitization")
	}

	return result, nil
}

// IsReservedDirectory reports whether path is a system or otherwise
// reserved location that must never hold application data. Symlinks are
// resolved before comparison so an aliased system directory is still
// caught.
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	absPath = filepath.Clean(absPath)

	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = filepath.Clean(resolved)
	}

	if absPath == "/" || absPath == "\\" || absPath == "C:\\" {
		return true
	}

	for _, reserved := range reservedDirectories() {
		reservedAbs, err := filepath.Abs(reserved)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(reservedAbs); err == nil {
			reservedAbs = filepath.Clean(resolved)
		} else {
			reservedAbs = filepath.Clean(reservedAbs)
		}

		if strings.EqualFold(absPath, reservedAbs) {
			return true
		}

		reservedPrefix := strings.ToLower(reserved) + string(os.PathSeparator)
		if strings.HasPrefix(strings.ToLower(absPath), reservedPrefix) {
			if isUserTempDirectory(absPath) {
				continue
			}
			return true
		}
	}

	return false
}

// reservedDirectories lists the per-platform locations IsReservedDirectory
// refuses, plus a few sensitive directories under the user's home.
func reservedDirectories() []string {
	var dirs []string

	switch runtime.GOOS {
	case "windows":
		dirs = []string{
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
			"C:\\System32",
			"C:\\ProgramData\\Microsoft",
		}
	case "darwin":
		dirs = []string{
			"/System",
			"/usr/bin",
			"/usr/sbin",
			"/bin",
			"/sbin",
			"/etc",
			"/var/log",
			"/var/db",
			"/var/root",
			"/Library/System",
			"/Applications",
			"/private/etc",
		}
	default:
		dirs = []string{
			"/bin",
			"/sbin",
			"/usr/bin",
			"/usr/sbin",
			"/etc",
			"/boot",
			"/dev",
			"/proc",
			"/sys",
			"/var/log",
			"/var/lib",
			"/var/cache",
			"/root",
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
		)
	}

	return dirs
}

// isUserTempDirectory recognizes legitimate per-user temp locations that
// would otherwise fall under a reserved prefix (macOS keeps them under
// /var/folders).
func isUserTempDirectory(path string) bool {
	switch runtime.GOOS {
	case "darwin":
		if strings.Contains(path, "/var/folders/") {
			return true
		}
	case "linux":
		if path == "/tmp" || strings.HasPrefix(path, "/tmp/") {
			return true
		}
	case "windows":
		lower := strings.ToLower(path)
		if strings.Contains(lower, "\\temp\\") || strings.Contains(lower, "\\tmp\\") {
			return true
		}
	}

	systemTemp := filepath.Clean(os.TempDir())
	return strings.HasPrefix(filepath.Clean(path), systemTemp)
}
