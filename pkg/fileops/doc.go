// Package fileops provides the filesystem primitives the rest of the
// application builds on: confined tree scanning, path and file validation,
// symlink checks, and atomic writes.
//
// Scanning goes through TreeScanner, which opens its directory with
// os.OpenRoot so no traversal or symlink trick can read outside the tree,
// and walks it with fs.WalkDir so results come back in lexical order.
// Validation helpers split into static checks that never touch the
// filesystem (ValidatePathSecurity, SanitizeIdentifier) and checks that do
// (ValidateFileAccess, ValidateFileInDirectory, ValidateSymlinkSecurity).
//
// Functions here return plain errors; callers wrap them with domain
// context.
package fileops
