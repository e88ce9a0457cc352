// Package repository resolves the configured content source to a local
// filesystem path that the content library can serve from.
//
// The content tree (coding standards plus code examples) is externally
// managed: it either already lives in a local directory, or it lives in a
// Git repository that this package clones and keeps fresh. Both cases are
// abstracted behind the Source interface:
//
//   - LocalSource validates an existing local directory (see local.go)
//   - GitSource clones or syncs a remote Git repository (see git.go)
//
// Most callers go through the one-call form:
//
//	localPath, err := repository.PrepareContent(cfg.ContentDir,
//	    cfg.ContentRepo.RemoteURL, cfg.ContentRepo.Branch, logger)
//	if err != nil { /* handle, possibly degrade */ }
//	lib, err := content.NewLibrary(content.Options{ContentDir: localPath, ...})
//
// # Git behavior
//
// GitSource favors the local cache over merge complexity:
//
//   - first use clones the repository (single-branch when one is pinned)
//   - later runs fetch updates, skipping entirely when the worktree has
//     uncommitted changes so local edits are never lost
//   - a target directory holding a different repository or non-git
//     content is an explicit error to be resolved manually, never an
//     automatic overwrite
//
// Authentication is public-first: operations run anonymously and retry
// with a stored GitHub personal access token only when the remote rejects
// anonymous access. Tokens live in the OS credential store (Keychain,
// Credential Manager, Secret Service) under service "stylebook", managed
// by CredentialManager and the `stylebook auth` commands.
//
// # Paths
//
// Clone paths derived from a remote URL use the flat layout
// <xdg data dir>/stylebook/<repo>, keeping cloned content visible and
// manageable outside the tool. Every path handed back by Prepare is
// absolute and has passed the pkg/fileops security validators (no
// traversal, no reserved system directories).
package repository
