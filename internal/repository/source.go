package repository

import (
	"fmt"
	"strings"

	"stylebook/internal/logging"
)

// Source abstracts where the content tree comes from. Implementations
// resolve their configuration to an absolute local filesystem path that
// the content library can open, performing whatever validation or
// network work that requires.
type Source interface {
	// Prepare validates and prepares the source, returning the absolute
	// path to the local content root. The logger may be nil.
	Prepare(logger *logging.AppLogger) (localPath string, err error)
}

// SourceFor selects the source implementation for a configuration. A
// blank remote URL means contentDir is used directly; otherwise
// contentDir is the clone path for the remote.
func SourceFor(contentDir, remoteURL, branch string) Source {
	if strings.TrimSpace(remoteURL) == "" {
		return NewLocalSource(contentDir)
	}
	return NewGitSource(remoteURL, branch, contentDir)
}

// PrepareContent resolves the configured content source to a ready local
// path. This is the one-call form used by commands:
//
//	localPath, err := repository.PrepareContent(cfg.ContentDir,
//	    cfg.ContentRepo.RemoteURL, cfg.ContentRepo.Branch, logger)
func PrepareContent(contentDir, remoteURL, branch string, logger *logging.AppLogger) (string, error) {
	localPath, err := SourceFor(contentDir, remoteURL, branch).Prepare(logger)
	if err != nil {
		return "", fmt.Errorf("content source preparation failed: %w", err)
	}
	return localPath, nil
}
