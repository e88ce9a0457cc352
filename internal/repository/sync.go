package repository

import (
	"fmt"
	"strings"
	"time"

	"stylebook/internal/logging"

	"github.com/go-git/go-git/v6"
)

// SyncStatus categorizes the outcome of a content sync operation.
type SyncStatus int

const (
	// SyncStatusSuccess means the content source was cloned or fetched.
	SyncStatusSuccess SyncStatus = iota

	// SyncStatusFailed means the sync hit an error (network,
	// authentication, directory conflict).
	SyncStatusFailed

	// SyncStatusSkipped means the sync was intentionally not performed
	// (no remote configured, uncommitted local changes).
	SyncStatusSkipped
)

func (s SyncStatus) String() string {
	switch s {
	case SyncStatusSuccess:
		return "Success"
	case SyncStatusFailed:
		return "Failed"
	case SyncStatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// SyncResult is the outcome of syncing the configured content source,
// consumed by the sync command for reporting.
type SyncResult struct {
	// Status is the overall outcome.
	Status SyncStatus

	// Cloned is true when this sync performed the initial clone rather
	// than a fetch.
	Cloned bool

	// Error holds the failure when Status is SyncStatusFailed.
	Error error

	// SkipReason explains a SyncStatusSkipped outcome.
	SkipReason string

	// Duration is the time the operation took.
	Duration time.Duration
}

// Message returns a line suitable for terminal output:
// "Cloned in 1.2s", "Synced in 300ms", "Sync failed: ...",
// "Skipped: uncommitted changes".
func (r SyncResult) Message() string {
	switch r.Status {
	case SyncStatusSuccess:
		if r.Cloned {
			return fmt.Sprintf("Cloned in %s", r.Duration.Round(100*time.Millisecond))
		}
		return fmt.Sprintf("Synced in %s", r.Duration.Round(100*time.Millisecond))
	case SyncStatusFailed:
		if r.Error != nil {
			return fmt.Sprintf("Sync failed: %v", r.Error)
		}
		return "Sync failed: unknown error"
	case SyncStatusSkipped:
		if r.SkipReason != "" {
			return fmt.Sprintf("Skipped: %s", r.SkipReason)
		}
		return "Skipped"
	default:
		return "Unknown status"
	}
}

// SyncContent synchronizes the configured content source: no remote
// means nothing to sync, a missing clone is created, an existing clean
// clone is fetched, and a dirty clone is left untouched so local edits
// survive. Failures are reported in the result, never panicked or
// half-applied.
func SyncContent(remoteURL, branch, localPath string, logger *logging.AppLogger) SyncResult {
	start := time.Now()
	result := SyncResult{}

	if strings.TrimSpace(remoteURL) == "" {
		result.Status = SyncStatusSkipped
		result.SkipReason = "no remote configured"
		result.Duration = time.Since(start)
		return result
	}

	gs := NewGitSource(remoteURL, branch, localPath)

	// No repository yet (missing dir, empty dir, or conflicting
	// content): Prepare clones or reports the conflict.
	if _, err := git.PlainOpen(localPath); err != nil {
		if _, perr := gs.Prepare(logger); perr != nil {
			result.Status = SyncStatusFailed
			result.Error = perr
		} else {
			result.Status = SyncStatusSuccess
			result.Cloned = true
		}
		result.Duration = time.Since(start)
		return result
	}

	dirty, err := WorktreeDirty(localPath)
	if err != nil {
		result.Status = SyncStatusFailed
		result.Error = fmt.Errorf("failed to check repository status: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	if dirty {
		result.Status = SyncStatusSkipped
		result.SkipReason = "uncommitted changes"
		result.Duration = time.Since(start)
		return result
	}

	if err := gs.FetchUpdates(logger); err != nil {
		result.Status = SyncStatusFailed
		result.Error = fmt.Errorf("fetch updates failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Status = SyncStatusSuccess
	result.Duration = time.Since(start)
	return result
}
