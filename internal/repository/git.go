package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stylebook/internal/logging"
	"stylebook/pkg/fileops"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
)

// GitSource is a remote Git repository cloned to a local path and used
// as the content root. It handles cloning, fetching, and authentication
// with GitHub personal access tokens.
//
// Sync behavior favors the local cache over merge complexity: clone on
// first use, fetch afterwards, and no operation that could discard
// uncommitted local edits. Directory conflicts (a different repository
// or non-git content at the clone path) are explicit errors, never
// automatic overwrites.
type GitSource struct {
	// RemoteURL accepts HTTPS and SSH forms; SSH is converted to HTTPS
	// for token authentication. An absolute filesystem path is accepted
	// verbatim for local mirrors.
	RemoteURL string

	// Branch pins a branch to track. Empty uses the remote's default.
	Branch string

	// Path is the local directory the repository is cloned into.
	Path string
}

func NewGitSource(remoteURL, branch, localPath string) GitSource {
	return GitSource{
		RemoteURL: remoteURL,
		Branch:    branch,
		Path:      localPath,
	}
}

// Prepare clones or refreshes the repository and returns the local path.
//
// The state of the target directory decides the operation:
//   - missing or empty: clone
//   - same repository: fetch, skipped when the worktree is dirty
//   - different repository or non-git content: error, resolve manually
//
// Both clone and fetch try anonymous access first and retry with the
// stored personal access token only on an authentication failure, so
// public repositories never touch the credential store.
func (gs GitSource) Prepare(logger *logging.AppLogger) (string, error) {
	if logger != nil {
		logger.Info("Preparing Git content source",
			"remoteURL", gs.RemoteURL,
			"branch", gs.Branch,
			"localPath", gs.Path)
	}

	if err := gs.validateInputs(); err != nil {
		return "", err
	}

	normalizedURL, err := gs.normalizeRemoteURL()
	if err != nil {
		return "", fmt.Errorf("invalid remote URL: %w", err)
	}

	cleanPath, err := gs.validateLocalPath()
	if err != nil {
		return "", err
	}

	dirStatus, err := classifyCloneDirectory(cleanPath, normalizedURL)
	if dirStatus == DirectoryStatusError {
		return "", err
	}

	switch dirStatus {
	case DirectoryStatusEmpty:
		if err := gs.performCloneWithAuth(cleanPath, normalizedURL, logger); err != nil {
			return "", err
		}

	case DirectoryStatusSameRepo:
		if err := gs.performFetchWithAuth(cleanPath, logger); err != nil {
			return "", err
		}

	case DirectoryStatusDifferentRepo, DirectoryStatusConflict:
		return "", fmt.Errorf("directory conflict at %s (%s): remove or relocate the existing directory, or point content_dir elsewhere",
			cleanPath, dirStatus)

	default:
		return "", fmt.Errorf("unexpected directory status: %s", dirStatus)
	}

	if logger != nil {
		logger.Info("Git content source prepared", "localPath", cleanPath)
	}

	return cleanPath, nil
}

// FetchUpdates refreshes an already cloned repository. Unlike Prepare it
// never clones: a missing clone is an error. Dirty worktrees are left
// untouched (logged, not an error).
func (gs GitSource) FetchUpdates(logger *logging.AppLogger) error {
	if logger != nil {
		logger.Info("Fetch requested", "url", gs.RemoteURL, "path", gs.Path)
	}

	if _, err := os.Stat(gs.Path); os.IsNotExist(err) {
		return fmt.Errorf("repository does not exist at %s - cannot fetch updates", gs.Path)
	}

	return gs.performFetchWithAuth(gs.Path, logger)
}

// WorktreeDirty reports whether the repository at repoPath has
// uncommitted changes. Sync flows use it to decide whether updating is
// safe.
func WorktreeDirty(repoPath string) (bool, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return false, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get repository status: %w", err)
	}

	return !status.IsClean(), nil
}

func (gs GitSource) validateInputs() error {
	if strings.TrimSpace(gs.RemoteURL) == "" {
		return fmt.Errorf("remote URL cannot be empty")
	}
	if strings.TrimSpace(gs.Path) == "" {
		return fmt.Errorf("local path cannot be empty")
	}
	return nil
}

// normalizeRemoteURL converts SSH URLs to HTTPS so token authentication
// works, and passes absolute filesystem paths through untouched.
func (gs GitSource) normalizeRemoteURL() (string, error) {
	raw := strings.TrimSpace(gs.RemoteURL)

	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), nil
	}

	info, err := ParseGitURL(raw)
	if err != nil {
		return "", fmt.Errorf("invalid Git URL format: %w", err)
	}

	return fmt.Sprintf("https://%s/%s/%s.git", info.Host, info.Owner, info.Repo), nil
}

// validateLocalPath runs the security validators on the clone path and
// resolves it to an absolute path. Conflict detection is separate (see
// classifyCloneDirectory); both checks are required.
func (gs GitSource) validateLocalPath() (string, error) {
	expanded := fileops.ExpandPath(strings.TrimSpace(gs.Path))

	// Raw path first: cleaning would erase ".." segments.
	if err := fileops.ValidatePathSecurity(expanded); err != nil {
		return "", fmt.Errorf("invalid local path: %w", err)
	}

	abs, err := filepath.Abs(filepath.Clean(expanded))
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	return abs, nil
}

// getAuthentication retrieves the stored token for authenticated
// operations. A nil auth with nil error means no token is stored and
// anonymous access is the only option.
func (gs GitSource) getAuthentication(logger *logging.AppLogger) (*http.BasicAuth, error) {
	credMgr := NewCredentialManager()

	if !credMgr.HasGitHubToken() {
		return nil, nil
	}

	token, err := credMgr.GetGitHubToken()
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Debug("Using GitHub personal access token for authentication")
	}

	// GitHub PAT authentication uses "token" as the username.
	return &http.BasicAuth{
		Username: "token",
		Password: token,
	}, nil
}

func (gs GitSource) performCloneWithAuth(localPath, remoteURL string, logger *logging.AppLogger) error {
	err := gs.performClone(localPath, remoteURL, nil, logger)
	if err == nil {
		return nil
	}

	if gs.isAuthenticationError(err) {
		if logger != nil {
			logger.Debug("Anonymous clone failed, retrying with authentication")
		}

		auth, authErr := gs.getAuthentication(logger)
		if authErr != nil {
			return fmt.Errorf("GitHub authentication failed: %w", authErr)
		}
		if auth == nil {
			return fmt.Errorf("GitHub authentication required - store a personal access token with 'stylebook auth set-token'")
		}

		return gs.performClone(localPath, remoteURL, auth, logger)
	}

	return err
}

// performClone clones the repository into localPath, creating parent
// directories as needed. A pinned branch clones single-branch.
func (gs GitSource) performClone(localPath, remoteURL string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	if logger != nil {
		logger.Info("Cloning repository", "remoteURL", remoteURL, "localPath", localPath)
	}

	parentDir := filepath.Dir(localPath)
	if err := fileops.ValidatePathSecurity(parentDir); err != nil {
		return fmt.Errorf("parent directory failed security validation: %w", err)
	}
	if err := fileops.EnsureDirectoryExists(parentDir); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL: remoteURL,
	}
	if auth != nil {
		cloneOpts.Auth = auth
	}
	if gs.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(gs.Branch)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainClone(localPath, cloneOpts); err != nil {
		return gs.translateCloneError(err)
	}

	if logger != nil {
		logger.Info("Repository cloned", "localPath", localPath)
	}

	return nil
}

func (gs GitSource) performFetchWithAuth(localPath string, logger *logging.AppLogger) error {
	err := gs.performFetch(localPath, nil, logger)
	if err == nil {
		return nil
	}

	if gs.isAuthenticationError(err) {
		if logger != nil {
			logger.Debug("Anonymous fetch failed, retrying with authentication")
		}

		auth, authErr := gs.getAuthentication(logger)
		if authErr != nil {
			return fmt.Errorf("GitHub authentication failed: %w", authErr)
		}
		if auth == nil {
			return fmt.Errorf("GitHub authentication required - store a personal access token with 'stylebook auth set-token'")
		}

		return gs.performFetch(localPath, auth, logger)
	}

	return err
}

// performFetch updates an existing clone. A dirty worktree skips the
// fetch entirely so local edits survive; a configured branch is checked
// out afterwards, with checkout failures logged rather than fatal so a
// misconfigured branch still leaves the cached content usable.
func (gs GitSource) performFetch(localPath string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	if logger != nil {
		logger.Info("Fetching repository updates", "localPath", localPath)
	}

	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to get working tree status: %w", err)
	}

	if !status.IsClean() {
		if logger != nil {
			logger.Warn("Working tree has uncommitted changes, skipping sync")
		}
		return nil
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("failed to get origin remote: %w", err)
	}

	fetchOpts := &git.FetchOptions{
		// Force handles force-pushed remotes; the worktree was verified
		// clean above so nothing local can be lost.
		Force: true,
	}
	if auth != nil {
		fetchOpts.Auth = auth
	}

	err = remote.Fetch(fetchOpts)
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return gs.translateFetchError(err)
	}

	if logger != nil {
		if err == git.NoErrAlreadyUpToDate {
			logger.Debug("Repository already up to date")
		} else {
			logger.Info("Repository updated")
		}
	}

	if gs.Branch != "" {
		if err := gs.checkoutBranch(repo, worktree, gs.Branch, logger); err != nil {
			if logger != nil {
				logger.Warn("Failed to checkout configured branch",
					"branch", gs.Branch,
					"error", err)
			}
		}
	}

	return nil
}

// checkoutBranch switches the worktree to branchName, creating a local
// branch tracking origin's if one does not exist yet.
func (gs GitSource) checkoutBranch(repo *git.Repository, worktree *git.Worktree, branchName string, logger *logging.AppLogger) error {
	if logger != nil {
		logger.Debug("Checking out branch", "branch", branchName)
	}

	head, err := repo.Head()
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if head != nil && head.Name().Short() == branchName {
		return nil
	}

	localBranchRef := plumbing.NewBranchReferenceName(branchName)
	remoteBranchRef := plumbing.NewRemoteReferenceName("origin", branchName)

	remoteRef, err := repo.Reference(remoteBranchRef, true)
	if err != nil {
		return fmt.Errorf("branch %q does not exist on remote 'origin'", branchName)
	}

	_, err = repo.Reference(localBranchRef, true)
	if err == plumbing.ErrReferenceNotFound {
		newRef := plumbing.NewHashReference(localBranchRef, remoteRef.Hash())
		if err := repo.Storer.SetReference(newRef); err != nil {
			return fmt.Errorf("failed to create local branch: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to get local branch reference: %w", err)
	}

	checkoutOpts := &git.CheckoutOptions{
		Branch: localBranchRef,
		Force:  false,
	}
	if err := worktree.Checkout(checkoutOpts); err != nil {
		return fmt.Errorf("failed to checkout branch: %w", err)
	}

	if logger != nil {
		logger.Info("Checked out branch", "branch", branchName)
	}

	return nil
}

// translateCloneError maps technical clone failures to messages an
// operator can act on.
func (gs GitSource) translateCloneError(err error) error {
	errStr := strings.ToLower(err.Error())

	if gs.containsAuthErrorPatterns(err.Error()) {
		if strings.Contains(errStr, "403") || strings.Contains(errStr, "forbidden") {
			return fmt.Errorf("GitHub token lacks required permissions - ensure the 'repo' scope is enabled, then update it with 'stylebook auth set-token'")
		}
		return fmt.Errorf("GitHub authentication failed - update your personal access token with 'stylebook auth set-token'")
	}

	if strings.Contains(errStr, "404") || strings.Contains(errStr, "not found") {
		return fmt.Errorf("repository not found - check the URL or ensure you have access: %s", gs.RemoteURL)
	}

	if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return fmt.Errorf("network error during clone - check your connection and try again: %w", err)
	}

	return fmt.Errorf("failed to clone repository: %w", err)
}

// translateFetchError maps fetch failures to operator guidance. Fetch
// errors are softer than clone errors: the cached clone keeps working.
func (gs GitSource) translateFetchError(err error) error {
	errStr := strings.ToLower(err.Error())

	if gs.containsAuthErrorPatterns(err.Error()) {
		return fmt.Errorf("GitHub token has expired or is invalid - update it with 'stylebook auth set-token'")
	}

	if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return fmt.Errorf("network error during fetch - serving the cached content: %w", err)
	}

	return fmt.Errorf("failed to fetch repository updates: %w", err)
}

func (gs GitSource) isAuthenticationError(err error) bool {
	if err == nil {
		return false
	}
	return gs.containsAuthErrorPatterns(err.Error())
}

func (gs GitSource) containsAuthErrorPatterns(errMsg string) bool {
	errStr := strings.ToLower(errMsg)
	authPatterns := []string{
		"authentication required",
		"401",
		"unauthorized",
		"403",
		"forbidden",
	}

	for _, pattern := range authPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
