package repository

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"stylebook/pkg/fileops"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v6"
)

// DirectoryStatus classifies the target clone directory so Prepare can
// decide between cloning, fetching, and refusing to touch it.
type DirectoryStatus int

const (
	// DirectoryStatusEmpty means the directory is missing or empty, safe to clone into.
	DirectoryStatusEmpty DirectoryStatus = iota
	// DirectoryStatusSameRepo means the directory already holds a clone of the same remote.
	DirectoryStatusSameRepo
	// DirectoryStatusDifferentRepo means the directory holds a clone of a different remote.
	DirectoryStatusDifferentRepo
	// DirectoryStatusConflict means the directory holds non-git content.
	DirectoryStatusConflict
	// DirectoryStatusError means the directory could not be classified.
	DirectoryStatusError
)

func (ds DirectoryStatus) String() string {
	switch ds {
	case DirectoryStatusEmpty:
		return "empty or doesn't exist"
	case DirectoryStatusSameRepo:
		return "same git repository"
	case DirectoryStatusDifferentRepo:
		return "different git repository"
	case DirectoryStatusConflict:
		return "contains non-git content"
	case DirectoryStatusError:
		return "validation error"
	default:
		return "unknown status"
	}
}

// defaultCloneRoot is where derived clone paths live. Keeping clones in
// a flat directory under the user's data dir makes them visible and
// manageable outside the tool.
func defaultCloneRoot() string {
	return filepath.Join(xdg.DataHome, "stylebook")
}

// DeriveClonePath derives a local clone path from a Git remote URL, in
// the format <data dir>/stylebook/<repo>:
//
//	git@github.com:acme/mobile-standards.git  ->  ~/.local/share/stylebook/mobile-standards
//	https://github.com/acme/mobile-standards  ->  ~/.local/share/stylebook/mobile-standards
//
// SSH and HTTPS URLs for the same repository derive the same path.
func DeriveClonePath(remoteURL string) (string, error) {
	info, err := ParseGitURL(remoteURL)
	if err != nil {
		return "", err
	}

	clonePath := filepath.Clean(filepath.Join(defaultCloneRoot(), info.Repo))

	if err := fileops.ValidatePathSecurity(clonePath); err != nil {
		return "", fmt.Errorf("derived path failed security validation: %w", err)
	}
	if !filepath.IsAbs(clonePath) {
		return "", fmt.Errorf("derived clone path must be absolute: %s", clonePath)
	}

	return clonePath, nil
}

// GitURLInfo holds the parsed components of a Git repository URL.
type GitURLInfo struct {
	Host  string // e.g. "github.com"
	Owner string // repository owner or organization
	Repo  string // repository name without the .git suffix
}

// ParseGitURL parses a Git repository URL in SSH
// (git@host:owner/repo.git) or HTTP(S) (https://host/owner/repo.git)
// form. The .git suffix is optional.
func ParseGitURL(gitURL string) (GitURLInfo, error) {
	gitURL = strings.TrimSpace(gitURL)

	sshPattern := regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	if matches := sshPattern.FindStringSubmatch(gitURL); matches != nil {
		return GitURLInfo{
			Host:  matches[1],
			Owner: matches[2],
			Repo:  matches[3],
		}, nil
	}

	parsedURL, err := url.Parse(gitURL)
	if err != nil {
		return GitURLInfo{}, fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Host == "" {
		return GitURLInfo{}, fmt.Errorf("URL missing host component")
	}

	pathParts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(pathParts) < 2 {
		return GitURLInfo{}, fmt.Errorf("URL path should contain owner/repo: %s", parsedURL.Path)
	}

	owner := pathParts[0]
	repo := strings.TrimSuffix(pathParts[1], ".git")
	if owner == "" || repo == "" {
		return GitURLInfo{}, fmt.Errorf("could not extract owner/repo from URL path: %s", parsedURL.Path)
	}

	return GitURLInfo{
		Host:  parsedURL.Host,
		Owner: owner,
		Repo:  repo,
	}, nil
}

// classifyCloneDirectory determines whether clonePath can be used for
// expectedRemoteURL. The returned error is non-nil only for
// DirectoryStatusError; conflict statuses carry their meaning in the
// status itself and the caller phrases the refusal.
func classifyCloneDirectory(clonePath, expectedRemoteURL string) (DirectoryStatus, error) {
	info, err := os.Stat(clonePath)
	if os.IsNotExist(err) {
		return DirectoryStatusEmpty, nil
	}
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot access directory %s: %w", clonePath, err)
	}
	if !info.IsDir() {
		return DirectoryStatusError, fmt.Errorf("path exists but is not a directory: %s", clonePath)
	}

	isEmpty, err := fileops.IsDirEmpty(clonePath)
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot check if directory is empty: %w", err)
	}
	if isEmpty {
		return DirectoryStatusEmpty, nil
	}

	currentRemote, err := gitRemoteURL(clonePath)
	if err != nil {
		if strings.Contains(err.Error(), "not a git repository") {
			return DirectoryStatusConflict, nil
		}
		return DirectoryStatusError, fmt.Errorf("cannot get current git remote URL: %w", err)
	}

	if normalizeGitURL(currentRemote) == normalizeGitURL(expectedRemoteURL) {
		return DirectoryStatusSameRepo, nil
	}
	return DirectoryStatusDifferentRepo, nil
}

// gitRemoteURL returns the origin remote URL of the repository at
// repoPath. PlainOpen doubles as the is-this-a-git-repo check: it
// returns ErrRepositoryNotExists for plain directories.
func gitRemoteURL(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return "", fmt.Errorf("directory is not a git repository: %s", repoPath)
		}
		return "", fmt.Errorf("cannot open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("cannot get origin remote: %w", err)
	}

	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return "", fmt.Errorf("no URLs configured for origin remote")
	}
	return cfg.URLs[0], nil
}

// normalizeGitURL reduces a git URL to host/owner/repo form so SSH and
// HTTPS URLs for the same repository compare equal. Strings that are not
// git URLs (such as filesystem paths) pass through unchanged.
func normalizeGitURL(gitURL string) string {
	gitURL = strings.TrimSpace(gitURL)
	gitURL = strings.TrimSuffix(gitURL, ".git")

	sshPattern := regexp.MustCompile(`^git@([^:]+):(.+)$`)
	if matches := sshPattern.FindStringSubmatch(gitURL); matches != nil {
		return matches[1] + "/" + matches[2]
	}

	if after, found := strings.CutPrefix(gitURL, "https://"); found {
		return after
	}
	if after, found := strings.CutPrefix(gitURL, "http://"); found {
		return after
	}

	return gitURL
}
