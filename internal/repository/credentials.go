package repository

import (
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for the OS credential store
	credentialService = "stylebook"
	// Key for the GitHub personal access token
	githubTokenKey = "github_pat"
)

// CredentialManager stores and retrieves the GitHub personal access
// token in the OS credential store (Keychain on macOS, Credential
// Manager on Windows, Secret Service on Linux).
type CredentialManager struct {
	service string
}

func NewCredentialManager() *CredentialManager {
	return &CredentialManager{service: credentialService}
}

// StoreGitHubToken validates and stores a GitHub personal access token.
func (cm *CredentialManager) StoreGitHubToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := validateTokenFormat(token); err != nil {
		return fmt.Errorf("invalid token format: %w", err)
	}

	if err := keyring.Set(cm.service, githubTokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}

	return nil
}

// GetGitHubToken retrieves the stored token.
func (cm *CredentialManager) GetGitHubToken() (string, error) {
	token, err := keyring.Get(cm.service, githubTokenKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("no GitHub token stored - run 'stylebook auth set-token' to configure one")
		}
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}

	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("stored token is empty - run 'stylebook auth set-token' to replace it")
	}

	return token, nil
}

// DeleteGitHubToken removes the stored token. A missing token is not an
// error.
func (cm *CredentialManager) DeleteGitHubToken() error {
	err := keyring.Delete(cm.service, githubTokenKey)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// HasGitHubToken reports whether a token is stored, without retrieving
// it.
func (cm *CredentialManager) HasGitHubToken() bool {
	_, err := keyring.Get(cm.service, githubTokenKey)
	return err == nil
}

// ProbeStore verifies the OS credential store is usable by writing,
// reading back, and removing a throwaway key. Used by
// 'stylebook auth status' to diagnose keyring problems before they
// surface as sync failures.
func (cm *CredentialManager) ProbeStore() error {
	const probeKey = "stylebook_probe"

	if err := keyring.Set(cm.service, probeKey, "ok"); err != nil {
		return fmt.Errorf("credential store unavailable: %w", err)
	}

	got, err := keyring.Get(cm.service, probeKey)
	if err != nil {
		_ = keyring.Delete(cm.service, probeKey)
		return fmt.Errorf("credential store unreadable: %w", err)
	}
	if got != "ok" {
		_ = keyring.Delete(cm.service, probeKey)
		return fmt.Errorf("credential store returned corrupted data")
	}

	if err := keyring.Delete(cm.service, probeKey); err != nil {
		return fmt.Errorf("credential store cleanup failed: %w", err)
	}

	return nil
}

// validateTokenFormat checks the token against known GitHub PAT shapes:
// classic (ghp_), fine-grained (github_pat_), OAuth (gho_), and the
// user-to-server/server-to-server variants (ghu_, ghs_).
func validateTokenFormat(token string) error {
	token = strings.TrimSpace(token)

	if len(token) < 20 {
		return fmt.Errorf("token too short (minimum 20 characters)")
	}

	validPrefixes := []string{
		"ghp_",
		"github_pat_",
		"gho_",
		"ghu_",
		"ghs_",
	}
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(token, prefix) {
			return nil
		}
	}

	return fmt.Errorf("token does not match expected GitHub PAT format (should start with ghp_ or github_pat_)")
}
