package repository

import (
	"strings"
	"testing"
)

func TestValidateTokenFormat(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		errorText string
	}{
		{
			name:  "classic token",
			token: CreateTestToken("ghp_"),
		},
		{
			name:  "fine grained token",
			token: CreateTestToken("github_pat_"),
		},
		{
			name:  "oauth token",
			token: CreateTestToken("gho_"),
		},
		{
			name:  "user to server token",
			token: CreateTestToken("ghu_"),
		},
		{
			name:  "server to server token",
			token: CreateTestToken("ghs_"),
		},
		{
			name:  "surrounding whitespace accepted",
			token: "  " + CreateTestToken("ghp_") + "  ",
		},
		{
			name:      "too short",
			token:     "ghp_123",
			errorText: "token too short",
		},
		{
			name:      "empty",
			token:     "",
			errorText: "token too short",
		},
		{
			name:      "unknown prefix",
			token:     "tok_1234567890abcdefghijklmnopqrstuvwxyz",
			errorText: "does not match expected GitHub PAT format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTokenFormat(tt.token)
			if tt.errorText == "" {
				if err != nil {
					t.Errorf("validateTokenFormat() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validateTokenFormat() should fail")
			}
			if !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("validateTokenFormat() error = %v, want substring %q", err, tt.errorText)
			}
		})
	}
}

// Invalid tokens are rejected before the credential store is touched, so
// these cases run without a keyring.
func TestCredentialManager_StoreRejectsInvalidTokens(t *testing.T) {
	cm := NewCredentialManager()

	if err := cm.StoreGitHubToken(""); err == nil || !strings.Contains(err.Error(), "cannot be empty") {
		t.Errorf("StoreGitHubToken(\"\") error = %v, want empty-token rejection", err)
	}

	if err := cm.StoreGitHubToken("bad-token"); err == nil || !strings.Contains(err.Error(), "invalid token format") {
		t.Errorf("StoreGitHubToken(bad) error = %v, want format rejection", err)
	}
}

func TestCredentialManager_StoreAndRetrieve(t *testing.T) {
	cleanup := SetupTestKeyring(t)
	defer cleanup()

	tcm := NewTestCredentialManager(t)
	token := CreateTestToken("")

	if err := tcm.StoreGitHubToken(token); err != nil {
		t.Fatalf("StoreGitHubToken() failed: %v", err)
	}
	if !tcm.HasGitHubToken() {
		t.Errorf("HasGitHubToken() = false after store")
	}

	got, err := tcm.GetGitHubToken()
	if err != nil {
		t.Fatalf("GetGitHubToken() failed: %v", err)
	}
	if got != token {
		t.Errorf("GetGitHubToken() = %q, want %q", got, token)
	}

	if err := tcm.DeleteGitHubToken(); err != nil {
		t.Fatalf("DeleteGitHubToken() failed: %v", err)
	}
	if tcm.HasGitHubToken() {
		t.Errorf("HasGitHubToken() = true after delete")
	}
}

func TestCredentialManager_GetMissingToken(t *testing.T) {
	cleanup := SetupTestKeyring(t)
	defer cleanup()

	tcm := NewTestCredentialManager(t)

	_, err := tcm.GetGitHubToken()
	if err == nil {
		t.Fatalf("GetGitHubToken() should fail when nothing is stored")
	}
	if !strings.Contains(err.Error(), "stylebook auth set-token") {
		t.Errorf("GetGitHubToken() error = %v, want guidance to the auth command", err)
	}
}

func TestCredentialManager_DeleteMissingToken(t *testing.T) {
	cleanup := SetupTestKeyring(t)
	defer cleanup()

	tcm := NewTestCredentialManager(t)
	if err := tcm.DeleteGitHubToken(); err != nil {
		t.Errorf("DeleteGitHubToken() on missing token = %v, want nil", err)
	}
}

func TestCredentialManager_ProbeStore(t *testing.T) {
	cleanup := SetupTestKeyring(t)
	defer cleanup()

	tcm := NewTestCredentialManager(t)
	if err := tcm.ProbeStore(); err != nil {
		t.Errorf("ProbeStore() = %v, want nil on a working keyring", err)
	}
}
