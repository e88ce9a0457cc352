package repository

import (
	"fmt"
	"testing"

	"github.com/zalando/go-keyring"
)

// Test helpers for code that touches the OS keyring. Tests run against
// the real credential store, so each test gets a unique service name to
// keep it away from production credentials and from parallel tests, and
// cleanup is registered automatically. Environments without a usable
// keyring (most CI containers) skip via SetupTestKeyring.

// TestCredentialManager wraps CredentialManager with an isolated
// per-test service name and automatic cleanup.
type TestCredentialManager struct {
	*CredentialManager
	testService string
	t           *testing.T
}

// NewTestCredentialManager creates an isolated credential manager for a
// test. Cleanup runs automatically when the test completes:
//
//	testCM := repository.NewTestCredentialManager(t)
//	err := testCM.StoreGitHubToken(repository.CreateTestToken(""))
func NewTestCredentialManager(t *testing.T) *TestCredentialManager {
	t.Helper()

	testService := fmt.Sprintf("stylebook-test-%s", t.Name())

	cm := &TestCredentialManager{
		CredentialManager: &CredentialManager{service: testService},
		testService:       testService,
		t:                 t,
	}

	t.Cleanup(func() {
		cm.Cleanup()
	})

	return cm
}

// Cleanup removes test credentials from the keyring. Registered via
// t.Cleanup but callable directly.
func (tcm *TestCredentialManager) Cleanup() {
	tcm.t.Helper()
	_ = keyring.Delete(tcm.testService, githubTokenKey)
}

// SetupTestKeyring skips the test when no usable keyring backend exists.
// Returns a cleanup function for the availability probe it writes.
func SetupTestKeyring(t *testing.T) func() {
	t.Helper()

	testService := fmt.Sprintf("stylebook-keyring-test-%s", t.Name())
	testKey := "test_availability"

	if err := keyring.Set(testService, testKey, "test_value"); err != nil {
		t.Skipf("Keyring not available, skipping test: %v", err)
	}

	return func() {
		_ = keyring.Delete(testService, testKey)
	}
}

// CreateTestToken returns a token that passes format validation but is
// not a real credential. An empty prefix defaults to the classic "ghp_"
// form.
func CreateTestToken(prefix string) string {
	if prefix == "" {
		prefix = "ghp_"
	}
	return prefix + "1234567890abcdefghijklmnopqrstuvwxyzABCD"
}
