package main

import (
	"bufio"
	"fmt"
	"strings"

	"stylebook/internal/repository"

	"github.com/spf13/cobra"
)

// authCmd manages the GitHub token for private content repositories
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the GitHub token used for private content repositories",
	Long: `The token lives in the operating system keyring, never in a file.
It is only read during clone and fetch of a private content repository.

Available subcommands:
  set-token - Store a GitHub personal access token
  clear     - Remove the stored token
  status    - Show keyring and token state`,
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store a GitHub personal access token in the system keyring",
	Long: `Pass the token as an argument or pipe it on stdin:

  stylebook auth set-token ghp_xxxx
  gh auth token | stylebook auth set-token

Classic (ghp_), fine-grained (github_pat_) and OAuth tokens are
accepted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthSetToken,
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored GitHub token",
	RunE:  runAuthClear,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show keyring availability and whether a token is stored",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authClearCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSetToken(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return fmt.Errorf("no token provided")
		}
		token = scanner.Text()
	}
	token = strings.TrimSpace(token)

	cm := repository.NewCredentialManager()
	if err := cm.StoreGitHubToken(token); err != nil {
		return err
	}

	fmt.Println("GitHub token stored in the system keyring.")
	return nil
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	cm := repository.NewCredentialManager()
	if err := cm.DeleteGitHubToken(); err != nil {
		return err
	}

	fmt.Println("GitHub token removed.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cm := repository.NewCredentialManager()

	if err := cm.ProbeStore(); err != nil {
		fmt.Println("Keyring: unavailable")
		fmt.Printf("  %v\n", err)
		fmt.Println("\nPrivate repository sync will fail until the keyring works.")
		return nil
	}
	fmt.Println("Keyring: available")

	if cm.HasGitHubToken() {
		fmt.Println("GitHub token: stored")
	} else {
		fmt.Println("GitHub token: not stored")
		fmt.Println("\nRun 'stylebook auth set-token' to store one.")
	}
	return nil
}
