package main

import (
	"fmt"
	"path/filepath"

	"stylebook/internal/config"
	"stylebook/internal/repository"
	"stylebook/internal/scaffold"
	"stylebook/pkg/fileops"

	"github.com/spf13/cobra"
)

var (
	initRemote string
	initBranch string
)

// initCmd sets up the content tree and writes the configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up a content tree and record it in the configuration",
	Long: `Creates the content tree and saves its location to the config file.

Without flags the tree is scaffolded from built-in starter content:
four standards documents and one example per category, enough to serve
immediately and meant to be replaced with your own. Files already
present are never overwritten, so init is safe to re-run.

With --remote the tree is cloned from a git repository instead and kept
current by 'stylebook sync'. The clone lands under the user data
directory unless --content-dir says otherwise. Private repositories
authenticate with the token stored via 'stylebook auth set-token'.`,
	RunE: runInit,
}

// syncCmd updates the content tree from its repository
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the content tree from its configured repository",
	Long: `Fetches and fast-forwards the content tree from the repository recorded
by 'stylebook init --remote'. A tree with uncommitted local changes is
left untouched so edits survive.`,
	RunE: runSync,
}

func init() {
	initCmd.Flags().StringVar(&initRemote, "remote", "", "Clone the content tree from this git URL instead of scaffolding")
	initCmd.Flags().StringVar(&initBranch, "branch", "main", "Branch to clone when --remote is set")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(syncCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if initRemote != "" {
		return initFromRemote(initRemote, initBranch)
	}

	cfg := loadConfig()

	dir, err := filepath.Abs(fileops.ExpandPath(cfg.ContentDir))
	if err != nil {
		return fmt.Errorf("cannot resolve content directory: %w", err)
	}

	result, err := scaffold.Materialize(dir, appLogger)
	if err != nil {
		return err
	}

	cfg.ContentDir = dir
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Content tree ready at %s (%d files written, %d already present).\n",
		dir, len(result.Written), len(result.Skipped))
	fmt.Println("Run 'stylebook serve' to start the MCP server, or 'stylebook browse' to explore.")
	return nil
}

func initFromRemote(remoteURL, branch string) error {
	clonePath := contentDirFlag
	if clonePath == "" {
		derived, err := repository.DeriveClonePath(remoteURL)
		if err != nil {
			return err
		}
		clonePath = derived
	}

	result := repository.SyncContent(remoteURL, branch, clonePath, appLogger)
	fmt.Println(result.Message())
	if result.Status == repository.SyncStatusFailed {
		return result.Error
	}

	cfg := loadConfig()
	cfg.ContentDir = clonePath
	cfg.ContentRepo.RemoteURL = remoteURL
	cfg.ContentRepo.Branch = branch
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Content tree at %s, tracking %s (%s).\n", clonePath, remoteURL, branch)
	fmt.Println("Run 'stylebook serve' to start the MCP server.")
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.ContentRepo.RemoteURL == "" {
		return fmt.Errorf("no content repository configured, run 'stylebook init --remote <url>' first")
	}

	result := repository.SyncContent(cfg.ContentRepo.RemoteURL, cfg.ContentRepo.Branch, cfg.ContentDir, appLogger)
	fmt.Println(result.Message())
	if result.Status == repository.SyncStatusFailed {
		return result.Error
	}
	return nil
}

func saveConfig(cfg *config.Config) error {
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if path, err := config.ConfigPath(); err == nil {
		fmt.Printf("Configuration saved to %s.\n", path)
	}
	return nil
}
