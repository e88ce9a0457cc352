// Package main is the entry point for the stylebook CLI.
//
// The binary wraps one content library in several surfaces: an MCP
// server for AI assistants (serve), plain terminal output for humans
// (list, show, standard, validate), content tree management (init,
// sync, auth) and a full-screen browser (browse).
//
// Every command follows the same sequence: load configuration, apply
// flag overrides, open the content library, run. Logging goes to stderr
// so the stdio MCP transport keeps stdout to itself.
package main

import (
	"fmt"
	"os"

	"stylebook/internal/config"
	"stylebook/internal/content"
	"stylebook/internal/logging"

	"github.com/spf13/cobra"
)

// version is stamped by the release build.
var version = "dev"

var (
	// Global flags
	verbose        bool
	contentDirFlag string
	platformFlag   string

	// Logger
	appLogger *logging.AppLogger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stylebook",
	Short: "Serve coding standards and code examples over MCP",
	Long: `stylebook exposes a tree of coding-standards documents and curated code
examples to AI assistants over the Model Context Protocol.

The tree holds markdown standards plus per-category example code
(components, hooks, services, screens, themes). Assistants fetch a
standard or resolve an example by name; humans use the same tree
through list, show, standard and browse.

Start with 'stylebook init' to scaffold a starter tree, then register
'stylebook serve' with your assistant.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appLogger = logging.NewAppLogger()
		if verbose {
			appLogger.SetVerbose()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&contentDirFlag, "content-dir", "", "Content tree root (overrides the configured one)")
	rootCmd.PersistentFlags().StringVar(&platformFlag, "platform", "", "Code example platform subtree (default react-native)")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig returns the stored configuration, or the defaults when none
// exists, with flag overrides applied. Commands that only read content
// work without an init step this way.
func loadConfig() *config.Config {
	cfg := config.LoadOrDefault()
	if contentDirFlag != "" {
		cfg.ContentDir = contentDirFlag
	}
	if platformFlag != "" {
		cfg.Platform = platformFlag
	}
	return cfg
}

// openLibrary builds the content library for the effective configuration.
func openLibrary(cfg *config.Config) (*content.Library, error) {
	return content.NewLibrary(content.Options{
		ContentDir: cfg.ContentDir,
		Platform:   cfg.Platform,
		Logger:     appLogger,
	})
}
