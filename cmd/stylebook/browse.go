package main

import (
	"stylebook/internal/tui"

	"github.com/spf13/cobra"
)

// browseCmd opens the full-screen catalog browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse standards and examples in the terminal",
	Long: `Opens a full-screen browser over the content tree. The left pane lists
every standard and code example, the right pane previews the selection
with rendered markdown for standards.

Keys: arrows/jk move, / filters, g toggles markdown rendering,
r reloads the tree, q quits.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	library, err := openLibrary(cfg)
	if err != nil {
		return err
	}

	ctx := tui.NewUIContext(0, 0, cfg, appLogger)
	return tui.Run(tui.NewBrowser(library, ctx))
}
