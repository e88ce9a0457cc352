package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"stylebook/internal/content"

	"github.com/spf13/cobra"
)

var (
	listCategory string
	listJSON     bool
	showPathOnly bool
)

// listCmd prints the example catalog
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every available code example by category",
	RunE:  runList,
}

// showCmd resolves and prints one example
var showCmd = &cobra.Command{
	Use:   "show <category> <name>",
	Short: "Resolve a code example and print it",
	Long: `Resolves name inside category the same way the MCP tools do: exact
filename first, then the name with each recognized extension, then a
substring match against file stems. Prints the matched file's contents;
--path prints its path relative to the examples root instead.

Example:
  stylebook show components Button
  stylebook show hooks useDebounce --path`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

// standardCmd prints a standards document
var standardCmd = &cobra.Command{
	Use:   "standard [id]",
	Short: "Print a standards document, or list them all",
	Long: `With an id, prints the document body (frontmatter stripped). Without
arguments, lists every available standard with its id and title.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStandard,
}

// validateCmd checks the content tree layout
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content tree layout and report problems",
	Long: `Runs the same advisory check the server runs at startup: missing
roots, missing category directories, symlinks escaping the tree. Exits
non-zero when issues are found so it can gate content deployments.`,
	RunE: runValidate,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only list this category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit the catalog as JSON")
	showCmd.Flags().BoolVar(&showPathOnly, "path", false, "Print the resolved relative path instead of the contents")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(standardCmd)
	rootCmd.AddCommand(validateCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	library, err := openLibrary(loadConfig())
	if err != nil {
		return err
	}

	var catalog content.Catalog
	if listCategory != "" {
		category, err := content.ParseCategory(listCategory)
		if err != nil {
			return err
		}
		catalog = library.CatalogFor(category)
	} else {
		catalog = library.Catalog()
	}

	if listJSON {
		data, err := json.MarshalIndent(catalog, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(catalog.FormatText())
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	category, err := content.ParseCategory(args[0])
	if err != nil {
		return err
	}

	library, err := openLibrary(loadConfig())
	if err != nil {
		return err
	}

	res, err := library.Resolve(category, args[1])
	if err != nil {
		return err
	}

	if showPathOnly {
		fmt.Println(res.RelativePath)
		return nil
	}
	printDocument(res.Content)
	return nil
}

func runStandard(cmd *cobra.Command, args []string) error {
	library, err := openLibrary(loadConfig())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		standards, err := library.Standards()
		if err != nil {
			return err
		}
		if len(standards) == 0 {
			fmt.Println("No standards documents found.")
			return nil
		}
		for _, std := range standards {
			fmt.Printf("%-24s %s\n", std.ID, std.Title)
			if std.Description != "" {
				fmt.Printf("%-24s %s\n", "", std.Description)
			}
		}
		return nil
	}

	res, err := library.ResolveStandard(args[0])
	if err != nil {
		return err
	}
	printDocument(res.Content)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	library, err := openLibrary(loadConfig())
	if err != nil {
		return err
	}

	issues := library.ValidateLayout()
	if len(issues) == 0 {
		fmt.Printf("Content tree at %s looks good.\n", library.ContentDir())
		return nil
	}

	fmt.Printf("Found %d issue(s) in %s:\n", len(issues), library.ContentDir())
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
	return fmt.Errorf("content tree has layout issues")
}

// printDocument writes content to stdout, ensuring a trailing newline so
// shell prompts do not glue onto the last line.
func printDocument(content string) {
	fmt.Print(content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
}
