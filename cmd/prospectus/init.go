package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new prospectus repository",
	Long: `Initialize a new prospectus repository in the current directory.

Creates:
  .prospectus/
  ├── catalog.jsonl   # Empty course catalogue
  ├── config.json     # Default config
  └── cache/          # Ephemeral cache and index (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a prospectus repository")
	}

	if err := os.MkdirAll(config.ProspectusPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .prospectus directory: %v", err)
	}
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	catalogFile, err := os.Create(config.CatalogPath(root))
	if err != nil {
		exitWithError(ExitError, "creating catalog.jsonl: %v", err)
	}
	catalogFile.Close()

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}

	if humanOutput {
		successColor.Printf("Initialized prospectus repository in %s\n", root)
		fmt.Println("Next: add courses with 'prospectus catalog import', then 'prospectus index build'.")
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
