// Package main provides the prospectus CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// Optional; API keys may come from a .env beside the repository.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "prospectus",
	Short: "Course catalogue advisor with semantic retrieval",
	Long: `prospectus is a CLI for exploring a professional course catalogue.

It stores courses in git-versionable JSONL format with an ephemeral
SQLite cache for fast queries and a precomputed vector index for
semantic retrieval. Answers combine static catalogue data with live
volatile fields (fees, intakes, requirements) fetched per question.
All commands output JSON by default for easy integration with other
tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getRepoRoot returns the working root, honoring PROSPECTUS_ROOT.
func getRepoRoot() (string, int) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}

	if root := os.Getenv("PROSPECTUS_ROOT"); root != "" {
		cwd = root
	}

	return cwd, 0
}
