package main

import (
	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/auth"
	"github.com/tanwee/prospectus/internal/config"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the chat access gate",
}

var authSetCmd = &cobra.Command{
	Use:   "set <phrase>",
	Short: "Set the access phrase for the chat surface",
	Long: `Set the access phrase required to start a chat session.

Only a bcrypt hash is stored in the repository config.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthSet,
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	hash, err := auth.HashPhrase(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	cfg.AccessHash = hash
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		successColor.Println("Access phrase set.")
	} else {
		outputJSON(StatusResponse{Status: "access phrase set"})
	}
	return nil
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the access phrase",
	RunE:  runAuthClear,
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	cfg.AccessHash = ""
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		successColor.Println("Access gate disabled.")
	} else {
		outputJSON(StatusResponse{Status: "access gate disabled"})
	}
	return nil
}
