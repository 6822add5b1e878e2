package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/advisor"
	"github.com/tanwee/prospectus/internal/auth"
	"github.com/tanwee/prospectus/internal/session"
	"github.com/tanwee/prospectus/internal/tui"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive advisor session",
	Long: `Start an interactive chat session with the course advisor.

If an access phrase is configured ('prospectus auth set'), it is
prompted for before the session starts.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg := mustLoadConfig(root)

	if auth.Enabled(cfg.AccessHash) {
		fmt.Print("Access phrase: ")
		reader := bufio.NewReader(os.Stdin)
		phrase, err := reader.ReadString('\n')
		if err != nil {
			exitWithError(ExitError, "reading access phrase: %v", err)
		}
		if err := auth.Verify(cfg.AccessHash, strings.TrimSpace(phrase)); err != nil {
			exitWithError(ExitAccessDenied, "%v", err)
		}
	}

	a := advisor.New(buildResolver(root, cfg), buildSynthesizer(cfg))
	model := tui.New(a, session.New())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		exitWithError(ExitError, "running chat: %v", err)
	}
	return nil
}
