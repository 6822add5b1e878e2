package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/advisor"
	"github.com/tanwee/prospectus/internal/resolver"
	"github.com/tanwee/prospectus/internal/synthesis"
)

func init() {
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question about the catalogue",
	Long: `Ask one question and get a synthesized answer.

The question is resolved against the vector index, volatile fields are
refreshed from the course site, and the answer is synthesized with the
configured chat model. Without an API key the answer falls back to a
plain listing of the matching courses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg := mustLoadConfig(root)

	a := advisor.New(buildResolver(root, cfg), buildSynthesizer(cfg))
	question := strings.Join(args, " ")

	result, err := a.Answer(context.Background(), question)
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrEmbeddingUnavailable):
			exitWithError(ExitDataError, "embedding provider unavailable: %v", err)
		case errors.Is(err, synthesis.ErrSynthesis):
			exitWithError(ExitError, "synthesizing answer: %v", err)
		default:
			exitWithError(ExitError, "answering: %v", err)
		}
	}

	if humanOutput {
		fmt.Println(result.Answer)
		if result.Bundle.Degraded() {
			warnColor.Println("\nSome details could not be verified against the course site.")
		}
	} else {
		outputJSON(result)
	}
	return nil
}
