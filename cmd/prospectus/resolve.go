package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/resolver"
	"github.com/tanwee/prospectus/internal/synthesis"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <question>",
	Short: "Resolve a question into a context bundle",
	Long: `Resolve a question into a context bundle: the semantically relevant
courses with their volatile fields refreshed from the course site.

Outputs the raw bundle as JSON; with --human, a readable listing. Use
'prospectus ask' for a synthesized answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg := mustLoadConfig(root)

	r := buildResolver(root, cfg)
	query := strings.Join(args, " ")

	bundle, err := r.Resolve(context.Background(), query)
	if err != nil {
		if errors.Is(err, resolver.ErrEmbeddingUnavailable) {
			exitWithError(ExitDataError, "embedding provider unavailable: %v", err)
		}
		exitWithError(ExitError, "resolving: %v", err)
	}

	if humanOutput {
		text, err := synthesis.NewStaticSynthesizer().Synthesize(context.Background(), bundle)
		if err != nil {
			exitWithError(ExitError, "rendering bundle: %v", err)
		}
		fmt.Println(text)
	} else {
		outputJSON(bundle)
	}

	if bundle.Empty() {
		os.Exit(ExitNoMatch)
	}
	return nil
}
