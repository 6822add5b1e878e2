package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/config"
	"github.com/tanwee/prospectus/internal/embedding"
	"github.com/tanwee/prospectus/internal/vecindex"
)

var noProgress bool

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexCheckCmd)

	indexBuildCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Suppress progress output")
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
	Long:  `Commands for building and checking the semantic retrieval index.`,
}

// IndexBuildResult is the response for index build command.
type IndexBuildResult struct {
	Status          string  `json:"status"`
	CoursesIndexed  int     `json:"courses_indexed"`
	CoursesSkipped  int     `json:"courses_skipped"`
	SkippedReason   string  `json:"skipped_reason"`
	DurationSeconds float64 `json:"duration_seconds"`
	Model           string  `json:"model"`
	IndexSizeBytes  int64   `json:"index_size_bytes"`
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build or rebuild the vector index",
	Long: `Build or rebuild the vector index from course descriptions.

With the default Ollama provider, Ollama must be running with the
embedding model available. Run 'ollama pull all-minilm:l6-v2' to
download the default model.`,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindRepository()
	cfg := mustLoadConfig(root)

	provider := mustBuildProvider(cfg)
	if ollama, ok := provider.(*embedding.OllamaProvider); ok {
		if err := ollama.IsAvailable(ctx); err != nil {
			exitWithError(ExitDataError, "Ollama is not running\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai")
		}
		hasModel, err := ollama.HasModel(ctx)
		if err != nil {
			exitWithError(ExitError, "checking model availability: %v", err)
		}
		if !hasModel {
			exitWithError(ExitModelNotFound, "Embedding model '%s' not found\n\nRun 'ollama pull %s' to download it.", provider.ModelName(), provider.ModelName())
		}
	}

	db := mustOpenDatabase(root)
	defer db.Close()

	records, err := db.ListAll(0)
	if err != nil {
		exitWithError(ExitError, "listing courses: %v", err)
	}

	builder := vecindex.NewBuilder(provider)
	if !noProgress && humanOutput {
		builder.SetProgressReporter(vecindex.ProgressFunc(printProgress))
		fmt.Fprintf(os.Stderr, "Building vector index...\n")
	}

	stats, err := builder.Build(ctx, records, config.IndexPath(root), config.IndexMetaPath(root))
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}

	if indexSize, err := vecindex.IndexSize(config.IndexPath(root)); err == nil {
		stats.IndexSizeBytes = indexSize
	}

	if humanOutput && !noProgress {
		fmt.Fprintf(os.Stderr, "\r%s\r", "                                                  ")
	}

	if humanOutput {
		fmt.Printf("\nBuild complete:\n")
		fmt.Printf("  Courses indexed: %d\n", stats.CoursesIndexed)
		fmt.Printf("  Courses skipped: %d (description too short)\n", stats.CoursesSkipped)
		fmt.Printf("  Time elapsed: %s\n", formatDuration(stats.Duration))
		fmt.Printf("  Index size: %s\n", formatBytes(stats.IndexSizeBytes))
		fmt.Printf("  Model: %s\n", provider.ModelName())
	} else {
		outputJSON(IndexBuildResult{
			Status:          "complete",
			CoursesIndexed:  stats.CoursesIndexed,
			CoursesSkipped:  stats.CoursesSkipped,
			SkippedReason:   stats.SkippedReason,
			DurationSeconds: stats.Duration.Seconds(),
			Model:           provider.ModelName(),
			IndexSizeBytes:  stats.IndexSizeBytes,
		})
	}

	return nil
}

// IndexCheckResult is the response for index check command.
type IndexCheckResult struct {
	Status          string   `json:"status"`
	CoursesTotal    int      `json:"courses_total"`
	CoursesEligible int      `json:"courses_eligible"`
	CoursesIndexed  int      `json:"courses_indexed"`
	CoursesMissing  int      `json:"courses_missing"`
	MissingIDs      []string `json:"missing_ids,omitempty"`
	Model           string   `json:"model"`
	IndexCreated    string   `json:"index_created"`
	IndexSizeBytes  int64    `json:"index_size_bytes"`
	Recommendation  string   `json:"recommendation,omitempty"`
}

var indexCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check vector index health",
	Long:  `Check that the vector index covers the current catalogue.`,
	RunE:  runIndexCheck,
}

func runIndexCheck(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()

	idx, err := vecindex.Load(config.IndexPath(root), config.IndexMetaPath(root))
	if err != nil {
		if errors.Is(err, vecindex.ErrIndexNotFound) {
			exitWithError(ExitConfigError, "Vector index not found\n\nRun 'prospectus index build' to create the index.")
		}
		exitWithError(ExitError, "loading index: %v", err)
	}

	db := mustOpenDatabase(root)
	defer db.Close()

	totalCount, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "counting courses: %v", err)
	}
	eligibleCount, err := db.CountIndexable(vecindex.MinDescriptionLength)
	if err != nil {
		exitWithError(ExitError, "counting indexable courses: %v", err)
	}

	records, err := db.ListAll(0)
	if err != nil {
		exitWithError(ExitError, "listing courses: %v", err)
	}
	var missingIDs []string
	for _, rec := range records {
		if len(rec.Description) < vecindex.MinDescriptionLength {
			continue
		}
		if _, ok := idx.Lookup(rec.ID); !ok {
			missingIDs = append(missingIDs, rec.ID)
		}
	}

	indexSize, _ := vecindex.IndexSize(config.IndexPath(root))

	status := "healthy"
	var recommendation string
	exitCode := ExitSuccess
	if len(missingIDs) > 0 {
		status = "stale"
		recommendation = "Run 'prospectus index build' to update the index"
		exitCode = ExitIndexStale
	}

	result := IndexCheckResult{
		Status:          status,
		CoursesTotal:    totalCount,
		CoursesEligible: eligibleCount,
		CoursesIndexed:  idx.Size(),
		CoursesMissing:  len(missingIDs),
		Model:           idx.ModelName(),
		IndexCreated:    idx.CreatedAt().Format(time.RFC3339),
		IndexSizeBytes:  indexSize,
		Recommendation:  recommendation,
	}
	if len(missingIDs) > 0 && len(missingIDs) <= 10 {
		result.MissingIDs = missingIDs
	}

	if humanOutput {
		fmt.Printf("Vector Index Status: %s\n\n", status)
		fmt.Printf("Courses:\n")
		fmt.Printf("  Total in catalogue: %d\n", totalCount)
		fmt.Printf("  Eligible for indexing: %d\n", eligibleCount)
		fmt.Printf("  In vector index: %d\n", idx.Size())
		fmt.Printf("  Missing from index: %d\n", len(missingIDs))
		fmt.Printf("\nIndex Info:\n")
		fmt.Printf("  Model: %s\n", idx.ModelName())
		fmt.Printf("  Created: %s\n", idx.CreatedAt().Format("2006-01-02 15:04:05"))
		fmt.Printf("  Size: %s\n", formatBytes(indexSize))
		if recommendation != "" {
			fmt.Printf("\n%s\n", recommendation)
		}
	} else {
		outputJSON(result)
	}

	if exitCode != ExitSuccess {
		os.Exit(exitCode)
	}
	return nil
}

// printProgress prints a progress bar to stderr.
func printProgress(current, total int) {
	if total == 0 {
		return
	}
	pct := float64(current) / float64(total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * float64(current) / float64(total))
	bar := ""
	for i := 0; i < barWidth; i++ {
		if i < filled {
			bar += "="
		} else if i == filled {
			bar += ">"
		} else {
			bar += " "
		}
	}
	fmt.Fprintf(os.Stderr, "\r[%s] %d/%d (%.0f%%)", bar, current, total, pct)
}
