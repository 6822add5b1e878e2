package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultListLimit, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the catalogue",
	Long: `Full-text search over course codes, titles, descriptions and
categories. For meaning-based retrieval use 'prospectus resolve'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	db := mustOpenDatabase(root)
	defer db.Close()

	query := strings.Join(args, " ")
	records, err := db.Search(query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(records) == 0 {
			fmt.Printf("No courses match %q.\n", query)
			return nil
		}
		printCourseListHuman(records, SearchTitleMaxLen)
	} else {
		summaries := make([]CourseSummary, len(records))
		for i, rec := range records {
			summaries[i] = summarize(rec)
		}
		outputJSON(summaries)
	}
	return nil
}
