package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/catalog"
	"github.com/tanwee/prospectus/internal/config"
	"github.com/tanwee/prospectus/internal/course"
)

var (
	importBrochure bool
	listLimit      int
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogGetCmd)

	catalogImportCmd.Flags().BoolVar(&importBrochure, "brochure", false, "Treat the input file as a PDF brochure")
	catalogListCmd.Flags().IntVar(&listLimit, "limit", DefaultListLimit, "Maximum number of courses to list")
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the course catalogue",
}

// ImportResponse is the response for catalog import.
type ImportResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Title  string `json:"title"`
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a course into the catalogue",
	Long: `Import a course into the catalogue.

Reads a JSON course document from the given file, or stdin when no
file is given. With --brochure the file is a PDF brochure and the
course fields are extracted from its text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()

	var rec course.Record
	if importBrochure {
		if len(args) == 0 {
			exitWithError(ExitError, "--brochure requires a file argument")
		}
		var err error
		rec, err = catalog.ImportBrochure(args[0])
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	} else {
		doc, err := readImportDocument(args)
		if err != nil {
			exitWithError(ExitError, "reading course document: %v", err)
		}
		if err := catalog.ValidateImportDocument(doc); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if err := json.Unmarshal(doc, &rec); err != nil {
			exitWithError(ExitDataError, "parsing course document: %v", err)
		}
	}

	if rec.Code == "" {
		rec.Code = course.DeriveCode(rec.Title)
	}
	if rec.ID == "" {
		rec.ID = course.DeriveID(rec.Title)
	}
	if rec.Duration == "" {
		rec.Duration = course.DeriveDuration(rec.Description)
	}
	rec.NormalizeFreshness()
	if err := rec.Validate(); err != nil {
		exitWithError(ExitDataError, "invalid course: %v", err)
	}

	existing, err := catalog.ReadAll(config.CatalogPath(root))
	if err != nil {
		exitWithError(ExitDataError, "reading catalogue: %v", err)
	}
	rec.ID = catalog.GenerateUniqueID(existing, rec.ID)

	if err := catalog.Append(config.CatalogPath(root), rec); err != nil {
		exitWithError(ExitError, "appending to catalogue: %v", err)
	}

	if humanOutput {
		successColor.Printf("Imported %s: %s\n", rec.ID, truncateString(rec.Title, ListTitleMaxLen))
	} else {
		outputJSON(ImportResponse{Status: "imported", ID: rec.ID, Title: rec.Title})
	}
	return nil
}

func readImportDocument(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses in the catalogue",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	db := mustOpenDatabase(root)
	defer db.Close()

	records, err := db.ListAll(listLimit)
	if err != nil {
		exitWithError(ExitError, "listing courses: %v", err)
	}

	if humanOutput {
		if len(records) == 0 {
			fmt.Println("Catalogue is empty.")
			return nil
		}
		printCourseListHuman(records, ListTitleMaxLen)
	} else {
		summaries := make([]CourseSummary, len(records))
		for i, rec := range records {
			summaries[i] = summarize(rec)
		}
		outputJSON(summaries)
	}
	return nil
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one course in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogGet,
}

func runCatalogGet(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	db := mustOpenDatabase(root)
	defer db.Close()

	rec, err := db.GetByID(args[0])
	if err != nil {
		exitWithError(ExitError, "looking up course: %v", err)
	}
	if rec == nil {
		rec, err = db.GetByCode(args[0])
		if err != nil {
			exitWithError(ExitError, "looking up course: %v", err)
		}
	}
	if rec == nil {
		exitWithError(ExitDataError, "course not found: %s", args[0])
	}

	if humanOutput {
		printCourseDetail(*rec)
	} else {
		outputJSON(rec)
	}
	return nil
}

func printCourseDetail(rec course.Record) {
	titleColor.Println(rec.Title)
	if rec.Code != "" {
		fmt.Printf("Code:     %s\n", rec.Code)
	}
	fmt.Printf("ID:       %s\n", rec.ID)
	if rec.Duration != "" {
		fmt.Printf("Duration: %s\n", rec.Duration)
	}
	if rec.DeliveryMode != "" {
		fmt.Printf("Delivery: %s\n", rec.DeliveryMode)
	}
	if rec.Category != "" {
		fmt.Printf("Category: %s\n", rec.Category)
	}
	v := rec.Volatile
	if v.Fee.Amount > 0 {
		fmt.Printf("Fee:      %s %.2f\n", v.Fee.Currency, v.Fee.Amount)
	}
	if v.NextIntake.Value != "" {
		fmt.Printf("Intake:   %s\n", v.NextIntake.Value)
	}
	if v.Requirements.Value != "" {
		fmt.Printf("Entry:    %s\n", wrapText(v.Requirements.Value, 60, "          "))
	}
	if rec.URL != "" {
		fmt.Printf("URL:      %s\n", rec.URL)
	}
	fmt.Printf("\n%s\n", wrapText(rec.Description, 68, ""))
}
