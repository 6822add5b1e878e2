package catalog

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tanwee/prospectus/internal/course"
)

// brochureMaxPages bounds how much of a brochure is read. Course
// brochures front-load the description; later pages are forms and
// boilerplate.
const brochureMaxPages = 5

// ImportBrochure extracts a course record from a PDF brochure. The
// caller fills in the URL and any volatile fields afterwards.
func ImportBrochure(filePath string) (course.Record, error) {
	text, err := extractBrochureText(filePath, brochureMaxPages)
	if err != nil {
		return course.Record{}, fmt.Errorf("reading brochure: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return course.Record{}, fmt.Errorf("brochure %s contains no extractable text", filePath)
	}

	title := firstSubstantialLine(text)
	if title == "" {
		return course.Record{}, fmt.Errorf("brochure %s has no recognizable title", filePath)
	}

	rec := course.Record{
		Title:       title,
		Description: collapseWhitespace(text),
	}
	rec.Code = course.DeriveCode(title)
	rec.ID = course.DeriveID(title)
	rec.Duration = course.DeriveDuration(text)
	rec.NormalizeFreshness()
	return rec, nil
}

func extractBrochureText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// firstSubstantialLine returns the first line long enough to be a
// course title, skipping letterhead and page furniture.
func firstSubstantialLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 15 && !isFurnitureLine(line) {
			return line
		}
	}
	return ""
}

func isFurnitureLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "page ") {
		return true
	}
	if strings.HasPrefix(lower, "www.") || strings.HasPrefix(lower, "http") {
		return true
	}
	return false
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
