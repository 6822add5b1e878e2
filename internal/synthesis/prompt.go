package synthesis

import (
	"fmt"
	"strings"

	"github.com/tanwee/prospectus/internal/course"
	"github.com/tanwee/prospectus/internal/resolver"
)

// maxPromptCandidates caps how many courses go into the prompt. The
// model answers about one or two; more is noise and token cost.
const maxPromptCandidates = 3

const systemPrompt = `You are a course advisor for a professional education institute.
Answer using ONLY the course information provided. Do not invent fees,
dates or requirements. When a field is marked "possibly outdated",
say so and point the reader at the course page. Keep answers short and
concrete. If asked about something outside the provided courses, say
the catalogue does not cover it.`

// SystemPrompt returns the advisor system message.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders the bundle into the user message for the
// chat model. Each candidate becomes a numbered block with its
// volatile fields annotated by freshness.
func BuildUserPrompt(bundle resolver.Bundle) string {
	var b strings.Builder

	b.WriteString("Question: ")
	b.WriteString(bundle.Query)
	b.WriteString("\n\nRelevant courses:\n")

	n := len(bundle.Candidates)
	if n > maxPromptCandidates {
		n = maxPromptCandidates
	}
	for i := 0; i < n; i++ {
		writeCandidate(&b, i+1, bundle.Candidates[i])
	}

	return b.String()
}

func writeCandidate(b *strings.Builder, num int, c resolver.Candidate) {
	rec := c.Course
	fmt.Fprintf(b, "\n%d. %s", num, rec.Title)
	if rec.Code != "" {
		fmt.Fprintf(b, " (%s)", rec.Code)
	}
	b.WriteString("\n")

	if rec.Duration != "" {
		fmt.Fprintf(b, "   Duration: %s\n", rec.Duration)
	}
	if rec.DeliveryMode != "" {
		fmt.Fprintf(b, "   Delivery: %s\n", rec.DeliveryMode)
	}

	v := rec.Volatile
	if v.Fee.Amount > 0 {
		fmt.Fprintf(b, "   Fee: %s%.2f%s\n", currencySymbol(v.Fee.Currency), v.Fee.Amount, freshnessNote(v.Fee.Freshness))
	}
	if v.NextIntake.Value != "" {
		fmt.Fprintf(b, "   Next intake: %s%s\n", v.NextIntake.Value, freshnessNote(v.NextIntake.Freshness))
	}
	if v.Requirements.Value != "" {
		fmt.Fprintf(b, "   Requirements: %s%s\n", v.Requirements.Value, freshnessNote(v.Requirements.Freshness))
	}

	fmt.Fprintf(b, "   Summary: %s\n", truncate(rec.Description, 400))
	if rec.URL != "" {
		fmt.Fprintf(b, "   Course page: %s\n", rec.URL)
	}
}

// freshnessNote annotates a field value for the model. Confirmed
// fields carry no note; the distinction only matters when it could
// mislead.
func freshnessNote(f course.Freshness) string {
	switch f {
	case course.FreshnessLiveFailed:
		return " [possibly outdated, live check failed]"
	case course.FreshnessStaticOnly:
		return " [from catalogue, not verified today]"
	default:
		return ""
	}
}

func currencySymbol(code string) string {
	switch code {
	case "SGD", "":
		return "S$"
	default:
		return code + " "
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := strings.LastIndex(s[:max], " ")
	if cut <= 0 {
		cut = max
	}
	return s[:cut] + "..."
}
