package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanwee/prospectus/internal/course"
	"github.com/tanwee/prospectus/internal/resolver"
)

// StaticSynthesizer renders the bundle as plain text without a
// language model. It backs `resolve --human` and is the fallback when
// no API key is configured.
type StaticSynthesizer struct{}

// NewStaticSynthesizer creates a template-based synthesizer.
func NewStaticSynthesizer() *StaticSynthesizer {
	return &StaticSynthesizer{}
}

// Synthesize renders the top candidates as a readable listing.
func (s *StaticSynthesizer) Synthesize(ctx context.Context, bundle resolver.Bundle) (string, error) {
	if bundle.Empty() {
		return NoMatchAnswer, nil
	}

	var b strings.Builder
	if len(bundle.Candidates) == 1 {
		b.WriteString("Found 1 matching course:\n")
	} else {
		fmt.Fprintf(&b, "Found %d matching courses:\n", len(bundle.Candidates))
	}

	n := len(bundle.Candidates)
	if n > maxPromptCandidates {
		n = maxPromptCandidates
	}
	for i := 0; i < n; i++ {
		c := bundle.Candidates[i]
		rec := c.Course

		fmt.Fprintf(&b, "\n%d. %s", i+1, rec.Title)
		if rec.Code != "" {
			fmt.Fprintf(&b, " (%s)", rec.Code)
		}
		fmt.Fprintf(&b, "  [relevance %.2f]\n", c.Score)

		v := rec.Volatile
		if v.Fee.Amount > 0 {
			fmt.Fprintf(&b, "   Fee: %s%.2f%s\n", currencySymbol(v.Fee.Currency), v.Fee.Amount, staticNote(v.Fee.Freshness))
		}
		if v.NextIntake.Value != "" {
			fmt.Fprintf(&b, "   Next intake: %s%s\n", v.NextIntake.Value, staticNote(v.NextIntake.Freshness))
		}
		if rec.Duration != "" {
			fmt.Fprintf(&b, "   Duration: %s\n", rec.Duration)
		}
		if rec.URL != "" {
			fmt.Fprintf(&b, "   More: %s\n", rec.URL)
		}
	}

	if bundle.Degraded() {
		b.WriteString("\nNote: some details could not be verified against the course site and may be outdated.\n")
	}

	return b.String(), nil
}

func staticNote(f course.Freshness) string {
	if f == course.FreshnessLiveFailed {
		return " (unverified)"
	}
	return ""
}
