package synthesis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tanwee/prospectus/internal/course"
	"github.com/tanwee/prospectus/internal/resolver"
)

func testBundle() resolver.Bundle {
	return resolver.Bundle{
		Query:       "how much is the construction management course",
		Intent:      resolver.IntentFees,
		GeneratedAt: time.Now(),
		Candidates: []resolver.Candidate{
			{
				Score: 0.91,
				Course: course.Record{
					ID:          "sdcm",
					Code:        "SDCM",
					Title:       "Specialist Diploma in Construction Management",
					Description: "Covers construction project management, contracts administration and site supervision for working professionals.",
					URL:         "https://example.edu/courses/sdcm",
					Duration:    "12 months",
					Volatile: course.VolatileFields{
						Fee: course.FeeField{
							Amount:    3745,
							Currency:  "SGD",
							Freshness: course.FreshnessLiveConfirmed,
						},
						NextIntake: course.StringField{
							Value:     "14 October 2026",
							Freshness: course.FreshnessLiveConfirmed,
						},
					},
				},
			},
			{
				Score: 0.88,
				Course: course.Record{
					ID:          "sdbim",
					Code:        "SDBIM",
					Title:       "Specialist Diploma in Building Information Modelling",
					Description: "Covers BIM authoring tools and coordination workflows.",
					URL:         "https://example.edu/courses/sdbim",
					Volatile: course.VolatileFields{
						Fee: course.FeeField{
							Amount:    2900,
							Currency:  "SGD",
							Freshness: course.FreshnessLiveFailed,
						},
						NextIntake:   course.StringField{Freshness: course.FreshnessLiveFailed},
						Requirements: course.StringField{Freshness: course.FreshnessLiveFailed},
					},
				},
			},
		},
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(testBundle())

	for _, want := range []string{
		"Question: how much is the construction management course",
		"1. Specialist Diploma in Construction Management (SDCM)",
		"Fee: S$3745.00",
		"Next intake: 14 October 2026",
		"2. Specialist Diploma in Building Information Modelling (SDBIM)",
		"Fee: S$2900.00 [possibly outdated, live check failed]",
		"https://example.edu/courses/sdcm",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	// Confirmed fields carry no caveat.
	if strings.Contains(prompt, "S$3745.00 [") {
		t.Error("live-confirmed fee should have no freshness note")
	}
}

func TestBuildUserPromptCapsCandidates(t *testing.T) {
	bundle := testBundle()
	for i := 0; i < 5; i++ {
		bundle.Candidates = append(bundle.Candidates, bundle.Candidates[0])
	}

	prompt := BuildUserPrompt(bundle)
	if strings.Contains(prompt, "\n4. ") {
		t.Error("prompt should list at most three courses")
	}
}

func TestStaticSynthesizer(t *testing.T) {
	s := NewStaticSynthesizer()

	out, err := s.Synthesize(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"Found 2 matching courses",
		"Specialist Diploma in Construction Management (SDCM)",
		"[relevance 0.91]",
		"Fee: S$2900.00 (unverified)",
		"may be outdated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStaticSynthesizerEmptyBundle(t *testing.T) {
	s := NewStaticSynthesizer()

	out, err := s.Synthesize(context.Background(), resolver.Bundle{Query: "anything"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out != NoMatchAnswer {
		t.Errorf("empty bundle answer = %q, want NoMatchAnswer", out)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := truncate(long, 50)
	if len(got) > 54 {
		t.Errorf("truncate produced %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text should end with ellipsis, got %q", got)
	}
	if truncate("short", 50) != "short" {
		t.Error("short text should pass through unchanged")
	}
}
