// Package resolver turns a question into a context bundle: the
// relevant courses from the vector index with their volatile fields
// refreshed from the live source where possible.
package resolver

import (
	"sort"
	"time"

	"github.com/tanwee/prospectus/internal/course"
)

// Candidate is one retrieved course with its similarity score. The
// course carries per-field freshness reflecting the live refresh.
type Candidate struct {
	Course course.Record `json:"course"`
	Score  float32       `json:"score"`
}

// Bundle is the resolver's result for one question. It is the complete
// context handed to answer synthesis; the synthesizer sees nothing else.
type Bundle struct {
	Query       string      `json:"query"`
	Intent      Intent      `json:"intent"`
	Candidates  []Candidate `json:"candidates"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Empty reports whether no course cleared the relevance threshold.
func (b Bundle) Empty() bool {
	return len(b.Candidates) == 0
}

// Degraded reports whether any candidate carries a live-failed field.
func (b Bundle) Degraded() bool {
	for _, c := range b.Candidates {
		v := c.Course.Volatile
		for _, f := range []course.Freshness{v.Fee.Freshness, v.NextIntake.Freshness, v.Requirements.Freshness} {
			if f == course.FreshnessLiveFailed {
				return true
			}
		}
	}
	return false
}

// Top returns the highest scoring candidate, or false for an empty bundle.
func (b Bundle) Top() (Candidate, bool) {
	if len(b.Candidates) == 0 {
		return Candidate{}, false
	}
	return b.Candidates[0], true
}

// sortCandidates orders by score descending, course ID ascending on ties.
func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Course.ID < cands[j].Course.ID
	})
}
