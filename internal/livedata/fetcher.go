// Package livedata fetches volatile course fields from the official
// course pages. It is a boundary: callers must treat every failure as a
// signal to fall back to static catalog values, never as a request
// failure.
package livedata

import (
	"context"

	"github.com/tanwee/prospectus/internal/course"
)

// Money is a fee amount with its currency code.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// FieldSet is the partial set of volatile fields a fetch produced.
// A nil pointer means the source did not yield that field; it is not an
// error and must not downgrade the field's freshness.
type FieldSet struct {
	Fee          *Money  `json:"fee,omitempty"`
	NextIntake   *string `json:"next_intake,omitempty"`
	Requirements *string `json:"requirements,omitempty"`
}

// Empty reports whether the fetch yielded no fields at all.
func (fs FieldSet) Empty() bool {
	return fs.Fee == nil && fs.NextIntake == nil && fs.Requirements == nil
}

// Fetcher retrieves current volatile fields for a course.
type Fetcher interface {
	// FetchVolatile fetches whatever volatile fields the live source
	// exposes for the course. The context carries the per-call
	// deadline; implementations must respect it.
	FetchVolatile(ctx context.Context, rec course.Record) (FieldSet, error)
}
