// Package synthesis turns a resolved context bundle into a
// human-readable answer. Synthesizers see only the bundle; they never
// retrieve or fetch anything themselves.
package synthesis

import (
	"context"
	"errors"

	"github.com/tanwee/prospectus/internal/resolver"
)

// ErrSynthesis indicates the language model could not produce an
// answer. The bundle is still valid; callers can fall back to the
// static rendering.
var ErrSynthesis = errors.New("answer synthesis failed")

// Synthesizer produces an answer from a context bundle.
type Synthesizer interface {
	Synthesize(ctx context.Context, bundle resolver.Bundle) (string, error)
}

// NoMatchAnswer is returned for empty bundles by every synthesizer.
const NoMatchAnswer = "I could not find a course in the catalogue matching your question. " +
	"Try rephrasing, or browse the full course list with `prospectus catalog list`."
