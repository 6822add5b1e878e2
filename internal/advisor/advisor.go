// Package advisor composes retrieval and synthesis into the
// question-answering surface the CLI and TUI talk to.
package advisor

import (
	"context"

	"github.com/tanwee/prospectus/internal/resolver"
	"github.com/tanwee/prospectus/internal/synthesis"
)

// BundleResolver resolves a question into a context bundle.
type BundleResolver interface {
	Resolve(ctx context.Context, query string) (resolver.Bundle, error)
}

// Result pairs the synthesized answer with the bundle it was built
// from, so callers can show provenance alongside the text.
type Result struct {
	Answer string          `json:"answer"`
	Bundle resolver.Bundle `json:"bundle"`
}

// Advisor answers questions about the course catalogue.
type Advisor struct {
	resolver BundleResolver
	synth    synthesis.Synthesizer
}

// New creates an Advisor.
func New(r BundleResolver, s synthesis.Synthesizer) *Advisor {
	return &Advisor{resolver: r, synth: s}
}

// Resolve exposes the raw bundle for callers that render it themselves.
func (a *Advisor) Resolve(ctx context.Context, query string) (resolver.Bundle, error) {
	return a.resolver.Resolve(ctx, query)
}

// Answer resolves the question and synthesizes an answer from the
// bundle. Retrieval errors are fatal; an empty bundle is not, it
// yields the no-match answer.
func (a *Advisor) Answer(ctx context.Context, query string) (Result, error) {
	bundle, err := a.resolver.Resolve(ctx, query)
	if err != nil {
		return Result{}, err
	}

	text, err := a.synth.Synthesize(ctx, bundle)
	if err != nil {
		return Result{}, err
	}

	return Result{Answer: text, Bundle: bundle}, nil
}
