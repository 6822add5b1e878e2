package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tanwee/prospectus/internal/course"
	"github.com/tanwee/prospectus/internal/embedding"
	"github.com/tanwee/prospectus/internal/livedata"
	"github.com/tanwee/prospectus/internal/vecindex"
)

// ErrEmbeddingUnavailable indicates the query could not be embedded, so
// no retrieval happened at all. Unlike a live fetch failure this is
// fatal for the request.
var ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

const (
	// DefaultTopK is the number of candidates retrieved per question.
	DefaultTopK = 5

	// DefaultThreshold is the minimum cosine similarity for a course
	// to enter the bundle.
	DefaultThreshold float32 = 0.5

	// DefaultFetchTimeout bounds each candidate's live refresh.
	DefaultFetchTimeout = 10 * time.Second
)

// Options configures a Resolver.
type Options struct {
	TopK int

	// Threshold overrides DefaultThreshold when non-nil. Zero is a
	// legal value; it admits every non-negative hit.
	Threshold *float32

	FetchTimeout time.Duration

	// DegradedFunc is called once per candidate whose live refresh
	// failed, after the bundle's freshness flags are set. Nil is fine.
	DegradedFunc func(courseID string, err error)
}

// Resolver retrieves candidate courses and refreshes their volatile
// fields for one question at a time.
type Resolver struct {
	index     *vecindex.Index
	provider  embedding.Provider
	fetcher   livedata.Fetcher
	threshold float32
	opts      Options
}

// New creates a Resolver. The provider must emit vectors of the
// index's dimensionality; a mismatch fails here rather than on every
// later query. A nil fetcher disables live refresh; every candidate
// then stays at its static catalog values.
func New(index *vecindex.Index, provider embedding.Provider, fetcher livedata.Fetcher, opts Options) (*Resolver, error) {
	if provider.Dimensions() != index.Dimensions() {
		return nil, fmt.Errorf("%w: provider %q emits %d-dimensional vectors, index was built with %d",
			vecindex.ErrDimensionMismatch, provider.ModelName(), provider.Dimensions(), index.Dimensions())
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	threshold := DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Resolver{index: index, provider: provider, fetcher: fetcher, threshold: threshold, opts: opts}, nil
}

// Resolve answers one question with a context bundle. An empty bundle
// is a valid result meaning nothing in the catalog was relevant; only
// an unembeddable query is an error.
func (r *Resolver) Resolve(ctx context.Context, query string) (Bundle, error) {
	bundle := Bundle{
		Query:       query,
		Intent:      DetectIntent(query),
		GeneratedAt: time.Now().UTC(),
	}

	emb, err := r.provider.Embed(ctx, EnrichQuery(query, bundle.Intent))
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			return Bundle{}, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
		}
		return Bundle{}, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := r.index.Search(emb.Vector, r.opts.TopK)
	if err != nil {
		return Bundle{}, fmt.Errorf("searching index: %w", err)
	}

	for _, hit := range hits {
		if hit.Score < r.threshold {
			continue
		}
		rec, ok := r.index.Record(hit.Ordinal)
		if !ok {
			return Bundle{}, fmt.Errorf("index returned unknown ordinal %d", hit.Ordinal)
		}
		bundle.Candidates = append(bundle.Candidates, Candidate{Course: rec, Score: hit.Score})
	}

	if r.fetcher != nil && len(bundle.Candidates) > 0 {
		r.refresh(ctx, bundle.Candidates)
	}

	sortCandidates(bundle.Candidates)
	return bundle, nil
}

// refresh fetches volatile fields for every candidate concurrently.
// Each fetch gets its own deadline so one slow page cannot starve the
// rest of the bundle.
func (r *Resolver) refresh(ctx context.Context, cands []Candidate) {
	var wg sync.WaitGroup
	for i := range cands {
		wg.Add(1)
		go func(c *Candidate) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, r.opts.FetchTimeout)
			defer cancel()

			fields, err := r.fetcher.FetchVolatile(fetchCtx, c.Course)
			if err != nil {
				markLiveFailed(&c.Course.Volatile)
				if r.opts.DegradedFunc != nil {
					r.opts.DegradedFunc(c.Course.ID, err)
				}
				return
			}
			mergeFields(&c.Course.Volatile, fields)
		}(&cands[i])
	}
	wg.Wait()
}

// mergeFields applies fetched values onto the candidate's volatile
// fields. Fields the fetch produced become live-confirmed; fields it
// did not produce keep their static values and static-only freshness.
func mergeFields(v *course.VolatileFields, fields livedata.FieldSet) {
	if fields.Fee != nil {
		v.Fee.Amount = fields.Fee.Amount
		v.Fee.Currency = fields.Fee.Currency
		v.Fee.Freshness = course.FreshnessLiveConfirmed
	}
	if fields.NextIntake != nil {
		v.NextIntake.Value = *fields.NextIntake
		v.NextIntake.Freshness = course.FreshnessLiveConfirmed
	}
	if fields.Requirements != nil {
		v.Requirements.Value = *fields.Requirements
		v.Requirements.Freshness = course.FreshnessLiveConfirmed
	}
}

// markLiveFailed downgrades every volatile field after a failed fetch.
// Static values stay in place so answers can still cite them, flagged
// as possibly stale.
func markLiveFailed(v *course.VolatileFields) {
	v.Fee.Freshness = course.FreshnessLiveFailed
	v.NextIntake.Freshness = course.FreshnessLiveFailed
	v.Requirements.Freshness = course.FreshnessLiveFailed
}
