package vecindex

import (
	"context"
	"fmt"
	"time"

	"github.com/tanwee/prospectus/internal/course"
	"github.com/tanwee/prospectus/internal/embedding"
)

// ProgressReporter receives progress updates during index building.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Builder constructs the index artifact from catalog course records.
type Builder struct {
	provider embedding.Provider
	progress ProgressReporter
}

// NewBuilder creates a new index builder.
func NewBuilder(provider embedding.Provider) *Builder {
	return &Builder{provider: provider}
}

// SetProgressReporter sets the progress reporter for the builder.
func (b *Builder) SetProgressReporter(reporter ProgressReporter) {
	b.progress = reporter
}

// Build embeds every course with a usable description and writes the
// vector file and metadata file to the given paths. Courses with too
// little descriptive text are skipped; skipped courses do not get an
// ordinal, keeping the vector/metadata bijection intact.
func (b *Builder) Build(ctx context.Context, records []course.Record, indexPath, metaPath string) (*BuildStats, error) {
	startTime := time.Now()

	stats := &BuildStats{SkippedReason: "short_description"}

	var vectors [][]float32
	var indexed []course.Record

	total := len(records)
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if b.progress != nil {
			b.progress.OnProgress(i+1, total)
		}

		if len(rec.Description) < MinDescriptionLength {
			stats.CoursesSkipped++
			continue
		}

		emb, err := b.provider.Embed(ctx, rec.EmbedText())
		if err != nil {
			return nil, fmt.Errorf("embedding course %s: %w", rec.ID, err)
		}
		if len(emb.Vector) != b.provider.Dimensions() {
			return nil, fmt.Errorf("%w: course %s embedded to %d dimensions, want %d",
				ErrDimensionMismatch, rec.ID, len(emb.Vector), b.provider.Dimensions())
		}

		rec.NormalizeFreshness()
		vectors = append(vectors, emb.Vector)
		indexed = append(indexed, rec)
		stats.CoursesIndexed++
	}

	meta := Metadata{
		ModelName:  b.provider.ModelName(),
		Dimensions: b.provider.Dimensions(),
		CreatedAt:  time.Now(),
		Courses:    indexed,
	}

	if err := Write(indexPath, metaPath, meta, vectors); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(startTime)
	if size, err := IndexSize(indexPath); err == nil {
		stats.IndexSizeBytes = size
	}

	return stats, nil
}
