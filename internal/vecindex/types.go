// Package vecindex provides the on-disk vector index over course
// descriptions and nearest-neighbor search used for query resolution.
package vecindex

import (
	"time"

	"github.com/tanwee/prospectus/internal/course"
)

// Index is the immutable pairing of an embedding matrix and its
// ordinal-aligned course metadata, loaded once at startup. It carries no
// locks: after Load returns, nothing mutates it, so concurrent readers
// need no synchronization.
type Index struct {
	modelName  string
	dimensions int
	createdAt  time.Time

	// vectors[i] is the embedding of records[i]; ordinals are dense
	// zero-based positions valid for the lifetime of one build.
	vectors [][]float32
	records []course.Record

	// byID maps course identifiers to their ordinal position.
	byID map[string]int
}

// Hit is a single search result: the ordinal of the matched entry and
// its cosine similarity to the query. Higher scores are more similar.
type Hit struct {
	Ordinal int     `json:"ordinal"`
	Score   float32 `json:"score"`
}

// Metadata is the companion document stored alongside the vector file.
// Courses are ordinal-aligned with the vectors: Courses[i] describes
// vector i.
type Metadata struct {
	Version    int             `json:"version"`
	ModelName  string          `json:"model_name"`
	Dimensions int             `json:"dimensions"`
	CreatedAt  time.Time       `json:"created_at"`
	Courses    []course.Record `json:"courses"`
}

// BuildStats contains statistics from index building.
type BuildStats struct {
	CoursesIndexed int           `json:"courses_indexed"`
	CoursesSkipped int           `json:"courses_skipped"`
	SkippedReason  string        `json:"skipped_reason"`
	Duration       time.Duration `json:"duration"`
	IndexSizeBytes int64         `json:"index_size_bytes"`
}

// ModelName returns the embedding model the index was built with.
func (idx *Index) ModelName() string { return idx.modelName }

// Dimensions returns the vector dimensionality of the index.
func (idx *Index) Dimensions() int { return idx.dimensions }

// CreatedAt returns when the index artifact was built.
func (idx *Index) CreatedAt() time.Time { return idx.createdAt }

// Size returns the number of indexed entries.
func (idx *Index) Size() int { return len(idx.vectors) }

// Record returns the course record at the given ordinal. The boolean is
// false when the ordinal is out of range.
func (idx *Index) Record(ordinal int) (course.Record, bool) {
	if ordinal < 0 || ordinal >= len(idx.records) {
		return course.Record{}, false
	}
	return idx.records[ordinal], true
}

// Lookup returns the ordinal for a course ID.
func (idx *Index) Lookup(id string) (int, bool) {
	ord, ok := idx.byID[id]
	return ord, ok
}

// Records returns a copy of the ordinal-aligned course records.
func (idx *Index) Records() []course.Record {
	out := make([]course.Record, len(idx.records))
	copy(out, idx.records)
	return out
}
