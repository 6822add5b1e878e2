// Package course defines the core domain types for catalog courses.
package course

import (
	"fmt"
	"regexp"
	"strings"
)

// Freshness indicates whether a volatile field value reflects a live refresh.
type Freshness string

const (
	// FreshnessStaticOnly means the value comes from the catalog build and
	// no live refresh has been attempted.
	FreshnessStaticOnly Freshness = "static-only"

	// FreshnessLiveConfirmed means the value was overwritten by a
	// successful live fetch during the current request.
	FreshnessLiveConfirmed Freshness = "live-confirmed"

	// FreshnessLiveFailed means a live refresh was attempted and failed;
	// the value is the last-known static one.
	FreshnessLiveFailed Freshness = "live-failed"
)

// Valid reports whether f is a known freshness value.
func (f Freshness) Valid() bool {
	switch f {
	case FreshnessStaticOnly, FreshnessLiveConfirmed, FreshnessLiveFailed:
		return true
	}
	return false
}

// FeeField is a course fee with its freshness flag.
type FeeField struct {
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Freshness Freshness `json:"freshness"`
}

// StringField is a free-text volatile value with its freshness flag.
type StringField struct {
	Value     string    `json:"value"`
	Freshness Freshness `json:"freshness"`
}

// VolatileFields groups the course attributes that may change between
// catalog builds. Each field carries its own freshness flag so a partial
// live refresh can be represented faithfully.
type VolatileFields struct {
	Fee          FeeField    `json:"fee"`
	NextIntake   StringField `json:"next_intake"`
	Requirements StringField `json:"requirements"`
}

// Record represents a single course in the catalog.
//
// ID is immutable once assigned and stable across index rebuilds. Static
// fields (Title, Description, Duration, DeliveryMode, Category) are fixed
// at catalog-build time; only the Volatile fields may be overwritten in
// place during a request.
type Record struct {
	// Identity
	ID   string `json:"id"`   // Stable identifier (derived course code or slug)
	Code string `json:"code"` // Published course/event code, e.g. "SDCM" or "BIM201"

	// Static descriptive fields
	Title       string `json:"title"`
	Description string `json:"description"` // Text used for semantic matching
	URL         string `json:"url"`         // Official course page (live fetch target)

	// Static structured fields
	Duration     string `json:"duration,omitempty"`      // e.g. "9 months"
	DeliveryMode string `json:"delivery_mode,omitempty"` // e.g. "part-time evening"
	Category     string `json:"category,omitempty"`      // e.g. "diploma", "modular certificate"

	// Volatile fields, refreshed per request when possible
	Volatile VolatileFields `json:"volatile"`
}

// EmbedText returns the text embedded for semantic matching.
// Title and description are concatenated so short descriptions still
// carry the programme name.
func (r Record) EmbedText() string {
	if r.Description == "" {
		return r.Title
	}
	return r.Title + "\n" + r.Description
}

// Validate checks the record's invariants. It is called on catalog import
// and again when index metadata is loaded.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("course has empty id (title: %q)", r.Title)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("course %s has empty title", r.ID)
	}
	for name, f := range map[string]Freshness{
		"fee":          r.Volatile.Fee.Freshness,
		"next_intake":  r.Volatile.NextIntake.Freshness,
		"requirements": r.Volatile.Requirements.Freshness,
	} {
		if f != "" && !f.Valid() {
			return fmt.Errorf("course %s has invalid freshness %q for %s", r.ID, f, name)
		}
	}
	return nil
}

// NormalizeFreshness sets empty freshness flags to static-only.
// Catalog files written by older builds omit the flags entirely.
func (r *Record) NormalizeFreshness() {
	if r.Volatile.Fee.Freshness == "" {
		r.Volatile.Fee.Freshness = FreshnessStaticOnly
	}
	if r.Volatile.NextIntake.Freshness == "" {
		r.Volatile.NextIntake.Freshness = FreshnessStaticOnly
	}
	if r.Volatile.Requirements.Freshness == "" {
		r.Volatile.Requirements.Freshness = FreshnessStaticOnly
	}
}

var (
	// codePattern matches published course codes like "BIM201" or "CM45001".
	codePattern = regexp.MustCompile(`\b[A-Z]{2,5}\d{2,5}\b`)

	// acronymPattern matches a parenthesized programme acronym like "(SDCM)".
	acronymPattern = regexp.MustCompile(`\(([A-Z]{3,5})\)`)

	slugCleanPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// DeriveCode extracts a course code from a title, preferring an explicit
// alphanumeric code over a parenthesized acronym. Returns "" if neither
// is present.
func DeriveCode(title string) string {
	if m := codePattern.FindString(title); m != "" {
		return m
	}
	if m := acronymPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// DeriveID produces a stable identifier for a course. The published code
// wins when present; otherwise the title is slugified. IDs must not
// change across catalog rebuilds, so this function must stay
// deterministic.
func DeriveID(title string) string {
	if code := DeriveCode(title); code != "" {
		return strings.ToLower(code)
	}
	slug := slugCleanPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// DeriveDuration extracts a duration phrase like "9 months" from free
// text. Returns "" when no duration is stated.
func DeriveDuration(text string) string {
	m := durationPattern.FindString(text)
	return strings.TrimSpace(m)
}

var durationPattern = regexp.MustCompile(`(?i)\d+\s*(?:month|year)s?\b`)
