package livedata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tanwee/prospectus/internal/course"
)

const (
	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 10 * time.Second

	// PageRateLimit is the request rate against the course site. The
	// site is a shared institutional server, so this stays low.
	PageRateLimit = 4.0

	// maxPageBytes caps how much of a course page is read.
	maxPageBytes = 2 << 20

	userAgent = "prospectus/1.0"
)

// Course pages render fields as free text, so extraction is pattern
// based rather than structural.
var (
	feePattern = regexp.MustCompile(`S\$\s?([\d,]+\.\d{2})`)

	intakePattern = regexp.MustCompile(
		`(?i)(?:next\s+intake|intake|commencement|start\s+date)[:\s]*` +
			`((?:\d{1,2}\s+)?(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|` +
			`Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s+\d{4})`)

	requirementsPattern = regexp.MustCompile(
		`(?is)(?:entry\s+requirements?|admission\s+requirements?|who\s+should\s+attend)[:\s]*(.{20,400}?)(?:\.\s|\n\n|$)`)

	tagPattern    = regexp.MustCompile(`(?s)<(?:script|style)[^>]*>.*?</(?:script|style)>|<[^>]+>`)
	spacePattern  = regexp.MustCompile(`[ \t\r\f]+`)
	blankPattern  = regexp.MustCompile(`\n{3,}`)
	entityReplace = strings.NewReplacer("&amp;", "&", "&nbsp;", " ", "&lt;", "<", "&gt;", ">", "&#39;", "'", "&quot;", `"`)
)

// PageFetcher fetches a course's official page and extracts volatile
// fields from its text. It implements Fetcher.
type PageFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// PageFetcherOption configures a PageFetcher.
type PageFetcherOption func(*PageFetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) PageFetcherOption {
	return func(f *PageFetcher) {
		f.httpClient = hc
	}
}

// WithTimeout sets the per-fetch deadline.
func WithTimeout(d time.Duration) PageFetcherOption {
	return func(f *PageFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewPageFetcher creates a rate-limited page fetcher.
func NewPageFetcher(opts ...PageFetcherOption) *PageFetcher {
	f := &PageFetcher{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(PageRateLimit), 1),
		timeout:    DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchVolatile fetches the course page and extracts whatever volatile
// fields it can find. Fields the page does not mention come back nil.
func (f *PageFetcher) FetchVolatile(ctx context.Context, rec course.Record) (FieldSet, error) {
	if rec.URL == "" {
		return FieldSet{}, &FetchError{CourseID: rec.ID, Err: fmt.Errorf("%w: course has no URL", ErrFetchUnavailable)}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx); err != nil {
		return FieldSet{}, classify(rec.ID, rec.URL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.URL, nil)
	if err != nil {
		return FieldSet{}, &FetchError{CourseID: rec.ID, URL: rec.URL, Err: fmt.Errorf("%w: %v", ErrFetchUnavailable, err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return FieldSet{}, classify(rec.ID, rec.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FieldSet{}, &FetchError{
			CourseID:   rec.ID,
			URL:        rec.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: HTTP %d", ErrFetchUnavailable, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return FieldSet{}, classify(rec.ID, rec.URL, err)
	}

	return ExtractFields(string(body)), nil
}

// ExtractFields pulls volatile fields out of raw page HTML or text.
func ExtractFields(page string) FieldSet {
	text := stripMarkup(page)

	var fs FieldSet
	if m := feePattern.FindStringSubmatch(text); m != nil {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			fs.Fee = &Money{Amount: amount, Currency: "SGD"}
		}
	}
	if m := intakePattern.FindStringSubmatch(text); m != nil {
		intake := strings.TrimSpace(m[1])
		fs.NextIntake = &intake
	}
	if m := requirementsPattern.FindStringSubmatch(text); m != nil {
		req := strings.TrimSpace(spacePattern.ReplaceAllString(strings.ReplaceAll(m[1], "\n", " "), " "))
		if req != "" {
			fs.Requirements = &req
		}
	}
	return fs
}

// stripMarkup reduces an HTML page to plain text for pattern matching.
func stripMarkup(page string) string {
	text := tagPattern.ReplaceAllString(page, "\n")
	text = entityReplace.Replace(text)
	text = spacePattern.ReplaceAllString(text, " ")
	text = blankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
