// Package crawl retrieves pages of candidate listings and extracts raw text
// blocks using CSS selectors. It is the boundary to the scraping
// collaborator: the pipeline consumes only "given a URL and a selector,
// return raw text blocks" and treats everything here as external.
package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CVScout/1.0)"

// DefaultPageDelay spaces out successive page fetches to stay polite with
// the source site.
const DefaultPageDelay = 3 * time.Second

// noResultsIndicators mark pages that rendered fine but carry no listings.
var noResultsIndicators = []string{
	"No Results Found",
	"No candidates found",
	"No profiles available",
	"0 results",
}

// Block is one raw text block extracted from a page, typically one
// candidate listing. Position is the zero-based arrival index across the
// whole fetch.
type Block struct {
	SourceURL string
	Position  int
	Text      string
}

// Error represents a fetch failure: unreachable page, bad status, or a
// selector that matched nothing on the first page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Source is the narrow interface the pipeline consumes.
type Source interface {
	Fetch(ctx context.Context, pageURL, selector string, pageLimit int) ([]Block, error)
}

// Options configures fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	PageDelay  time.Duration
	UseBrowser bool // render JS-heavy pages in a headless browser
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		PageDelay: DefaultPageDelay,
	}
}

// Fetcher implements Source over plain HTTP with an optional headless
// browser fallback for pages that render their content client-side.
type Fetcher struct {
	opts   *Options
	client *http.Client
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts *Options) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Fetcher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Fetch retrieves up to pageLimit pages starting at pageURL and returns one
// Block per selector match, in document order. It stops early when a page
// reports no results or yields no matches. A selector that matches nothing
// on the first page is an *Error; running out of results on later pages is
// normal termination.
func (f *Fetcher) Fetch(ctx context.Context, pageURL, selector string, pageLimit int) ([]Block, error) {
	if pageLimit < 1 {
		pageLimit = 1
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: pageURL, Message: "invalid URL", Cause: err}
	}

	var blocks []Block
	for page := 1; page <= pageLimit; page++ {
		if page > 1 {
			if err := sleepCtx(ctx, f.opts.PageDelay); err != nil {
				return blocks, err
			}
		}

		html, err := f.fetchHTML(ctx, pagedURL(parsed, page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			// Later pages failing just ends pagination.
			break
		}

		if hasNoResults(html) {
			break
		}

		pageBlocks, err := ExtractBlocks(html, selector)
		if err != nil {
			return nil, &Error{URL: pageURL, Message: "failed to parse HTML", Cause: err}
		}
		if len(pageBlocks) == 0 {
			if page == 1 {
				return nil, &Error{URL: pageURL, Message: fmt.Sprintf("selector %q matched nothing", selector)}
			}
			break
		}

		base := len(blocks)
		for i, text := range pageBlocks {
			blocks = append(blocks, Block{
				SourceURL: pagedURL(parsed, page),
				Position:  base + i,
				Text:      text,
			})
		}
	}

	return blocks, nil
}

// fetchHTML retrieves page HTML, falling back to browser rendering when the
// plain response looks like an unrendered SPA shell.
func (f *Fetcher) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	html := string(body)
	if f.opts.UseBrowser && ShouldUseBrowser(html) {
		rendered, err := WithBrowser(ctx, pageURL, f.opts.Timeout)
		if err != nil {
			return "", &Error{URL: pageURL, Message: "browser rendering failed", Cause: err}
		}
		return rendered, nil
	}

	return html, nil
}

// ExtractBlocks returns the cleaned text of every selector match in the
// HTML, in document order.
func ExtractBlocks(html, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript").Remove()

	var blocks []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		text := cleanWhitespace(s.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})

	return blocks, nil
}

// pagedURL adds the page query parameter for pages beyond the first.
func pagedURL(base *url.URL, page int) string {
	if page <= 1 {
		return base.String()
	}
	paged := *base
	q := paged.Query()
	q.Set("p", strconv.Itoa(page))
	paged.RawQuery = q.Encode()
	return paged.String()
}

func hasNoResults(html string) bool {
	for _, indicator := range noResultsIndicators {
		if strings.Contains(html, indicator) {
			return true
		}
	}
	return false
}

// cleanWhitespace collapses runs of whitespace within lines and drops empty
// lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
