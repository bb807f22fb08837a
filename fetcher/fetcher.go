package fetcher

import (
	"fmt"
	"net/url"
	"strconv"
)

// Fetcher interface defines the contract for page fetching implementations
type Fetcher interface {
	// FetchPage retrieves the raw HTML of one search results page.
	// page is 1-based. A non-success HTTP status or transport failure
	// is returned as a *FetchError.
	FetchPage(query string, page int) (string, error)
}

// FetchError signals that a page could not be retrieved. The crawl is
// aborted on the first occurrence; there are no retries.
type FetchError struct {
	Page  int
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch page %d: %v", e.Page, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

const searchBaseURL = "https://en.btdig.com/search"

// BuildSearchURL constructs the search URL for a query and 1-based page
// number. The query is percent-encoded and order=2 selects the fixed
// result ordering that the site expects.
func BuildSearchURL(query string, page int) string {
	return buildSearchURL(searchBaseURL, query, page)
}

func buildSearchURL(base, query string, page int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("p", strconv.Itoa(page))
	params.Set("order", "2")
	return base + "?" + params.Encode()
}
