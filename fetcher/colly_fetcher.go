package fetcher

import (
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher() *CollyFetcher {
	c := colly.NewCollector()

	// Pacing between pages is handled by the crawl loop; this limit only
	// guards against accidental bursts.
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*btdig.com",
		Parallelism: 1,
		Delay:       500 * time.Millisecond,
	})

	return &CollyFetcher{
		collector: c,
	}
}

// FetchPage implements the Fetcher interface
func (cf *CollyFetcher) FetchPage(query string, page int) (string, error) {
	// Clone per call so the visited-URL cache does not suppress refetches
	// of the same page across separate crawls.
	c := cf.collector.Clone()

	var body string
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		logrus.Warnf("Error fetching %s: %v", r.Request.URL, err)
		fetchErr = &FetchError{Page: page, Cause: err}
	})

	if err := c.Visit(BuildSearchURL(query, page)); err != nil && fetchErr == nil {
		fetchErr = &FetchError{Page: page, Cause: err}
	}
	c.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}

	return body, nil
}
