package crawler

import (
	"context"
	"errors"
	"time"

	"btdig-scraper/fetcher"
	"btdig-scraper/models"
	"btdig-scraper/parser"

	"github.com/sirupsen/logrus"
)

// maxEmptyPages is the number of consecutive pages without name blocks
// after which the crawl treats the results as exhausted.
const maxEmptyPages = 2

// Options configures a crawl. Zero values for EndPage and MaxPages mean
// unbounded; when both are set, whichever limit is hit first stops the
// crawl.
type Options struct {
	StartPage int           // 1-based, defaults to 1
	EndPage   int           // last page to fetch, 0 = unbounded
	MaxPages  int           // maximum number of pages to fetch, 0 = unbounded
	Delay     time.Duration // wait between consecutive fetches
}

// Progress describes the state of a running crawl after one page has been
// processed
type Progress struct {
	Page         int
	RecordsSoFar int
	Percent      float64 // -1 when no bound makes the total knowable
}

// Result is the outcome of a crawl. Records holds everything accumulated
// up to the stop condition, even when the crawl was blocked or failed.
// Err is only set for StoppedByFetchError.
type Result struct {
	Records      []models.Record
	StopReason   models.StopReason
	PagesFetched int
	Err          error
}

// Crawler pages through search results sequentially, extracting records
// until a stop condition fires
type Crawler struct {
	fetcher fetcher.Fetcher
	parser  *parser.Parser

	// OnProgress, when set, is invoked after each processed page
	OnProgress func(Progress)
}

// NewCrawler creates a new Crawler instance
func NewCrawler(f fetcher.Fetcher) *Crawler {
	return &Crawler{
		fetcher: f,
		parser:  parser.NewParser(),
	}
}

// Crawl pages through results for query until a stop condition fires and
// returns the accumulated records. Termination is never an error for the
// caller: exhaustion-type stops and failures alike are reported through
// Result.StopReason, with the underlying cause in Result.Err for fetch
// failures. The context is checked at the top of each iteration so a long
// crawl can be aborted.
func (c *Crawler) Crawl(ctx context.Context, query string, opts Options) Result {
	if opts.StartPage <= 0 {
		opts.StartPage = 1
	}

	var records []models.Record
	page := opts.StartPage
	emptyStreak := 0
	pagesFetched := 0

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("Crawl cancelled at page %d", page)
			return Result{Records: records, StopReason: models.StoppedByCancel, PagesFetched: pagesFetched}
		default:
		}

		if exceedsBounds(page, opts) {
			return Result{Records: records, StopReason: models.StoppedByBound, PagesFetched: pagesFetched}
		}

		htmlContent, err := c.fetcher.FetchPage(query, page)
		if err != nil {
			logrus.Errorf("Crawl aborted: %v", err)
			return Result{Records: records, StopReason: models.StoppedByFetchError, PagesFetched: pagesFetched, Err: err}
		}
		pagesFetched++

		pageRecords, hasResults, err := c.parser.ParseHTML(htmlContent, page)
		if err != nil {
			if errors.Is(err, parser.ErrChallengeDetected) {
				logrus.Warnf("Challenge page served on page %d, stopping", page)
				return Result{Records: records, StopReason: models.StoppedByChallenge, PagesFetched: pagesFetched}
			}
			// Unparseable markup yields no records but is not terminal;
			// treat it like an empty page.
			logrus.Warnf("Failed to parse page %d: %v", page, err)
			hasResults = false
		}

		if !hasResults {
			emptyStreak++
			if emptyStreak >= maxEmptyPages {
				logrus.Infof("No results on %d consecutive pages, stopping", emptyStreak)
				return Result{Records: records, StopReason: models.StoppedByEmptyPages, PagesFetched: pagesFetched}
			}
		} else {
			emptyStreak = 0
		}

		records = append(records, pageRecords...)

		if c.OnProgress != nil {
			c.OnProgress(Progress{
				Page:         page,
				RecordsSoFar: len(records),
				Percent:      percentComplete(page, opts),
			})
		}

		page++

		// Skip the trailing wait when the next iteration terminates on a
		// page bound anyway.
		if opts.Delay > 0 && !exceedsBounds(page, opts) {
			select {
			case <-ctx.Done():
			case <-time.After(opts.Delay):
			}
		}
	}
}

// exceedsBounds reports whether page lies beyond the explicit end page or
// the page-count bound
func exceedsBounds(page int, opts Options) bool {
	if opts.EndPage > 0 && page > opts.EndPage {
		return true
	}
	if opts.MaxPages > 0 && page > opts.StartPage+opts.MaxPages-1 {
		return true
	}
	return false
}

// percentComplete computes crawl progress after processing page, or -1
// when no bound is set and the total page count is unknowable
func percentComplete(page int, opts Options) float64 {
	lastPage := 0
	if opts.EndPage > 0 {
		lastPage = opts.EndPage
	}
	if opts.MaxPages > 0 {
		byCount := opts.StartPage + opts.MaxPages - 1
		if lastPage == 0 || byCount < lastPage {
			lastPage = byCount
		}
	}
	if lastPage == 0 {
		return -1
	}

	total := lastPage - opts.StartPage + 1
	done := page - opts.StartPage + 1
	return float64(done) / float64(total) * 100
}
