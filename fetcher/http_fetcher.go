package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPFetcher implements the Fetcher interface using net/http
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFetcher creates a new HTTPFetcher instance
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: searchBaseURL,
	}
}

// FetchPage implements the Fetcher interface
func (hf *HTTPFetcher) FetchPage(query string, page int) (string, error) {
	searchURL := buildSearchURL(hf.baseURL, query, page)

	resp, err := hf.client.Get(searchURL)
	if err != nil {
		return "", &FetchError{Page: page, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{
			Page:  page,
			Cause: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Page: page, Cause: err}
	}

	logrus.Debugf("Fetched page %d: %s (%d bytes)", page, searchURL, len(body))

	return string(body), nil
}
