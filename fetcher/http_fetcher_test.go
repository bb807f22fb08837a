package fetcher

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func TestBuildSearchURL(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
	}{
		{"plain query", "ubuntu", 1},
		{"query with spaces", "ubuntu 24.04 iso", 3},
		{"query with reserved characters", "c++ & go?", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := BuildSearchURL(tt.query, tt.page)

			u, err := url.Parse(raw)
			if err != nil {
				t.Fatalf("BuildSearchURL() produced unparseable URL %q: %v", raw, err)
			}
			if u.Scheme != "https" || u.Host != "en.btdig.com" || u.Path != "/search" {
				t.Errorf("URL = %q, want https://en.btdig.com/search", raw)
			}

			params := u.Query()
			if got := params.Get("q"); got != tt.query {
				t.Errorf("q = %q, want %q", got, tt.query)
			}
			if got := params.Get("p"); got != strconv.Itoa(tt.page) {
				t.Errorf("p = %q, want %d", got, tt.page)
			}
			if got := params.Get("order"); got != "2" {
				t.Errorf("order = %q, want 2", got)
			}
		})
	}
}

func TestHTTPFetcher_FetchPage(t *testing.T) {
	const body = `<html><body><div class="torrent_name">X</div></body></html>`

	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(body))
	}))
	defer srv.Close()

	hf := NewHTTPFetcher()
	hf.baseURL = srv.URL + "/search"

	got, err := hf.FetchPage("ubuntu iso", 2)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if got != body {
		t.Errorf("FetchPage() body = %q, want %q", got, body)
	}
	if gotQuery.Get("q") != "ubuntu iso" || gotQuery.Get("p") != "2" || gotQuery.Get("order") != "2" {
		t.Errorf("request params = %v", gotQuery)
	}
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	hf := NewHTTPFetcher()
	hf.baseURL = srv.URL + "/search"

	_, err := hf.FetchPage("q", 7)
	if err == nil {
		t.Fatal("FetchPage() error = nil, want *FetchError")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.Page != 7 {
		t.Errorf("FetchError.Page = %d, want 7", fetchErr.Page)
	}
}

func TestHTTPFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	hf := NewHTTPFetcher()
	hf.baseURL = srv.URL + "/search"

	_, err := hf.FetchPage("q", 1)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.Unwrap() == nil {
		t.Error("FetchError.Unwrap() = nil, want transport cause")
	}
}
