package parser

import (
	"errors"
	"testing"
)

func TestParseHTML_ChallengeDetection(t *testing.T) {
	tests := []struct {
		name          string
		html          string
		wantChallenge bool
	}{
		{
			name:          "recaptcha widget",
			html:          `<html><body><div class="g-recaptcha" data-sitekey="x"></div></body></html>`,
			wantChallenge: true,
		},
		{
			name:          "browser check interstitial",
			html:          `<html><body><p>Checking your browser before accessing btdig.com</p></body></html>`,
			wantChallenge: true,
		},
		{
			name: "marker wins over results on the same page",
			html: `<html><body>Checking your browser` +
				`<div class="torrent_name"><a href="/x">Something</a></div></body></html>`,
			wantChallenge: true,
		},
		{
			name:          "regular results page",
			html:          `<html><body><div class="torrent_name">Something</div></body></html>`,
			wantChallenge: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := NewParser().ParseHTML(tt.html, 1)
			if got := errors.Is(err, ErrChallengeDetected); got != tt.wantChallenge {
				t.Errorf("ParseHTML() challenge = %v, want %v (err = %v)", got, tt.wantChallenge, err)
			}
			if tt.wantChallenge && len(records) != 0 {
				t.Errorf("ParseHTML() returned %d records from a challenge page, want 0", len(records))
			}
		})
	}
}

func TestParseHTML_NoNameBlocks(t *testing.T) {
	html := `<html><body><p>No results found for your query.</p></body></html>`

	records, hasResults, err := NewParser().ParseHTML(html, 3)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if hasResults {
		t.Error("ParseHTML() hasResults = true, want false")
	}
	if len(records) != 0 {
		t.Errorf("ParseHTML() returned %d records, want 0", len(records))
	}
}

func TestParseHTML_ExtractsRecordsInOrder(t *testing.T) {
	html := `<html><body>
		<div class="one_result">
			<div class="torrent_name"><a href="/a">First Result</a></div>
			<div class="torrent_magnet"><a href="magnet:?xt=urn:btih:AAA">magnet</a></div>
		</div>
		<div class="one_result">
			<div class="torrent_name"><a href="/b">Second Result</a></div>
			<div class="torrent_magnet"><a href="magnet:?xt=urn:btih:BBB">magnet</a></div>
		</div>
	</body></html>`

	records, hasResults, err := NewParser().ParseHTML(html, 2)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if !hasResults {
		t.Error("ParseHTML() hasResults = false, want true")
	}
	if len(records) != 2 {
		t.Fatalf("ParseHTML() returned %d records, want 2", len(records))
	}

	if records[0].Name != "First Result" || records[0].MagnetLink != "magnet:?xt=urn:btih:AAA" {
		t.Errorf("record[0] = %+v", records[0])
	}
	if records[1].Name != "Second Result" || records[1].MagnetLink != "magnet:?xt=urn:btih:BBB" {
		t.Errorf("record[1] = %+v", records[1])
	}
	for i, r := range records {
		if r.PageNumber != 2 {
			t.Errorf("record[%d].PageNumber = %d, want 2", i, r.PageNumber)
		}
	}
}

func TestParseHTML_SkipsBlankNames(t *testing.T) {
	html := `<html><body>
		<div class="torrent_name">   </div>
		<div class="torrent_name">Real Name</div>
	</body></html>`

	records, hasResults, err := NewParser().ParseHTML(html, 1)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if !hasResults {
		t.Error("ParseHTML() hasResults = false, want true")
	}
	if len(records) != 1 || records[0].Name != "Real Name" {
		t.Errorf("ParseHTML() records = %+v, want single 'Real Name'", records)
	}
}

func TestResolveMagnetLink_Priority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			// Rule a beats rule c: the sibling-container anchor wins even
			// though a different magnet anchor appears earlier on the page.
			name: "sibling container beats page-wide first",
			html: `<html><body>
				<div class="ad"><a href="magnet:?xt=urn:btih:GLOBAL">promoted</a></div>
				<div class="one_result">
					<div class="torrent_name"><a href="/a">X</a></div>
					<div class="torrent_magnet"><a href="magnet:?xt=urn:btih:SIBLING">dl</a></div>
				</div>
			</body></html>`,
			want: "magnet:?xt=urn:btih:SIBLING",
		},
		{
			name: "sibling container beats anchor inside name block",
			html: `<html><body>
				<div class="one_result">
					<div class="torrent_name"><a href="magnet:?xt=urn:btih:INNER">X</a></div>
					<div class="torrent_magnet"><a href="magnet:?xt=urn:btih:SIBLING">dl</a></div>
				</div>
			</body></html>`,
			want: "magnet:?xt=urn:btih:SIBLING",
		},
		{
			name: "anchor inside name block beats page-wide first",
			html: `<html><body>
				<div class="ad"><a href="magnet:?xt=urn:btih:GLOBAL">promoted</a></div>
				<div class="one_result">
					<div class="torrent_name"><a href="magnet:?xt=urn:btih:INNER">X</a></div>
				</div>
			</body></html>`,
			want: "magnet:?xt=urn:btih:INNER",
		},
		{
			name: "page-wide first as last resort",
			html: `<html><body>
				<div class="ad"><a href="magnet:?xt=urn:btih:GLOBAL">promoted</a></div>
				<div class="one_result">
					<div class="torrent_name"><a href="/a">X</a></div>
				</div>
			</body></html>`,
			want: "magnet:?xt=urn:btih:GLOBAL",
		},
		{
			name: "no magnet anywhere",
			html: `<html><body>
				<div class="one_result">
					<div class="torrent_name"><a href="/a">X</a></div>
				</div>
			</body></html>`,
			want: "",
		},
		{
			name: "non-magnet anchors are ignored",
			html: `<html><body>
				<div class="one_result">
					<div class="torrent_name"><a href="/a">X</a></div>
					<div class="torrent_magnet"><a href="https://example.com/dl">dl</a></div>
				</div>
			</body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := NewParser().ParseHTML(tt.html, 1)
			if err != nil {
				t.Fatalf("ParseHTML() error = %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("ParseHTML() returned %d records, want 1", len(records))
			}
			if records[0].MagnetLink != tt.want {
				t.Errorf("MagnetLink = %q, want %q", records[0].MagnetLink, tt.want)
			}
		})
	}
}

// The page-wide fallback can attach an unrelated result's magnet link to a
// record whose own link is not locatable. This imprecision is part of the
// resolution contract, so the test pins it down rather than the "correct"
// behavior.
func TestResolveMagnetLink_GlobalFallbackCaveat(t *testing.T) {
	html := `<html><body>
		<div class="one_result">
			<div class="torrent_name"><a href="/a">Has Own Link</a></div>
			<div class="torrent_magnet"><a href="magnet:?xt=urn:btih:FIRST">dl</a></div>
		</div>
		<div class="one_result">
			<div class="torrent_name"><a href="/b">Link Missing</a></div>
		</div>
	</body></html>`

	records, _, err := NewParser().ParseHTML(html, 1)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ParseHTML() returned %d records, want 2", len(records))
	}

	if records[1].MagnetLink != "magnet:?xt=urn:btih:FIRST" {
		t.Errorf("fallback MagnetLink = %q, want the page's first magnet link", records[1].MagnetLink)
	}
}
