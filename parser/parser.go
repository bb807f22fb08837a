package parser

import (
	"errors"
	"fmt"
	"strings"

	"btdig-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// ErrChallengeDetected is returned when the fetched markup is an
// anti-automation challenge page instead of search results. It is terminal
// for the whole crawl, not just the current page.
var ErrChallengeDetected = errors.New("challenge page detected")

// challengeMarkers are fixed substrings that identify a challenge page.
// Checked before any extraction is attempted.
var challengeMarkers = []string{
	"g-recaptcha",
	"Checking your browser",
}

const (
	nameSelector         = "div.torrent_name"
	magnetBoxSelector    = "div.torrent_magnet"
	magnetAnchorSelector = `a[href^="magnet:"]`
)

// Parser extracts records from search results HTML
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseHTML extracts records from one page of search results markup.
// pageNumber is recorded on each extracted record. The returned bool
// reports whether any name blocks were present at all, so the caller can
// distinguish an empty results page from a page whose names were blank.
func (p *Parser) ParseHTML(htmlContent string, pageNumber int) ([]models.Record, bool, error) {
	for _, marker := range challengeMarkers {
		if strings.Contains(htmlContent, marker) {
			return nil, false, fmt.Errorf("%w (matched %q)", ErrChallengeDetected, marker)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	nameBlocks := doc.Find(nameSelector)
	if nameBlocks.Length() == 0 {
		return nil, false, nil
	}

	var records []models.Record
	nameBlocks.Each(func(i int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}
		records = append(records, models.Record{
			Name:       name,
			MagnetLink: p.resolveMagnetLink(doc, s),
			PageNumber: pageNumber,
		})
	})

	return records, true, nil
}

// resolveMagnetLink finds the magnet link for a name block, trying three
// rules in priority order, first success wins:
//
//  1. a magnet container next to the name block, inside its immediate parent
//  2. a magnet anchor inside the name block itself
//  3. the first magnet anchor anywhere on the page
//
// Rule 3 is a deliberately preserved heuristic: when the stricter rules
// fail it can attach an unrelated result's magnet link to this record.
func (p *Parser) resolveMagnetLink(doc *goquery.Document, nameBlock *goquery.Selection) string {
	if href, ok := firstMagnetHref(nameBlock.Parent().Find(magnetBoxSelector)); ok {
		return href
	}

	if href, ok := firstMagnetHref(nameBlock); ok {
		return href
	}

	if href, ok := firstMagnetHref(doc.Selection); ok {
		return href
	}

	return ""
}

// firstMagnetHref returns the href of the first magnet-scheme anchor found
// within the selection, in document order.
func firstMagnetHref(s *goquery.Selection) (string, bool) {
	anchor := s.Find(magnetAnchorSelector).First()
	if anchor.Length() == 0 {
		return "", false
	}
	href := anchor.AttrOr("href", "")
	if href == "" {
		return "", false
	}
	return href, true
}
