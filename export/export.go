package export

import (
	"fmt"
	"os"
	"strings"

	"btdig-scraper/models"
)

// missingLinkPlaceholder is written in place of a magnet link when none
// could be resolved for a record
const missingLinkPlaceholder = "(not found)"

// FormatMarkdown renders records as a Markdown document. The layout is
// fixed: a header, then one block per record where both lines end in two
// spaces (Markdown hard line breaks) and blocks are separated by a blank
// line.
func FormatMarkdown(records []models.Record) string {
	var sb strings.Builder

	sb.WriteString("# Crawled Results\n\n")

	for _, record := range records {
		link := record.MagnetLink
		if link == "" {
			link = missingLinkPlaceholder
		}
		sb.WriteString(fmt.Sprintf("- **Name**: %s  \n", record.Name))
		sb.WriteString(fmt.Sprintf("  - Magnet: %s  \n", link))
		sb.WriteString("\n")
	}

	return sb.String()
}

// WriteMarkdown formats records and saves the document to filename
func WriteMarkdown(records []models.Record, filename string) error {
	doc := FormatMarkdown(records)
	if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
