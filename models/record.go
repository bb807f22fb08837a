package models

// Record represents a single extracted search result
type Record struct {
	Name       string
	MagnetLink string // empty when no magnet link could be resolved
	PageNumber int    // page number where this record was found
}

// StopReason explains why a crawl terminated
type StopReason int

const (
	StoppedByBound StopReason = iota
	StoppedByChallenge
	StoppedByEmptyPages
	StoppedByFetchError
	StoppedByCancel
)

// String returns a human-readable description of the stop reason
func (r StopReason) String() string {
	switch r {
	case StoppedByBound:
		return "page bound reached"
	case StoppedByChallenge:
		return "challenge page detected"
	case StoppedByEmptyPages:
		return "no results on consecutive pages"
	case StoppedByFetchError:
		return "fetch error"
	case StoppedByCancel:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsNominal reports whether the stop reason is a normal completion signal
// (ran out of pages) as opposed to being blocked or failing to fetch.
func (r StopReason) IsNominal() bool {
	return r == StoppedByBound || r == StoppedByEmptyPages
}
