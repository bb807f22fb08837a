package filter

import (
	"strings"

	"btdig-scraper/config"
	"btdig-scraper/models"
)

// Filter applies filter criteria to records
type Filter struct {
	cfg *config.Config
}

// NewFilter creates a new Filter instance
func NewFilter(cfg *config.Config) *Filter {
	return &Filter{
		cfg: cfg,
	}
}

// ApplyFilters filters records based on the configuration
func (f *Filter) ApplyFilters(records []models.Record) []models.Record {
	var filtered []models.Record

	for _, record := range records {
		if f.matchesFilters(record) {
			filtered = append(filtered, record)
		}
	}

	return filtered
}

// matchesFilters checks if a record matches all filter criteria
func (f *Filter) matchesFilters(record models.Record) bool {
	if f.cfg.Filters.RequireMagnet && record.MagnetLink == "" {
		return false
	}

	name := strings.ToLower(record.Name)

	// Every include keyword must be present
	for _, kw := range f.cfg.Filters.IncludeKeywords {
		if !strings.Contains(name, strings.ToLower(kw)) {
			return false
		}
	}

	// Any exclude keyword rejects the record
	for _, kw := range f.cfg.Filters.ExcludeKeywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return false
		}
	}

	return true
}
