package store

import (
	"strings"

	"github.com/hpungsan/blip/internal/blip"
)

// Read-side queries. All of these materialize every record via All, which is
// acceptable at the store's scale; bulk listing for display goes through
// BuildIndex instead.

// GetByState returns blips in the given state, newest first.
func (s *Store) GetByState(state blip.State) []*blip.Blip {
	var out []*blip.Blip
	for _, b := range s.All() {
		if b.State == state {
			out = append(out, b)
		}
	}
	return out
}

// GetByCategory returns blips with the given category, newest first.
func (s *Store) GetByCategory(category string) []*blip.Blip {
	var out []*blip.Blip
	for _, b := range s.All() {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

// GetRecent returns the most recently captured blips.
func (s *Store) GetRecent(limit int) []*blip.Blip {
	all := s.All()
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// Search does a case-insensitive substring match over content, notes, tags
// and category. It is deliberately not a relevance search.
func (s *Store) Search(query string) []*blip.Blip {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []*blip.Blip
	for _, b := range s.All() {
		if matchesQuery(b, query) {
			out = append(out, b)
		}
	}
	return out
}

func matchesQuery(b *blip.Blip, query string) bool {
	if strings.Contains(strings.ToLower(b.Content), query) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Category), query) {
		return true
	}
	for _, note := range b.Notes {
		if strings.Contains(strings.ToLower(note), query) {
			return true
		}
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Stats summarizes the store's contents.
type Stats struct {
	Total      int                `json:"total"`
	ByState    map[blip.State]int `json:"by_state"`
	ByCategory map[string]int     `json:"by_category,omitempty"`
	Snoozed    int                `json:"snoozed"`
	TotalNotes int                `json:"total_notes"`
	Linked     int                `json:"linked"`
}

// GetStats counts records by state and category.
func (s *Store) GetStats() Stats {
	stats := Stats{
		ByState:    make(map[blip.State]int),
		ByCategory: make(map[string]int),
	}
	now := s.now()
	for _, b := range s.All() {
		stats.Total++
		stats.ByState[b.State]++
		if b.Category != "" {
			stats.ByCategory[b.Category]++
		}
		if b.Snoozed(now) {
			stats.Snoozed++
		}
		stats.TotalNotes += len(b.Notes)
		if len(b.LinkedBlips) > 0 {
			stats.Linked++
		}
	}
	return stats
}
