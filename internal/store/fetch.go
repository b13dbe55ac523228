package store

import (
	"os"
	"sort"
	"strings"

	"github.com/hpungsan/blip/internal/blip"
)

// FindByID returns a single blip, or ok=false when the id is unknown or the
// file cannot be parsed. It never returns an error.
func (s *Store) FindByID(id string) (*blip.Blip, bool) {
	if id == "" {
		return nil, false
	}
	return s.read(id)
}

// All materializes every record in the store, newest capture first.
// This reads and parses every file; bulk listing should prefer BuildIndex.
// Malformed files are skipped so one corrupt record never blocks the rest.
func (s *Store) All() []*blip.Blip {
	var out []*blip.Blip
	for _, id := range s.ids() {
		if b, ok := s.read(id); ok {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CapturedAt.After(out[j].CapturedAt)
	})
	return out
}

// ids lists the record ids present on disk, in directory order.
// Subdirectories (trash, duplicates) and temp files are ignored.
func (s *Store) ids() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		id, ok := strings.CutSuffix(name, FileExt)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
