package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/frontmatter"
)

// IndexEntry is a blip's metadata plus a short body summary. Building the
// index reads frontmatter and the first summary slice of body only; full
// bodies are never materialized.
type IndexEntry struct {
	ID           string     `json:"id"`
	State        blip.State `json:"state"`
	Category     string     `json:"category,omitempty"`
	CapturedAt   time.Time  `json:"captured_at"`
	SurfaceCount int        `json:"surface_count"`
	Tags         []string   `json:"tags,omitempty"`
	Summary      string     `json:"summary"`
}

// BuildIndex reads every record's head and returns entries sorted by
// capture time, newest first. Malformed files are skipped.
func (s *Store) BuildIndex() []IndexEntry {
	var entries []IndexEntry
	for _, id := range s.ids() {
		entry, ok := s.readHead(id)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CapturedAt.After(entries[j].CapturedAt)
	})
	return entries
}

// readHead parses a record's frontmatter and the leading slice of its body
// without reading the rest of the file.
func (s *Store) readHead(id string) (IndexEntry, bool) {
	f, err := os.Open(s.path(id))
	if err != nil {
		return IndexEntry{}, false
	}
	defer f.Close()

	r := bufio.NewReader(f)

	line, err := r.ReadString('\n')
	if err != nil || strings.TrimRight(line, "\n") != "---" {
		return IndexEntry{}, false
	}

	var block strings.Builder
	closed := false
	for {
		line, err = r.ReadString('\n')
		if strings.TrimRight(line, "\n") == "---" {
			closed = true
			break
		}
		block.WriteString(line)
		if err != nil {
			break
		}
	}
	if !closed {
		return IndexEntry{}, false
	}

	meta := frontmatter.ParseBlock(block.String())
	state, ok := blip.ParseState(meta.Get(fieldState))
	if !ok || meta.Get(fieldID) == "" {
		return IndexEntry{}, false
	}
	captured, ok := meta.GetTime(fieldCaptured)
	if !ok {
		return IndexEntry{}, false
	}

	// Spare bytes so the summary slice never ends mid-rune.
	head := make([]byte, 4*s.summaryChars+utf8.UTFMax)
	n, _ := io.ReadFull(r, head)
	head = trimCutRune(head[:n])

	return IndexEntry{
		ID:           meta.Get(fieldID),
		State:        state,
		Category:     meta.Get(fieldCategory),
		CapturedAt:   captured,
		SurfaceCount: meta.GetInt(fieldSurfaceCount),
		Tags:         meta.GetList(fieldTags),
		Summary:      summarize(string(head), s.summaryChars),
	}, true
}

// trimCutRune drops the trailing bytes of a rune severed by a fixed-size
// read. A well-formed rune at the end, including an encoded U+FFFD, stays.
func trimCutRune(b []byte) []byte {
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size > 1 {
			break
		}
		b = b[:len(b)-1]
	}
	return b
}

// summarize flattens a body slice into a single line of at most max runes.
func summarize(body string, max int) string {
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max])
}

// FormatIndexForContext renders the index as a markdown table suitable for
// injecting into an agent prompt. limit <= 0 means all entries.
func (s *Store) FormatIndexForContext(limit int) string {
	entries := s.BuildIndex()
	if len(entries) == 0 {
		return "## Blips\n\nNo blips yet."
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	var sb strings.Builder
	sb.WriteString("## Blips\n\n")
	sb.WriteString("| ID | State | Category | Captured | Summary |\n")
	sb.WriteString("|----|-------|----------|----------|---------|\n")
	for _, e := range entries {
		category := e.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			e.ID,
			e.State,
			escapeCell(category),
			e.CapturedAt.Format("2006-01-02"),
			escapeCell(e.Summary),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
