package store

import (
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/blip/internal/blip"
)

func TestBuildIndex_SortedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}
	i := 0
	s.now = func() time.Time { ts := stamps[i]; i++; return ts }

	mustCapture(t, s, "oldest entry")
	mustCapture(t, s, "middle entry")
	newest := mustCapture(t, s, "newest entry")

	entries := s.BuildIndex()
	if len(entries) != 3 {
		t.Fatalf("index has %d entries, want 3", len(entries))
	}
	if entries[0].ID != newest.ID {
		t.Errorf("entries[0] = %s, want newest capture first", entries[0].ID)
	}
	if entries[0].Summary != "newest entry" {
		t.Errorf("summary = %q", entries[0].Summary)
	}
	if entries[0].State != blip.StateCaptured {
		t.Errorf("state = %s", entries[0].State)
	}
}

func TestBuildIndex_SummaryTruncated(t *testing.T) {
	s := newTestStore(t)
	long := strings.Repeat("abcde ", 40) // 240 chars
	mustCapture(t, s, long)

	entries := s.BuildIndex()
	if len(entries) != 1 {
		t.Fatalf("index has %d entries", len(entries))
	}
	if got := len([]rune(entries[0].Summary)); got > 80 {
		t.Errorf("summary is %d runes, want at most 80", got)
	}
	if !strings.HasPrefix(entries[0].Summary, "abcde abcde") {
		t.Errorf("summary = %q", entries[0].Summary)
	}
}

func TestBuildIndex_SummaryDropsRuneCutAtReadBoundary(t *testing.T) {
	s := newTestStore(t)
	// 319 bytes of lead-in lands the second emoji across the head read
	// boundary; the severed bytes must not leak into the summary.
	mustCapture(t, s, "\U0001F600"+strings.Repeat(" ", 315)+"\U0001F600\U0001F600")

	entries := s.BuildIndex()
	if len(entries) != 1 {
		t.Fatalf("index has %d entries", len(entries))
	}
	sum := entries[0].Summary
	if !utf8.ValidString(sum) {
		t.Fatalf("summary is not valid UTF-8: %q", sum)
	}
	if strings.ContainsRune(sum, utf8.RuneError) {
		t.Errorf("summary contains a replacement rune: %q", sum)
	}
	if sum != "\U0001F600 \U0001F600" {
		t.Errorf("summary = %q", sum)
	}
}

func TestBuildIndex_MultilineSummaryFlattened(t *testing.T) {
	s := newTestStore(t)
	mustCapture(t, s, "line one\nline two\nline three")

	entries := s.BuildIndex()
	if strings.Contains(entries[0].Summary, "\n") {
		t.Errorf("summary contains newline: %q", entries[0].Summary)
	}
	if entries[0].Summary != "line one line two line three" {
		t.Errorf("summary = %q", entries[0].Summary)
	}
}

func TestBuildIndex_SkipsMalformed(t *testing.T) {
	s := newTestStore(t)
	mustCapture(t, s, "fine")

	bad := s.path("01JNOFRONTMATTER0000000000")
	if err := os.WriteFile(bad, []byte("no frontmatter at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := len(s.BuildIndex()); got != 1 {
		t.Errorf("index has %d entries, want 1", got)
	}
}

func TestFormatIndexForContext_Empty(t *testing.T) {
	s := newTestStore(t)
	want := "## Blips\n\nNo blips yet."
	if got := s.FormatIndexForContext(0); got != want {
		t.Errorf("FormatIndexForContext = %q, want %q", got, want)
	}
}

func TestFormatIndexForContext_Table(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC) }
	b, err := s.Capture("pipe | in content", blip.ManualSource{}, "idea")
	if err != nil {
		t.Fatal(err)
	}

	out := s.FormatIndexForContext(10)
	if !strings.HasPrefix(out, "## Blips\n\n| ID | State |") {
		t.Errorf("missing table header:\n%s", out)
	}
	if !strings.Contains(out, b.ID) {
		t.Errorf("missing id:\n%s", out)
	}
	if !strings.Contains(out, "2026-05-02") {
		t.Errorf("missing captured date:\n%s", out)
	}
	if !strings.Contains(out, `pipe \| in content`) {
		t.Errorf("pipe not escaped:\n%s", out)
	}
}

func TestFormatIndexForContext_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		mustCapture(t, s, "entry")
	}
	out := s.FormatIndexForContext(2)
	rows := strings.Count(out, "\n| 0") // data rows start with a ULID cell
	if rows != 2 {
		t.Errorf("table has %d data rows, want 2:\n%s", rows, out)
	}
}
