package store

import (
	"testing"
	"time"

	"github.com/hpungsan/blip/internal/blip"
)

func TestGetByState(t *testing.T) {
	s := newTestStore(t)
	a := mustCapture(t, s, "a")
	b := mustCapture(t, s, "b")
	mustCapture(t, s, "c")

	if _, err := s.Archive(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNote(b.ID, "note"); err != nil {
		t.Fatal(err)
	}

	if got := s.GetByState(blip.StateCaptured); len(got) != 1 {
		t.Errorf("captured = %d, want 1", len(got))
	}
	if got := s.GetByState(blip.StateIncubating); len(got) != 1 {
		t.Errorf("incubating = %d, want 1", len(got))
	}
	if got := s.GetByState(blip.StateArchived); len(got) != 1 {
		t.Errorf("archived = %d, want 1", len(got))
	}
}

func TestGetByCategory(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Capture("x", blip.ManualSource{}, "idea"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Capture("y", blip.ManualSource{}, "reading"); err != nil {
		t.Fatal(err)
	}

	got := s.GetByCategory("idea")
	if len(got) != 1 || got[0].Content != "x" {
		t.Errorf("GetByCategory(idea) = %v", got)
	}
	if got := s.GetByCategory("missing"); len(got) != 0 {
		t.Errorf("unknown category should be empty, got %d", len(got))
	}
}

func TestGetRecent(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Minute) }

	for i := 0; i < 4; i++ {
		mustCapture(t, s, "entry")
	}
	last := mustCapture(t, s, "latest")

	recent := s.GetRecent(2)
	if len(recent) != 2 {
		t.Fatalf("GetRecent(2) returned %d", len(recent))
	}
	if recent[0].ID != last.ID {
		t.Errorf("recent[0] = %s, want most recent capture", recent[0].ID)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	a := mustCapture(t, s, "Remember the GopherCon talk about iterators")
	b := mustCapture(t, s, "grocery list")
	if _, err := s.AddNote(b.ID, "also GOPHERCON tickets"); err != nil {
		t.Fatal(err)
	}
	c := mustCapture(t, s, "untagged thought")
	if _, err := s.AddTags(c.ID, "gophercon-2026"); err != nil {
		t.Fatal(err)
	}
	mustCapture(t, s, "nothing relevant")

	got := s.Search("gophercon")
	if len(got) != 3 {
		t.Fatalf("Search matched %d records, want 3 (content, note, tag)", len(got))
	}
	found := map[string]bool{}
	for _, m := range got {
		found[m.ID] = true
	}
	for _, want := range []string{a.ID, b.ID, c.ID} {
		if !found[want] {
			t.Errorf("missing match %s", want)
		}
	}

	if got := s.Search("   "); got != nil {
		t.Errorf("blank query should match nothing, got %d", len(got))
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	a, err := s.Capture("a", blip.ManualSource{}, "idea")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Capture("b", blip.ManualSource{}, "idea")
	if err != nil {
		t.Fatal(err)
	}
	c := mustCapture(t, s, "c")

	if _, err := s.AddNote(a.ID, "note one"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Snooze(b.ID, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LinkBlips(a.ID, c.ID); err != nil {
		t.Fatal(err)
	}

	stats := s.GetStats()
	if stats.Total != 3 {
		t.Errorf("Total = %d", stats.Total)
	}
	if stats.ByState[blip.StateIncubating] != 2 {
		t.Errorf("incubating = %d, want 2 (noted + snoozed)", stats.ByState[blip.StateIncubating])
	}
	if stats.ByCategory["idea"] != 2 {
		t.Errorf("idea = %d", stats.ByCategory["idea"])
	}
	if stats.Snoozed != 1 {
		t.Errorf("Snoozed = %d", stats.Snoozed)
	}
	if stats.TotalNotes != 1 {
		t.Errorf("TotalNotes = %d", stats.TotalNotes)
	}
	if stats.Linked != 2 {
		t.Errorf("Linked = %d", stats.Linked)
	}
}
