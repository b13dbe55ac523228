package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/hpungsan/blip/internal/config"
	"github.com/hpungsan/blip/internal/store"
)

// setupTestStore creates a temporary store for testing.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	return s
}

// runApp runs the CLI with the given args and returns captured stdout.
func runApp(t *testing.T, s *store.Store, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	app := newCLIApp(s, config.DefaultConfig())
	err := app.Run(append([]string{"blip"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// captureBlip captures a blip through the CLI and returns its id.
func captureBlip(t *testing.T, s *store.Store, content string, extra ...string) string {
	t.Helper()

	args := append([]string{"capture"}, extra...)
	args = append(args, content)
	out, err := runApp(t, s, args...)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse capture output: %v\nOutput: %s", err, out)
	}
	return output["id"].(string)
}

func TestCLICapture(t *testing.T) {
	s := setupTestStore(t)

	out, err := runApp(t, s, "capture", "--source=discord", "--ref=c1:m2:u3", "--category=chat", "an idea")
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	var output map[string]any
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output["state"] != "captured" {
		t.Errorf("state = %v", output["state"])
	}
	if output["source_type"] != "discord" {
		t.Errorf("source_type = %v", output["source_type"])
	}
	if output["category"] != "chat" {
		t.Errorf("category = %v", output["category"])
	}
}

func TestCLICaptureRequiresContent(t *testing.T) {
	s := setupTestStore(t)

	// Empty stdin pipe, no argument
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	w.Close()
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	_, err := runApp(t, s, "capture")
	if err == nil {
		t.Fatal("expected error for empty capture")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v", err)
	}
}

func TestCLIShow(t *testing.T) {
	s := setupTestStore(t)
	id := captureBlip(t, s, "find me")

	out, err := runApp(t, s, "show", id)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "find me") {
		t.Errorf("show output missing content:\n%s", out)
	}

	_, err = runApp(t, s, "show", "missing")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestCLINoteTransitionsState(t *testing.T) {
	s := setupTestStore(t)
	id := captureBlip(t, s, "worth elaborating")

	out, err := runApp(t, s, "note", id, "first", "thought")
	if err != nil {
		t.Fatalf("note failed: %v", err)
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatal(err)
	}
	if output["state"] != "incubating" {
		t.Errorf("state = %v, want incubating", output["state"])
	}
	notes, _ := output["notes"].([]any)
	if len(notes) != 1 || notes[0] != "first thought" {
		t.Errorf("notes = %v", output["notes"])
	}
}

func TestCLISnoozeArchivePromote(t *testing.T) {
	s := setupTestStore(t)

	snoozeID := captureBlip(t, s, "later")
	if _, err := runApp(t, s, "snooze", snoozeID, "--days=7"); err != nil {
		t.Fatalf("snooze failed: %v", err)
	}
	b, _ := s.FindByID(snoozeID)
	if b.NextSurfaceAfter == nil {
		t.Error("snooze did not set next surface time")
	}

	archiveID := captureBlip(t, s, "done")
	if _, err := runApp(t, s, "archive", archiveID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	promoteID := captureBlip(t, s, "big")
	out, err := runApp(t, s, "promote", promoteID, "--target=goal", "--path=Goals/big.md")
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if !strings.Contains(out, `"promoted"`) {
		t.Errorf("promote output:\n%s", out)
	}

	// Terminal blips reject further transitions
	if _, err := runApp(t, s, "archive", promoteID); err == nil {
		t.Error("expected error archiving a promoted blip")
	}
}

func TestCLILinkAndTag(t *testing.T) {
	s := setupTestStore(t)
	a := captureBlip(t, s, "first")
	b := captureBlip(t, s, "second")

	if _, err := runApp(t, s, "link", a, "--to="+b); err != nil {
		t.Fatalf("link failed: %v", err)
	}
	other, _ := s.FindByID(b)
	if len(other.LinkedBlips) != 1 || other.LinkedBlips[0] != a {
		t.Errorf("link not symmetric: %v", other.LinkedBlips)
	}

	if _, err := runApp(t, s, "link", a); err == nil {
		t.Error("expected error for link without target")
	}

	if _, err := runApp(t, s, "tag", a, "go", "reading"); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	tagged, _ := s.FindByID(a)
	if len(tagged.Tags) != 2 {
		t.Errorf("tags = %v", tagged.Tags)
	}
}

func TestCLIListSearchRecentStats(t *testing.T) {
	s := setupTestStore(t)
	first := captureBlip(t, s, "about compilers", "--category=tech")
	captureBlip(t, s, "about gardens")
	if _, err := runApp(t, s, "archive", first); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, s, "list", "--state=archived")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var listed []map[string]any
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Errorf("archived list = %d entries", len(listed))
	}

	if _, err := runApp(t, s, "list", "--state=bogus"); err == nil {
		t.Error("expected error for unknown state")
	}

	out, _ = runApp(t, s, "search", "compilers")
	if !strings.Contains(out, "about compilers") {
		t.Errorf("search output:\n%s", out)
	}

	out, _ = runApp(t, s, "recent", "--limit=1")
	var recent []map[string]any
	if err := json.Unmarshal([]byte(out), &recent); err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Errorf("recent = %d entries", len(recent))
	}

	out, _ = runApp(t, s, "stats")
	var stats map[string]any
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["total"].(float64) != 2 {
		t.Errorf("stats total = %v", stats["total"])
	}
}

func TestCLIContext(t *testing.T) {
	s := setupTestStore(t)

	out, err := runApp(t, s, "context")
	if err != nil {
		t.Fatalf("context failed: %v", err)
	}
	if !strings.Contains(out, "No blips yet.") {
		t.Errorf("empty context output:\n%s", out)
	}
}

func TestCLIDelete(t *testing.T) {
	s := setupTestStore(t)
	id := captureBlip(t, s, "short lived")

	if _, err := runApp(t, s, "delete", id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := s.FindByID(id); found {
		t.Error("blip still present after delete")
	}
	if _, err := runApp(t, s, "delete", id); err == nil {
		t.Error("expected NOT_FOUND on second delete")
	}
}

func TestCLICleanupDryRun(t *testing.T) {
	s := setupTestStore(t)
	captureBlip(t, s, "untouched")

	out, err := runApp(t, s, "cleanup")
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	var rep map[string]any
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("failed to parse report: %v\nOutput: %s", err, out)
	}
	if rep["applied"] != false {
		t.Error("dry run reported as applied")
	}
}

func TestIsCLIMode(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"blip"}, false},
		{[]string{"blip", "capture"}, true},
		{[]string{"blip", "cleanup"}, true},
		{[]string{"blip", "--help"}, true},
		{[]string{"blip", "-v"}, true},
		{[]string{"blip", "unknown-thing"}, false},
	}
	for _, tt := range tests {
		os.Args = tt.args
		if got := isCLIMode(); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
