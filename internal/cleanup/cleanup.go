// Package cleanup is the out-of-band maintenance pass over a blip directory.
// It quarantines test-harness leftovers, merges duplicate captures that share
// a canonical source, and backfills normalized source metadata. It operates
// on raw files rather than the store API so that documents too malformed for
// the store can still be handled, and it expects exclusive access to the
// directory while it runs.
package cleanup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/errors"
	"github.com/hpungsan/blip/internal/frontmatter"
)

// Test-harness signatures. Documents carrying either are quarantined.
const (
	harnessTitle  = "Blip Harness Probe"
	harnessMarker = "[blip-harness]"
)

// Dedup scoring weights.
const (
	scoreTerminalState = 500
	scoreCaptureLink   = 300
	bodyBonusCap       = 100
	markerPenalty      = 1000

	substantiveBodyLen = 500
	keepPerSource      = 2
)

// Frontmatter keys the pass reads or writes. capture and title are not store
// fields; they survive round trips through the codec's unknown-key passthrough.
const (
	metaTitle     = "title"
	metaState     = "state"
	metaSourceRef = "source_ref"
	metaCapture   = "capture"
)

// CaptureHeading is the reserved body heading under which capture reference
// lines are inserted.
const CaptureHeading = "## Capture"

const (
	trashDir      = ".trash"
	duplicatesDir = "duplicates"
)

// Options configures a cleanup run.
type Options struct {
	// Dir is the blip directory to clean.
	Dir string
	// CapturesDir, when set, is scanned to resolve capture links by
	// canonical source URL.
	CapturesDir string
	// Apply performs the reported actions. When false the run is a dry run
	// and the filesystem is left untouched.
	Apply bool
	// Log receives one line per action. Nil discards.
	Log func(format string, args ...any)
}

// Action is one intended (dry run) or performed (apply) change.
type Action struct {
	Kind   string `json:"kind"`
	File   string `json:"file"`
	Detail string `json:"detail"`
}

// Summary counts the actions of a run.
type Summary struct {
	Scanned       int `json:"scanned"`
	Trashed       int `json:"trashed"`
	Relocated     int `json:"relocated"`
	Canonicalized int `json:"canonicalized"`
	CaptureLinked int `json:"capture_linked"`
	Modified      int `json:"modified"`
}

// Report is the outcome of a run. A dry run produces the same report as the
// apply run it predicts.
type Report struct {
	Applied bool     `json:"applied"`
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}

func (r *Report) add(kind, file, detail string) {
	r.Actions = append(r.Actions, Action{Kind: kind, File: file, Detail: detail})
}

// document is one scanned file, tracked in memory across the three passes.
type document struct {
	name    string
	path    string
	raw     string
	doc     frontmatter.Doc
	removed bool
	dirty   bool
}

func (d *document) marker() bool {
	return strings.Contains(d.raw, harnessMarker)
}

// Run executes the three passes in order: quarantine, source dedup, backfill.
// Re-running on an already-clean directory reports zero actions.
func Run(opts Options) (*Report, error) {
	if opts.Log == nil {
		opts.Log = func(string, ...any) {}
	}

	docs, err := loadDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	rep := &Report{Applied: opts.Apply}
	rep.Summary.Scanned = len(docs)

	if err := quarantine(docs, rep, opts); err != nil {
		return nil, err
	}
	if err := dedup(docs, rep, opts); err != nil {
		return nil, err
	}
	if err := backfill(docs, rep, opts); err != nil {
		return nil, err
	}
	if err := flush(docs, rep, opts); err != nil {
		return nil, err
	}
	return rep, nil
}

func loadDir(dir string) ([]*document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewPersistence("cleanup scan", err)
	}
	var docs []*document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewPersistence("cleanup read", err)
		}
		docs = append(docs, &document{
			name: name,
			path: path,
			raw:  string(raw),
			doc:  frontmatter.Parse(string(raw)),
		})
	}
	return docs, nil
}

// quarantine relocates test-harness documents to the trash subdirectory.
// Nothing is ever deleted outright.
func quarantine(docs []*document, rep *Report, opts Options) error {
	for _, d := range docs {
		if d.doc.Meta.Get(metaTitle) != harnessTitle && !d.marker() {
			continue
		}
		d.removed = true
		rep.add("trash", d.name, trashDir+"/"+d.name)
		rep.Summary.Trashed++
		opts.Log("trash    %s -> %s/", d.name, trashDir)
		if opts.Apply {
			if err := relocate(d.path, filepath.Join(opts.Dir, trashDir, d.name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// dedup groups surviving documents by canonical source identity, scores each
// group, and relocates everything outside the keep set to a per-source
// duplicates subdirectory.
func dedup(docs []*document, rep *Report, opts Options) error {
	groups := make(map[string][]*document)
	for _, d := range docs {
		if d.removed {
			continue
		}
		canon := Canonicalize(d.doc.Meta.Get(metaSourceRef))
		if canon == "" {
			continue
		}
		groups[canon] = append(groups[canon], d)
	}

	canons := make([]string, 0, len(groups))
	for canon := range groups {
		canons = append(canons, canon)
	}
	sort.Strings(canons)

	for _, canon := range canons {
		group := groups[canon]
		if len(group) < 2 {
			continue
		}
		keep := keepSet(group)
		slug := slugify(canon)
		for _, d := range group {
			if keep[d] {
				continue
			}
			d.removed = true
			dest := duplicatesDir + "/" + slug + "/" + d.name
			rep.add("relocate", d.name, dest)
			rep.Summary.Relocated++
			opts.Log("dedup    %s -> %s", d.name, dest)
			if opts.Apply {
				if err := relocate(d.path, filepath.Join(opts.Dir, duplicatesDir, slug, d.name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// keepSet ranks a duplicate group and returns the members to retain. When the
// group has substantive members the keep set is drawn from those alone;
// otherwise the full ranked group is eligible.
func keepSet(group []*document) map[*document]bool {
	candidates := make([]*document, 0, len(group))
	for _, d := range group {
		if len(d.doc.Body) >= substantiveBodyLen && !d.marker() {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, group...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i]) > score(candidates[j])
	})
	if len(candidates) > keepPerSource {
		candidates = candidates[:keepPerSource]
	}

	keep := make(map[*document]bool, len(candidates))
	for _, d := range candidates {
		keep[d] = true
	}
	return keep
}

func score(d *document) int {
	s := 0
	if state, ok := blip.ParseState(d.doc.Meta.Get(metaState)); ok && state.Terminal() {
		s += scoreTerminalState
	}
	if d.doc.Meta.Has(metaCapture) {
		s += scoreCaptureLink
	}
	bonus := len(d.doc.Body) / 10
	if bonus > bodyBonusCap {
		bonus = bodyBonusCap
	}
	s += bonus
	if d.marker() {
		s -= markerPenalty
	}
	return s
}

// backfill normalizes each surviving document in place: canonicalizes the
// source reference, attaches a capture link resolved by canonical URL, and
// ensures the body carries a reference line to the linked capture.
func backfill(docs []*document, rep *Report, opts Options) error {
	captures, err := loadCaptureIndex(opts.CapturesDir)
	if err != nil {
		return err
	}

	for _, d := range docs {
		if d.removed {
			continue
		}

		ref := d.doc.Meta.Get(metaSourceRef)
		if ref != "" {
			if canon := Canonicalize(ref); canon != ref {
				d.doc.Meta.Set(metaSourceRef, canon)
				d.dirty = true
				rep.add("canonicalize", d.name, ref+" -> "+canon)
				rep.Summary.Canonicalized++
				opts.Log("canon    %s: %s", d.name, canon)
				ref = canon
			}
		}

		if ref != "" && !d.doc.Meta.Has(metaCapture) {
			if name, ok := captures[Canonicalize(ref)]; ok {
				d.doc.Meta.Set(metaCapture, name)
				d.dirty = true
				rep.add("capture-link", d.name, name)
				rep.Summary.CaptureLinked++
				opts.Log("link     %s -> %s", d.name, name)
			}
		}

		if capture := d.doc.Meta.Get(metaCapture); capture != "" {
			line := "- [[" + capture + "]]"
			if !strings.Contains(d.doc.Body, line) {
				d.doc.Body = insertUnderHeading(d.doc.Body, CaptureHeading, line)
				d.dirty = true
				rep.add("reference", d.name, line)
				opts.Log("refline  %s: %s", d.name, line)
			}
		}
	}
	return nil
}

// flush writes edited documents back to disk via temp file and rename.
func flush(docs []*document, rep *Report, opts Options) error {
	for _, d := range docs {
		if d.removed || !d.dirty {
			continue
		}
		rep.Summary.Modified++
		if !opts.Apply {
			continue
		}
		tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+d.name+"-*.tmp")
		if err != nil {
			return errors.NewPersistence("cleanup write", err)
		}
		if _, err := tmp.WriteString(d.doc.Serialize()); err == nil {
			err = tmp.Sync()
		}
		if cerr := tmp.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err == nil {
			err = os.Rename(tmp.Name(), d.path)
		}
		if err != nil {
			os.Remove(tmp.Name())
			return errors.NewPersistence("cleanup write", err)
		}
	}
	return nil
}

func relocate(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return errors.NewPersistence("cleanup relocate", err)
	}
	if err := os.Rename(from, to); err != nil {
		return errors.NewPersistence("cleanup relocate", err)
	}
	return nil
}

// loadCaptureIndex maps canonical source URLs to capture file names (without
// extension). Captures record their origin under a url frontmatter key.
func loadCaptureIndex(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewPersistence("capture scan", err)
	}
	index := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		doc := frontmatter.Parse(string(raw))
		u := doc.Meta.Get("url")
		if u == "" {
			continue
		}
		canon := Canonicalize(u)
		if _, taken := index[canon]; !taken {
			index[canon] = strings.TrimSuffix(name, ".md")
		}
	}
	return index, nil
}

// insertUnderHeading places line immediately after heading, adding the
// heading at the end of the body when absent. No other content moves.
func insertUnderHeading(body, heading, line string) string {
	idx := headingIndex(body, heading)
	if idx < 0 {
		trimmed := strings.TrimRight(body, "\n")
		if trimmed == "" {
			return heading + "\n" + line
		}
		return trimmed + "\n\n" + heading + "\n" + line
	}
	end := idx + len(heading)
	nl := strings.IndexByte(body[end:], '\n')
	if nl < 0 {
		return body + "\n" + line
	}
	pos := end + nl + 1
	return body[:pos] + line + "\n" + body[pos:]
}

// headingIndex finds a heading at the start of a line, or -1.
func headingIndex(body, heading string) int {
	if body == heading || strings.HasPrefix(body, heading+"\n") {
		return 0
	}
	if i := strings.Index(body, "\n"+heading+"\n"); i >= 0 {
		return i + 1
	}
	if strings.HasSuffix(body, "\n"+heading) {
		return len(body) - len(heading)
	}
	return -1
}
