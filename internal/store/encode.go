package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/frontmatter"
)

// NotesHeading separates the main content from the rendered notes list.
// The heading is reserved: free-text content containing it will corrupt the
// content/notes split on the next read.
const NotesHeading = "## Notes"

// Frontmatter field names, fixed by the on-disk format.
const (
	fieldID           = "id"
	fieldState        = "state"
	fieldCategory     = "category"
	fieldCaptured     = "captured"
	fieldSurfaced     = "surfaced"
	fieldUpdated      = "updated"
	fieldSurfaceCount = "surface_count"
	fieldNextSurface  = "next_surface"
	fieldTags         = "tags"
	fieldSourceType   = "source_type"
	fieldSourceRef    = "source_ref"
	fieldLinkedBlips  = "linked_blips"
	fieldLinkedVault  = "linked_vault"
	fieldPromotedTo   = "promoted_to"
)

// Encode serializes a blip to its on-disk document form.
// Optional fields that are unset are omitted entirely.
func Encode(b *blip.Blip) string {
	m := frontmatter.NewMeta()
	m.Set(fieldID, b.ID)
	m.Set(fieldState, string(b.State))
	if b.Category != "" {
		m.Set(fieldCategory, b.Category)
	}
	m.SetTime(fieldCaptured, b.CapturedAt)
	if b.LastSurfacedAt != nil {
		m.SetTime(fieldSurfaced, *b.LastSurfacedAt)
	}
	if b.LastUpdatedAt != nil {
		m.SetTime(fieldUpdated, *b.LastUpdatedAt)
	}
	m.SetInt(fieldSurfaceCount, b.SurfaceCount)
	if b.NextSurfaceAfter != nil {
		m.SetTime(fieldNextSurface, *b.NextSurfaceAfter)
	}
	if len(b.Tags) > 0 {
		m.SetList(fieldTags, b.Tags)
	}
	m.Set(fieldSourceType, string(b.Source.Kind()))
	if ref := b.Source.Ref(); ref != "" {
		m.Set(fieldSourceRef, ref)
	}
	if len(b.LinkedBlips) > 0 {
		m.SetList(fieldLinkedBlips, b.LinkedBlips)
	}
	if len(b.LinkedVaultPaths) > 0 {
		m.SetList(fieldLinkedVault, b.LinkedVaultPaths)
	}
	if b.PromotedTo != nil {
		// Promotion survives as a one-line JSON object.
		data, _ := json.Marshal(b.PromotedTo)
		m.Set(fieldPromotedTo, string(data))
	}

	return frontmatter.Doc{Meta: m, Body: renderBody(b.Content, b.Notes)}.Serialize()
}

// Decode parses an on-disk document back into a blip. An error marks the
// record malformed; callers skip such files rather than aborting.
func Decode(raw string) (*blip.Blip, error) {
	doc := frontmatter.Parse(raw)

	id := doc.Meta.Get(fieldID)
	if id == "" {
		return nil, fmt.Errorf("blip document has no id")
	}
	state, ok := blip.ParseState(doc.Meta.Get(fieldState))
	if !ok {
		return nil, fmt.Errorf("blip %s: unknown state %q", id, doc.Meta.Get(fieldState))
	}
	captured, ok := doc.Meta.GetTime(fieldCaptured)
	if !ok {
		return nil, fmt.Errorf("blip %s: missing or invalid captured timestamp", id)
	}

	content, notes := splitBody(doc.Body)

	b := &blip.Blip{
		ID:               id,
		Content:          content,
		Source:           blip.ParseSource(doc.Meta.Get(fieldSourceType), doc.Meta.Get(fieldSourceRef)),
		State:            state,
		Category:         doc.Meta.Get(fieldCategory),
		CapturedAt:       captured,
		SurfaceCount:     doc.Meta.GetInt(fieldSurfaceCount),
		Tags:             doc.Meta.GetList(fieldTags),
		Notes:            notes,
		LinkedBlips:      doc.Meta.GetList(fieldLinkedBlips),
		LinkedVaultPaths: doc.Meta.GetList(fieldLinkedVault),
	}

	if t, ok := doc.Meta.GetTime(fieldSurfaced); ok {
		b.LastSurfacedAt = &t
	}
	if t, ok := doc.Meta.GetTime(fieldUpdated); ok {
		b.LastUpdatedAt = &t
	}
	if t, ok := doc.Meta.GetTime(fieldNextSurface); ok {
		b.NextSurfaceAfter = &t
	}

	if v, ok := doc.Meta.Lookup(fieldPromotedTo); ok {
		var p blip.Promotion
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			return nil, fmt.Errorf("blip %s: invalid promoted_to: %w", id, err)
		}
		b.PromotedTo = &p
	}
	if (b.PromotedTo != nil) != (b.State == blip.StatePromoted) {
		return nil, fmt.Errorf("blip %s: promoted_to set iff state is promoted", id)
	}

	return b, nil
}

// renderBody lays out content plus the optional notes section.
func renderBody(content string, notes []string) string {
	var sb strings.Builder
	sb.WriteString(content)
	sb.WriteByte('\n')
	if len(notes) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(NotesHeading)
		sb.WriteByte('\n')
		for _, note := range notes {
			sb.WriteString("- ")
			sb.WriteString(note)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitBody is the inverse of renderBody: everything before the reserved
// heading is content, each "- " line after it is a note.
func splitBody(body string) (string, []string) {
	head, tail, found := strings.Cut(body, "\n"+NotesHeading+"\n")
	if !found {
		if after, ok := strings.CutPrefix(body, NotesHeading+"\n"); ok {
			head, tail, found = "", after, true
		}
	}
	content := strings.TrimSpace(head)
	if !found {
		return content, nil
	}

	var notes []string
	for _, line := range strings.Split(tail, "\n") {
		if note, ok := strings.CutPrefix(line, "- "); ok {
			notes = append(notes, note)
		}
	}
	return content, notes
}
