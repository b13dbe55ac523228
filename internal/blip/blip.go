// Package blip defines the entity model for captured notes: the Blip record,
// its tagged Source variants, and the lifecycle state machine. The package is
// pure; persistence lives in internal/store.
package blip

import (
	"fmt"
	"time"
)

// PromotionType is the kind of artifact a blip was promoted into.
type PromotionType string

const (
	PromoteGoal    PromotionType = "goal"
	PromoteProject PromotionType = "project"
	PromoteTask    PromotionType = "task"
	PromoteNote    PromotionType = "note"
)

// ValidPromotionType reports whether t is a known promotion target.
func ValidPromotionType(t PromotionType) bool {
	switch t {
	case PromoteGoal, PromoteProject, PromoteTask, PromoteNote:
		return true
	}
	return false
}

// Promotion records where a promoted blip went. Present iff State is promoted.
type Promotion struct {
	Type       PromotionType `json:"type"`
	Path       string        `json:"path"`
	PromotedAt time.Time     `json:"promoted_at"`
}

// Blip is the unit of capture: a small unstructured note awaiting processing.
type Blip struct {
	// ID is a ULID, immutable for the blip's lifetime and used as the
	// file's base name on disk.
	ID string `json:"id"`

	// Content is the free-text body, trimmed at capture time.
	Content string `json:"content"`

	// Source records where the capture came from.
	Source Source `json:"-"`

	State    State  `json:"state"`
	Category string `json:"category,omitempty"`

	// CapturedAt is set once at capture and never changes.
	CapturedAt time.Time `json:"captured_at"`

	LastUpdatedAt  *time.Time `json:"last_updated_at,omitempty"`
	LastSurfacedAt *time.Time `json:"last_surfaced_at,omitempty"`

	// SurfaceCount is how many times the blip has been shown; it only grows.
	SurfaceCount int `json:"surface_count"`

	// NextSurfaceAfter excludes the blip from surfacing while in the future.
	NextSurfaceAfter *time.Time `json:"next_surface_after,omitempty"`

	Tags  []string `json:"tags,omitempty"`
	Notes []string `json:"notes,omitempty"`

	// LinkedBlips is symmetric: if A lists B then B lists A. Deleting a blip
	// does not cascade, so entries may dangle; callers resolving a link must
	// treat a missing target as already gone.
	LinkedBlips []string `json:"linked_blips,omitempty"`

	// LinkedVaultPaths are lookup-only references to external documents.
	LinkedVaultPaths []string `json:"linked_vault_paths,omitempty"`

	// PromotedTo is set iff State == StatePromoted.
	PromotedTo *Promotion `json:"promoted_to,omitempty"`
}

// Snoozed reports whether the blip is excluded from surfacing at now.
func (b *Blip) Snoozed(now time.Time) bool {
	return b.NextSurfaceAfter != nil && b.NextSurfaceAfter.After(now)
}

// HasTag reports whether tag is already present.
func (b *Blip) HasTag(tag string) bool {
	return contains(b.Tags, tag)
}

// Validate checks the record-level invariants. Stored records always pass;
// the check exists for tests and for guarding hand-built records.
func (b *Blip) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("blip has no id")
	}
	if !b.State.Valid() {
		return fmt.Errorf("blip %s: invalid state %q", b.ID, b.State)
	}
	if b.SurfaceCount < 0 {
		return fmt.Errorf("blip %s: negative surface count", b.ID)
	}
	if (b.PromotedTo != nil) != (b.State == StatePromoted) {
		return fmt.Errorf("blip %s: promoted_to set iff state is promoted", b.ID)
	}
	for name, set := range map[string][]string{
		"tags":         b.Tags,
		"linked_blips": b.LinkedBlips,
		"linked_vault": b.LinkedVaultPaths,
	} {
		if hasDuplicate(set) {
			return fmt.Errorf("blip %s: duplicate entry in %s", b.ID, name)
		}
	}
	return nil
}

// AppendUnique adds v to list unless already present, reporting whether the
// list changed. Insertion order is preserved.
func AppendUnique(list []string, v string) ([]string, bool) {
	if contains(list, v) {
		return list, false
	}
	return append(list, v), true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func hasDuplicate(list []string) bool {
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		if seen[item] {
			return true
		}
		seen[item] = true
	}
	return false
}
