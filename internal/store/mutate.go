package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/errors"
)

// Every mutator follows the same contract: (false, nil) when the id does not
// exist, (false, err) when the mutation is invalid or persisting fails, and
// (true, nil) once the change is durably on disk. All are safe to retry.

// UpdateState moves a blip to a new lifecycle state. The promoted state is
// not reachable this way; it requires a promotion record, so only Promote
// can set it.
func (s *Store) UpdateState(id string, to blip.State) (bool, error) {
	if to == blip.StatePromoted {
		return false, errors.NewInvalidRequest(fmt.Sprintf("cannot set %s to promoted directly; promote it with a target", id))
	}
	return s.mutate(id, func(b *blip.Blip) error {
		if !b.State.CanTransition(to) {
			return errors.NewInvalidRequest(fmt.Sprintf("cannot transition %s from %s to %s", id, b.State, to))
		}
		b.State = to
		s.touch(b)
		return nil
	})
}

// AddNote appends a free-text annotation. The first note on a captured blip
// moves it to incubating.
func (s *Store) AddNote(id, note string) (bool, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return false, errors.NewInvalidRequest("note must not be empty")
	}
	return s.mutate(id, func(b *blip.Blip) error {
		b.Notes = append(b.Notes, note)
		if b.State == blip.StateCaptured {
			b.State = blip.StateIncubating
		}
		s.touch(b)
		return nil
	})
}

// Snooze hides a blip from surfacing for the given number of days and parks
// it in incubating.
func (s *Store) Snooze(id string, days int) (bool, error) {
	if days <= 0 {
		return false, errors.NewInvalidRequest("snooze days must be positive")
	}
	return s.mutate(id, func(b *blip.Blip) error {
		if b.State.Terminal() {
			return errors.NewInvalidRequest(fmt.Sprintf("cannot snooze %s blip %s", b.State, id))
		}
		until := s.now().Add(time.Duration(days) * 24 * time.Hour)
		b.NextSurfaceAfter = &until
		b.State = blip.StateIncubating
		s.touch(b)
		return nil
	})
}

// Archive moves a blip to the terminal archived state.
func (s *Store) Archive(id string) (bool, error) {
	return s.UpdateState(id, blip.StateArchived)
}

// MarkSurfaced records that the blip was shown: bumps the counter and the
// surfaced timestamp. It is a side effect only; state and last_updated are
// untouched.
func (s *Store) MarkSurfaced(id string) (bool, error) {
	return s.mutate(id, func(b *blip.Blip) error {
		now := s.now()
		b.LastSurfacedAt = &now
		b.SurfaceCount++
		return nil
	})
}

// Promote converts a blip into a longer-lived artifact and records where it
// went. Promoted is terminal.
func (s *Store) Promote(id string, target blip.PromotionType, path string) (bool, error) {
	if !blip.ValidPromotionType(target) {
		return false, errors.NewInvalidRequest(fmt.Sprintf("unknown promotion target %q", target))
	}
	if strings.TrimSpace(path) == "" {
		return false, errors.NewInvalidRequest("promotion path must not be empty")
	}
	return s.mutate(id, func(b *blip.Blip) error {
		if b.State.Terminal() {
			return errors.NewInvalidRequest(fmt.Sprintf("cannot promote %s blip %s", b.State, id))
		}
		b.State = blip.StatePromoted
		b.PromotedTo = &blip.Promotion{
			Type:       target,
			Path:       path,
			PromotedAt: s.now(),
		}
		s.touch(b)
		return nil
	})
}

// AddTags appends tags, deduplicated, insertion order preserved.
func (s *Store) AddTags(id string, tags ...string) (bool, error) {
	return s.mutate(id, func(b *blip.Blip) error {
		changed := false
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			var added bool
			b.Tags, added = blip.AppendUnique(b.Tags, tag)
			changed = changed || added
		}
		if changed {
			s.touch(b)
		}
		return nil
	})
}

// LinkToVault attaches an external document reference to the blip.
func (s *Store) LinkToVault(id, vaultPath string) (bool, error) {
	vaultPath = strings.TrimSpace(vaultPath)
	if vaultPath == "" {
		return false, errors.NewInvalidRequest("vault path must not be empty")
	}
	return s.mutate(id, func(b *blip.Blip) error {
		var added bool
		b.LinkedVaultPaths, added = blip.AppendUnique(b.LinkedVaultPaths, vaultPath)
		if added {
			s.touch(b)
		}
		return nil
	})
}

// Delete removes a blip's file. Links held by other blips are not cascaded;
// a dangling linked_blips entry is resolved lazily by whoever follows it.
func (s *Store) Delete(id string) (bool, error) {
	if _, ok := s.read(id); !ok {
		return false, nil
	}
	if err := os.Remove(s.path(id)); err != nil {
		return false, errors.NewPersistence("delete blip", err)
	}
	return true, nil
}
