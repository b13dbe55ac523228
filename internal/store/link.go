package store

import (
	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/errors"
)

// LinkBlips records a symmetric link between two blips: both sides are
// updated or neither is. Linking the same pair twice is a no-op.
func (s *Store) LinkBlips(a, b string) (bool, error) {
	if a == b {
		return false, errors.NewInvalidRequest("cannot link a blip to itself")
	}

	first, ok := s.read(a)
	if !ok {
		return false, nil
	}
	second, ok := s.read(b)
	if !ok {
		return false, nil
	}

	var changedA, changedB bool
	first.LinkedBlips, changedA = blip.AppendUnique(first.LinkedBlips, b)
	second.LinkedBlips, changedB = blip.AppendUnique(second.LinkedBlips, a)
	if !changedA && !changedB {
		return true, nil
	}
	s.touch(first)
	s.touch(second)

	// Two files cannot be renamed atomically together; keep the original of
	// the first so a failed second write can be rolled back.
	original, _ := s.read(a)
	if err := s.write(first); err != nil {
		return false, err
	}
	if err := s.write(second); err != nil {
		if original != nil {
			// Best effort restore; the link error is the one worth reporting.
			_ = s.write(original)
		}
		return false, err
	}
	return true, nil
}
