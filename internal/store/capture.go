package store

import (
	"strings"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/errors"
)

// Capture creates a new blip and persists it before returning.
// Content is trimmed; a nil source is recorded as a bare manual capture.
func (s *Store) Capture(content string, source blip.Source, category string) (*blip.Blip, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewInvalidRequest("content must not be empty")
	}
	if source == nil {
		source = blip.ManualSource{}
	}

	id, err := newID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	b := &blip.Blip{
		ID:         id,
		Content:    content,
		Source:     source,
		State:      blip.StateCaptured,
		Category:   strings.TrimSpace(category),
		CapturedAt: s.now(),
	}

	if err := s.write(b); err != nil {
		return nil, err
	}
	return b, nil
}
