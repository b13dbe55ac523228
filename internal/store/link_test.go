package store

import (
	"testing"

	"github.com/hpungsan/blip/internal/errors"
)

func TestLinkBlips_Symmetric(t *testing.T) {
	s := newTestStore(t)
	a := mustCapture(t, s, "first")
	b := mustCapture(t, s, "second")

	ok, err := s.LinkBlips(a.ID, b.ID)
	if !ok || err != nil {
		t.Fatalf("LinkBlips = %v, %v", ok, err)
	}

	gotA, _ := s.FindByID(a.ID)
	gotB, _ := s.FindByID(b.ID)
	if len(gotA.LinkedBlips) != 1 || gotA.LinkedBlips[0] != b.ID {
		t.Errorf("a.linked = %v", gotA.LinkedBlips)
	}
	if len(gotB.LinkedBlips) != 1 || gotB.LinkedBlips[0] != a.ID {
		t.Errorf("b.linked = %v", gotB.LinkedBlips)
	}
}

func TestLinkBlips_Idempotent(t *testing.T) {
	s := newTestStore(t)
	a := mustCapture(t, s, "first")
	b := mustCapture(t, s, "second")

	for i := 0; i < 2; i++ {
		if ok, err := s.LinkBlips(a.ID, b.ID); !ok || err != nil {
			t.Fatalf("LinkBlips = %v, %v", ok, err)
		}
	}
	// Linking in the other direction is the same link.
	if ok, err := s.LinkBlips(b.ID, a.ID); !ok || err != nil {
		t.Fatalf("reverse LinkBlips = %v, %v", ok, err)
	}

	gotA, _ := s.FindByID(a.ID)
	gotB, _ := s.FindByID(b.ID)
	if len(gotA.LinkedBlips) != 1 || len(gotB.LinkedBlips) != 1 {
		t.Errorf("links duplicated: a=%v b=%v", gotA.LinkedBlips, gotB.LinkedBlips)
	}
}

func TestLinkBlips_MissingSideTouchesNeither(t *testing.T) {
	s := newTestStore(t)
	a := mustCapture(t, s, "alone")

	ok, err := s.LinkBlips(a.ID, "01JMISSING0000000000000000")
	if ok || err != nil {
		t.Fatalf("LinkBlips with missing side = (%v, %v), want (false, nil)", ok, err)
	}

	gotA, _ := s.FindByID(a.ID)
	if len(gotA.LinkedBlips) != 0 {
		t.Errorf("a.linked = %v, want untouched", gotA.LinkedBlips)
	}
}

func TestLinkBlips_SelfLink(t *testing.T) {
	s := newTestStore(t)
	a := mustCapture(t, s, "narcissist")

	if _, err := s.LinkBlips(a.ID, a.ID); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("self link should be invalid, got %v", err)
	}
}
