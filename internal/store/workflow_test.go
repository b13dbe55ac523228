package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/blip/internal/blip"
)

// TestBlipLifecycle exercises the full path a blip can take:
// capture → note → tag → link → snooze → surface bookkeeping → promote.
func TestBlipLifecycle(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	// 1. Capture from discord
	src := blip.DiscordSource{ChannelID: "c1", MessageID: "m1", UserID: "u1"}
	b, err := s.Capture("try charm's bubbletea for the dashboard", src, "idea")
	require.NoError(t, err)
	require.Equal(t, blip.StateCaptured, b.State)
	require.Equal(t, src, b.Source)

	// 2. First note incubates
	ok, err := s.AddNote(b.ID, "maybe lipgloss alone is enough")
	require.NoError(t, err)
	require.True(t, ok)
	got, found := s.FindByID(b.ID)
	require.True(t, found)
	require.Equal(t, blip.StateIncubating, got.State)

	// 3. Tag and vault link
	ok, err = s.AddTags(b.ID, "tui", "go")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.LinkToVault(b.ID, "Projects/Dashboard.md")
	require.NoError(t, err)
	require.True(t, ok)

	// 4. Link to a sibling blip, symmetric
	other, err := s.Capture("dashboard needs a data layer first", blip.ManualSource{}, "idea")
	require.NoError(t, err)
	ok, err = s.LinkBlips(b.ID, other.ID)
	require.NoError(t, err)
	require.True(t, ok)
	gotOther, _ := s.FindByID(other.ID)
	require.Contains(t, gotOther.LinkedBlips, b.ID)

	// 5. Activate, surface a few times
	ok, err = s.UpdateState(b.ID, blip.StateActive)
	require.NoError(t, err)
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		ok, err = s.MarkSurfaced(b.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	got, _ = s.FindByID(b.ID)
	require.Equal(t, 3, got.SurfaceCount)
	require.Equal(t, blip.StateActive, got.State)

	// 6. Promote
	ok, err = s.Promote(b.ID, blip.PromoteProject, "Projects/Dashboard.md")
	require.NoError(t, err)
	require.True(t, ok)
	got, _ = s.FindByID(b.ID)
	require.Equal(t, blip.StatePromoted, got.State)
	require.NotNil(t, got.PromotedTo)
	require.NoError(t, got.Validate())

	// 7. Everything survives a reopen of the store
	reopened, err := New(s.Dir())
	require.NoError(t, err)
	again, found := reopened.FindByID(b.ID)
	require.True(t, found)
	require.Equal(t, got.Content, again.Content)
	require.Equal(t, got.Tags, again.Tags)
	require.Equal(t, got.Notes, again.Notes)
	require.Equal(t, got.PromotedTo.Path, again.PromotedTo.Path)
	require.Equal(t, src, again.Source)
}
