// Package surface decides which blips deserve the user's attention again.
// The ranking is a priority heuristic, not a correctness-critical sort: it
// exists to make a reasonable pick, not an optimal one.
package surface

import (
	"fmt"
	"sort"
	"time"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/store"
)

// Scoring weights.
const (
	scoreNeverSurfaced  = 100
	scorePerDayUnseen   = 10
	scoreRecentCapture  = 50
	scoreActive         = 30
	scoreHasNotes       = 20
	scoreRarelySurfaced = 15

	recentCaptureWindow = 24 * time.Hour
	rareSurfaceCount    = 3
)

// Suggestion pairs a surfaceable blip with its score, the headline reason it
// was picked, and suggested next moves.
type Suggestion struct {
	Blip   *blip.Blip `json:"blip"`
	Score  int        `json:"score"`
	Reason string     `json:"reason"`
	Moves  []Move     `json:"moves"`
}

// Engine ranks surfaceable blips read from a store.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

// NewEngine creates an engine over the given store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// Surface returns up to limit candidates, highest score first. Candidates are
// non-terminal blips whose snooze (if any) has expired. Ties keep the store's
// enumeration order.
func (e *Engine) Surface(limit int) []Suggestion {
	now := e.now()

	var out []Suggestion
	for _, b := range e.store.All() {
		if b.State.Terminal() {
			continue
		}
		if b.Snoozed(now) {
			continue
		}
		score, reason := Score(b, now)
		out = append(out, Suggestion{Blip: b, Score: score, Reason: reason})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Moves = SuggestedMoves(out[i].Blip)
	}
	return out
}

// Score computes a blip's surfacing priority and the reason string shown to
// the user. Later rules override the reason but keep accumulating score.
func Score(b *blip.Blip, now time.Time) (int, string) {
	score := 0
	reason := ""

	if b.LastSurfacedAt == nil {
		score += scoreNeverSurfaced
		reason = "New blip"
	} else {
		days := int(now.Sub(*b.LastSurfacedAt).Hours() / 24)
		score += scorePerDayUnseen * days
		reason = fmt.Sprintf("Not seen in %d days", days)
	}

	if now.Sub(b.CapturedAt) < recentCaptureWindow {
		score += scoreRecentCapture
		reason = "Recently captured"
	}

	if b.State == blip.StateActive {
		score += scoreActive
		reason = "Active blip"
	}

	if len(b.Notes) > 0 {
		score += scoreHasNotes
	}

	if b.SurfaceCount < rareSurfaceCount {
		score += scoreRarelySurfaced
	}

	return score, reason
}
