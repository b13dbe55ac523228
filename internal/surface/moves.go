package surface

import "github.com/hpungsan/blip/internal/blip"

// Move is a suggested next action for a surfaced blip.
type Move string

const (
	MoveElaborate Move = "elaborate"
	MoveSnooze    Move = "snooze"
	MoveArchive   Move = "archive"
	MovePromote   Move = "promote"
	MoveQuestion  Move = "question"
	MoveConnect   Move = "connect"
)

// maxMoves caps the suggestion list shown to the user.
const maxMoves = 4

// SuggestedMoves builds the ordered move list for a blip. Conditional moves
// are prepended in rule order, so the last rule that fires leads the list;
// the combined list is truncated to maxMoves.
func SuggestedMoves(b *blip.Blip) []Move {
	moves := []Move{MoveElaborate, MoveSnooze, MoveArchive}

	if b.SurfaceCount >= rareSurfaceCount {
		moves = append([]Move{MovePromote}, moves...)
	}
	if b.State == blip.StateCaptured {
		moves = append([]Move{MoveQuestion}, moves...)
	}
	if len(b.Notes) >= 2 {
		moves = append([]Move{MoveConnect}, moves...)
	}

	if len(moves) > maxMoves {
		moves = moves[:maxMoves]
	}
	return moves
}
