// internal/game/types.go
//
// Core type definitions for the pairs game engine.
// Defines:
//   - Tile:  one position on the board (kind + face-up flag).
//   - Board: the ordered tile sequence.
//   - State: everything a single party needs to survive a request boundary.
//
// State is plain data. All transitions live on Engine (engine.go) so a State
// can be serialized by the store package without carrying behavior.

package game

import (
	"time"

	"github.com/robalobadob/pairs/internal/scores"
)

// Tile is a single card on the board.
type Tile struct {
	Kind   int  `json:"kind"`   // Shared by every tile of the same run.
	FaceUp bool `json:"reveal"` // True while the tile is shown to the player.
}

// Board is the ordered list of tiles. A tile's identity is its index.
type Board []Tile

// FaceDown counts tiles that are still hidden.
func (b Board) FaceDown() int {
	n := 0
	for _, t := range b {
		if !t.FaceUp {
			n++
		}
	}
	return n
}

// FaceDownOf counts hidden tiles of one kind.
func (b Board) FaceDownOf(kind int) int {
	n := 0
	for _, t := range b {
		if t.Kind == kind && !t.FaceUp {
			n++
		}
	}
	return n
}

// Revealed counts tiles that are face-up.
func (b Board) Revealed() int { return len(b) - b.FaceDown() }

// Clone returns a copy that shares no memory with b.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	copy(out, b)
	return out
}

// State holds one party, from board generation to win or timeout.
type State struct {
	Board       Board          `json:"board"`
	PendingKind *int           `json:"pending_kind,omitempty"` // Kind of the run in progress.
	CurrentCard *int           `json:"current_card,omitempty"` // Kind of the last clicked tile.
	HasFailed   bool           `json:"has_failed"`
	Winner      bool           `json:"winner"`
	PartyOver   bool           `json:"party_over"`
	StartedAt   time.Time      `json:"started_at"`
	FinalScore  *scores.Record `json:"final_score,omitempty"`
}

// Status values reported by State.Status.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusTimeout = "timeout"
)

// Status reports a coarse string representation of the party.
func (s *State) Status() string {
	switch {
	case s.Winner:
		return StatusWon
	case s.PartyOver:
		return StatusTimeout
	default:
		return StatusPlaying
	}
}

func intPtr(v int) *int { return &v }
