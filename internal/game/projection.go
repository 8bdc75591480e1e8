package game

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/pairs/internal/scores"
)

// TileView is the client-facing representation of a tile.
// Kind is only included when the tile is face-up.
type TileView struct {
	Kind   *int `json:"kind"`
	Reveal bool `json:"reveal"`
}

// View is everything a client may learn about a party.
type View struct {
	Hash        string         `json:"hash"`
	Board       []TileView     `json:"board"`
	CurrentCard *int           `json:"current_card"`
	HasFailed   bool           `json:"has_failed"`
	IsWinner    bool           `json:"is_winner"`
	IsPartyOver bool           `json:"is_party_over"`
	Score       *scores.Record `json:"score"`
	MaxScore    int            `json:"max_score"`
	StartedAt   int64          `json:"started_at"`
}

// Project redacts hidden kinds from b.
func (b Board) Project() []TileView {
	out := make([]TileView, len(b))
	for i, t := range b {
		out[i].Reveal = t.FaceUp
		if t.FaceUp {
			out[i].Kind = intPtr(t.Kind)
		}
	}
	return out
}

// Project builds the client view of s.
func (e *Engine) Project(s *State) View {
	return View{
		Hash:        e.hasher.Sum(s.Board),
		Board:       s.Board.Project(),
		CurrentCard: s.CurrentCard,
		HasFailed:   s.HasFailed,
		IsWinner:    s.Winner,
		IsPartyOver: s.PartyOver,
		Score:       s.FinalScore,
		MaxScore:    int(e.rules.TimeLimit.Seconds()),
		StartedAt:   s.StartedAt.Unix(),
	}
}

// Hasher computes the board digest clients use to detect desync.
// The digest covers hidden kinds too, so a server key keeps it from being
// brute-forced back into the layout.
type Hasher struct {
	key []byte
}

// NewHasher derives a 32 byte BLAKE2b key from secret.
// An empty secret yields an unkeyed hasher.
func NewHasher(secret string) *Hasher {
	if secret == "" {
		return &Hasher{}
	}
	k := blake2b.Sum256([]byte(secret))
	return &Hasher{key: k[:]}
}

// Sum returns the hex BLAKE2b-256 of the canonical board encoding.
func (h *Hasher) Sum(b Board) string {
	// Board only holds ints and bools; Marshal cannot fail.
	raw, _ := json.Marshal(b)
	d, _ := blake2b.New256(h.key) // key is nil or 32 bytes
	d.Write(raw)
	return hex.EncodeToString(d.Sum(nil))
}
