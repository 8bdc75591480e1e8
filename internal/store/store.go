// internal/store/store.go
//
// Game-state persistence across requests.
//
// Storage is the capability the game controller receives: one slot, already
// bound to whoever is playing. Two shapes exist:
//   - Memory:  a single in-process slot (tests, one-off contexts).
//   - Session: a slot keyed by session id inside a Backend (MemoryBackend or
//     SQLBackend), used by the HTTP server.
//
// Both store encoded bytes, never live pointers, so a caller mutating the
// *game.State it loaded cannot change what is stored until it calls Set.
// Undecodable data reads as ErrNotFound: a corrupt session starts a new game.

package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/game"
)

// ErrNotFound reports that no usable state exists for the slot.
var ErrNotFound = errors.New("not found")

// Storage loads and saves the state of a single party.
type Storage interface {
	// Get returns the stored state, or ErrNotFound.
	Get(ctx context.Context) (*game.State, error)

	// Set replaces the stored state.
	Set(ctx context.Context, s *game.State) error
}

// Backend persists encoded states keyed by session id.
// Implementations may be backed by memory (this package), SQL, Redis, etc.
type Backend interface {
	// Load returns the raw bytes for id, or ErrNotFound.
	Load(ctx context.Context, id string) ([]byte, error)

	// Save creates or replaces the bytes for id.
	Save(ctx context.Context, id string, data []byte) error
}

// decodeOrMiss turns corrupt data into ErrNotFound after logging it.
func decodeOrMiss(data []byte, where string) (*game.State, error) {
	s, err := Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("slot", where).Msg("discarding unreadable game state")
		return nil, ErrNotFound
	}
	return s, nil
}
