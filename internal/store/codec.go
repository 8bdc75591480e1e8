package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robalobadob/pairs/internal/game"
)

// codecVersion is bumped whenever the State layout changes incompatibly.
// Older payloads then read as "no state".
const codecVersion = 1

var ErrCorrupt = errors.New("corrupt game state")

type envelope struct {
	V     int         `json:"v"`
	State *game.State `json:"state"`
}

// Encode serializes s with a version envelope.
func Encode(s *game.State) ([]byte, error) {
	if s == nil {
		return nil, errors.New("encode nil state")
	}
	return json.Marshal(envelope{V: codecVersion, State: s})
}

// Decode parses and sanity-checks a payload produced by Encode.
func Decode(data []byte) (*game.State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.V != codecVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrCorrupt, env.V, codecVersion)
	}
	if err := check(env.State); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return env.State, nil
}

// check rejects states the engine could never have produced.
func check(s *game.State) error {
	switch {
	case s == nil:
		return errors.New("missing state")
	case len(s.Board) == 0:
		return errors.New("empty board")
	case s.StartedAt.IsZero():
		return errors.New("missing start time")
	case s.Winner && (!s.PartyOver || s.FinalScore == nil):
		return errors.New("winner without final score")
	}
	for i, t := range s.Board {
		if t.Kind < 0 || t.Kind >= game.MaxDistinctKinds {
			return fmt.Errorf("tile %d has kind %d", i, t.Kind)
		}
	}
	return nil
}
