// internal/play/game.go
//
// Game controller: the only thing a transport talks to.
// Responsibilities:
//   - Parse client action keywords into the closed Action set.
//   - Load the state from Storage once per controller, or start a new party.
//   - Dispatch the action to the engine and save the result.
//
// A controller is request-scoped: build one per request around the storage
// slot of the caller.

package play

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalobadob/pairs/internal/game"
	"github.com/robalobadob/pairs/internal/store"
)

var (
	ErrInvalidAction = errors.New("invalid game action")
	ErrEmptyState    = errors.New("cannot save: no game state loaded")
)

// Action is a client command.
type Action int

const (
	ActionReset Action = iota + 1
	ActionReveal
)

// ParseAction maps a keyword to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "reset":
		return ActionReset, nil
	case "reveal":
		return ActionReveal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

func (a Action) String() string {
	switch a {
	case ActionReset:
		return "reset"
	case ActionReveal:
		return "reveal"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Game binds an engine to one storage slot.
type Game struct {
	engine  *game.Engine
	storage store.Storage
	state   *game.State
}

// New constructs a controller. Nothing is loaded until State or Run.
func New(e *game.Engine, s store.Storage) *Game {
	return &Game{engine: e, storage: s}
}

// State returns the loaded state, loading it (or creating a new party) on
// first use.
func (g *Game) State(ctx context.Context) (*game.State, error) {
	if g.state != nil {
		return g.state, nil
	}
	s, err := g.storage.Get(ctx)
	switch {
	case err == nil:
		g.state = s
	case errors.Is(err, store.ErrNotFound):
		if g.state, err = g.engine.New(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}
	return g.state, nil
}

// Run applies an action. index is only read by ActionReveal.
func (g *Game) Run(ctx context.Context, a Action, index int) (*game.State, error) {
	switch a {
	case ActionReset:
		s, err := g.engine.New()
		if err != nil {
			return nil, err
		}
		g.state = s
		return s, nil
	case ActionReveal:
		s, err := g.State(ctx)
		if err != nil {
			return nil, err
		}
		if err := g.engine.Reveal(ctx, s, index); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, a)
	}
}

// Save writes the loaded state back to storage.
func (g *Game) Save(ctx context.Context) error {
	if g.state == nil {
		return ErrEmptyState
	}
	return g.storage.Set(ctx, g.state)
}

// View projects the loaded state for the client.
func (g *Game) View() (game.View, error) {
	if g.state == nil {
		return game.View{}, ErrEmptyState
	}
	return g.engine.Project(g.state), nil
}
