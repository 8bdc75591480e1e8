// internal/game/engine.go
//
// Rules engine for a single pairs party.
// Responsibilities:
//   - Create new parties (shuffled board, fresh start time).
//   - Apply reveals: start a run, extend it, close it, or break it.
//   - Detect the two terminal states: board cleared (won) and time limit exceeded.
//   - Record the final score in the ledger exactly once, on the winning reveal.
//
// Notes:
//   - The clock is injectable so the time limit can be exercised in tests.
//   - A run spans CopiesPerKind tiles: with 3 copies a run closes on the third match.

package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robalobadob/pairs/internal/scores"
)

// Rules are the per-process game parameters.
type Rules struct {
	DistinctKinds int
	CopiesPerKind int
	TimeLimit     time.Duration // Reported to clients as max_score (seconds).
}

// DefaultRules is the classic 18 pairs against a three minute clock.
func DefaultRules() Rules {
	return Rules{
		DistinctKinds: MaxDistinctKinds,
		CopiesPerKind: 2,
		TimeLimit:     180 * time.Second,
	}
}

// Validate checks the board dimensions and the time limit.
func (r Rules) Validate() error {
	if err := validateDimensions(r.DistinctKinds, r.CopiesPerKind); err != nil {
		return err
	}
	if r.TimeLimit < time.Second {
		return fmt.Errorf("%w: time limit %s", ErrInvalidBoardConfiguration, r.TimeLimit)
	}
	return nil
}

// Ledger receives the score of every won party.
type Ledger interface {
	Append(ctx context.Context, elapsedSeconds int) (scores.Record, error)
}

// Engine applies the game rules to State values.
// It holds no per-party data and is safe for concurrent use.
type Engine struct {
	rules   Rules
	ledger  Ledger
	now     func() time.Time
	shuffle shuffler
	hasher  *Hasher
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSeed makes board generation reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		var mu sync.Mutex
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		e.shuffle = func(n int, swap func(i, j int)) {
			mu.Lock()
			defer mu.Unlock()
			r.Shuffle(n, swap)
		}
	}
}

// WithHasher sets the board digest used by Project.
func WithHasher(h *Hasher) Option {
	return func(e *Engine) { e.hasher = h }
}

// NewEngine validates rules and returns a ready engine.
func NewEngine(rules Rules, ledger Ledger, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, errors.New("game: nil ledger")
	}
	e := &Engine{
		rules:   rules,
		ledger:  ledger,
		now:     time.Now,
		shuffle: rand.Shuffle,
		hasher:  NewHasher(""),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules returns the engine configuration.
func (e *Engine) Rules() Rules { return e.rules }

// New starts a brand-new party. It is also the reset transition: nothing of
// a previous state survives.
func (e *Engine) New() (*State, error) {
	b, err := generate(e.rules.DistinctKinds, e.rules.CopiesPerKind, e.shuffle)
	if err != nil {
		return nil, err
	}
	return &State{Board: b, StartedAt: e.now()}, nil
}

// Reveal applies a click on the tile at index.
//
// Order of checks:
//   - index must be on the board (ErrIndexOutOfRange otherwise);
//   - a finished party ignores the click;
//   - an expired clock ends the party before the click is considered.
//
// Outcomes:
//   - no run pending → the tile opens a new run;
//   - same kind as the run → the tile stays up; the run closes once every
//     tile of that kind is up, and the party is won once every tile is up;
//   - different kind → every face-up tile of the pending kind flips back,
//     the clicked tile stays hidden and HasFailed is set.
func (e *Engine) Reveal(ctx context.Context, s *State, index int) error {
	if index < 0 || index >= len(s.Board) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.Board))
	}
	if s.PartyOver {
		return nil
	}
	now := e.now()
	if now.Sub(s.StartedAt) > e.rules.TimeLimit {
		s.PartyOver = true
		return nil
	}

	kind := s.Board[index].Kind
	failed := false

	switch {
	case s.PendingKind == nil:
		s.Board[index].FaceUp = true
		s.PendingKind = intPtr(kind)

	case *s.PendingKind == kind:
		// The last hidden tile on the board wins the party; the score must be
		// stored before anything changes so a ledger failure leaves s intact.
		if !s.Board[index].FaceUp && s.Board.FaceDown() == 1 {
			rec, err := e.ledger.Append(ctx, elapsedSeconds(s.StartedAt, now))
			if err != nil {
				return fmt.Errorf("record score: %w", err)
			}
			s.FinalScore = &rec
			s.Winner, s.PartyOver = true, true
		}
		s.Board[index].FaceUp = true
		if s.Board.FaceDownOf(kind) == 0 {
			s.PendingKind = nil
		}

	default:
		pending := *s.PendingKind
		for i := range s.Board {
			if s.Board[i].Kind == pending {
				s.Board[i].FaceUp = false
			}
		}
		s.PendingKind = nil
		failed = true
	}

	s.CurrentCard = intPtr(kind)
	s.HasFailed = failed
	return nil
}

// Elapsed reports whole seconds since the party started, as the ledger
// would record them right now.
func (e *Engine) Elapsed(s *State) int { return elapsedSeconds(s.StartedAt, e.now()) }

func elapsedSeconds(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
