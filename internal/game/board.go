package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// MaxDistinctKinds is the number of tile faces the game ships artwork for.
const MaxDistinctKinds = 18

var (
	ErrInvalidBoardConfiguration = errors.New("invalid board configuration")
	ErrIndexOutOfRange           = errors.New("tile index out of range")
)

// shuffler matches rand.Shuffle so tests can plug in a seeded source.
type shuffler func(n int, swap func(i, j int))

// Generate builds a face-down board holding copiesPerKind tiles of every
// kind in [0, distinctKinds), uniformly shuffled.
func Generate(distinctKinds, copiesPerKind int) (Board, error) {
	return generate(distinctKinds, copiesPerKind, rand.Shuffle)
}

func generate(distinctKinds, copiesPerKind int, shuffle shuffler) (Board, error) {
	if err := validateDimensions(distinctKinds, copiesPerKind); err != nil {
		return nil, err
	}
	b := make(Board, 0, distinctKinds*copiesPerKind)
	for c := 0; c < copiesPerKind; c++ {
		for k := 0; k < distinctKinds; k++ {
			b = append(b, Tile{Kind: k})
		}
	}
	shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	return b, nil
}

func validateDimensions(distinctKinds, copiesPerKind int) error {
	switch {
	case distinctKinds < 1 || distinctKinds > MaxDistinctKinds:
		return fmt.Errorf("%w: %d distinct kinds (want 1..%d)", ErrInvalidBoardConfiguration, distinctKinds, MaxDistinctKinds)
	case copiesPerKind < 2:
		return fmt.Errorf("%w: %d copies per kind (want at least 2)", ErrInvalidBoardConfiguration, copiesPerKind)
	}
	return nil
}
