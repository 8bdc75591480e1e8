package game

import (
	"errors"
	"testing"

	"github.com/robalobadob/pairs/internal/scores"
)

func TestGenerateCounts(t *testing.T) {
	cases := []struct{ kinds, copies int }{
		{1, 2},
		{4, 3},
		{9, 4},
		{MaxDistinctKinds, 2},
	}
	for _, tc := range cases {
		b, err := Generate(tc.kinds, tc.copies)
		if err != nil {
			t.Fatalf("Generate(%d,%d): %v", tc.kinds, tc.copies, err)
		}
		if len(b) != tc.kinds*tc.copies {
			t.Fatalf("Generate(%d,%d) len = %d", tc.kinds, tc.copies, len(b))
		}
		counts := make(map[int]int)
		for _, tile := range b {
			if tile.FaceUp {
				t.Fatalf("generated tile is face-up")
			}
			counts[tile.Kind]++
		}
		if len(counts) != tc.kinds {
			t.Fatalf("Generate(%d,%d) has %d kinds", tc.kinds, tc.copies, len(counts))
		}
		for k := 0; k < tc.kinds; k++ {
			if counts[k] != tc.copies {
				t.Fatalf("kind %d appears %d times, want %d", k, counts[k], tc.copies)
			}
		}
	}
}

func TestGenerateRejectsBadDimensions(t *testing.T) {
	cases := []struct{ kinds, copies int }{
		{MaxDistinctKinds + 1, 2},
		{22, 2},
		{0, 2},
		{-3, 2},
		{4, 1},
	}
	for _, tc := range cases {
		if _, err := Generate(tc.kinds, tc.copies); !errors.Is(err, ErrInvalidBoardConfiguration) {
			t.Fatalf("Generate(%d,%d) err = %v", tc.kinds, tc.copies, err)
		}
	}
}

func TestGenerateIsRandom(t *testing.T) {
	h := NewHasher("")
	a, _ := Generate(MaxDistinctKinds, 2)
	b, _ := Generate(MaxDistinctKinds, 2)
	if h.Sum(a) == h.Sum(b) {
		t.Fatalf("two generated boards hashed identically")
	}
}

func TestSeededEnginesAgree(t *testing.T) {
	ledger := scores.NewMemoryLedger(nil)
	e1, _ := NewEngine(DefaultRules(), ledger, WithSeed(7))
	e2, _ := NewEngine(DefaultRules(), ledger, WithSeed(7))
	s1, _ := e1.New()
	s2, _ := e2.New()
	for i := range s1.Board {
		if s1.Board[i] != s2.Board[i] {
			t.Fatalf("seeded boards differ at %d", i)
		}
	}
}

func TestBoardCounters(t *testing.T) {
	b := Board{{Kind: 0, FaceUp: true}, {Kind: 0}, {Kind: 1}, {Kind: 1, FaceUp: true}, {Kind: 1}}
	if b.FaceDown() != 3 || b.Revealed() != 2 {
		t.Fatalf("FaceDown=%d Revealed=%d", b.FaceDown(), b.Revealed())
	}
	if b.FaceDownOf(0) != 1 || b.FaceDownOf(1) != 2 || b.FaceDownOf(5) != 0 {
		t.Fatalf("FaceDownOf mismatch")
	}
	c := b.Clone()
	c[0].FaceUp = false
	if !b[0].FaceUp {
		t.Fatalf("Clone shares memory")
	}
}
