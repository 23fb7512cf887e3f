package poker

import (
	"errors"
	rand "math/rand/v2"
	"testing"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	if deck.CardsRemaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", deck.CardsRemaining())
	}
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			if !deck.Contains(NewCard(rank, suit)) {
				t.Errorf("deck missing %s", NewCard(rank, suit))
			}
		}
	}
}

func TestDeckRemove(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	as := MustParseCard("As")
	kh := MustParseCard("Kh")

	if err := deck.Remove(as, kh); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if deck.CardsRemaining() != 50 {
		t.Errorf("expected 50 cards, got %d", deck.CardsRemaining())
	}
	if deck.Contains(as) || deck.Contains(kh) {
		t.Error("removed cards still in deck")
	}

	// Removing an absent card is a removal conflict.
	if err := deck.Remove(as); !errors.Is(err, ErrDuplicateCard) {
		t.Errorf("expected ErrDuplicateCard for re-removal, got %v", err)
	}
}

func TestDeckRemoveAtomic(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	qd := MustParseCard("Qd")

	// A batch naming the same card twice fails and must leave the deck intact.
	err := deck.Remove(qd, MustParseCard("Jc"), qd)
	if !errors.Is(err, ErrDuplicateCard) {
		t.Fatalf("expected ErrDuplicateCard, got %v", err)
	}
	if deck.CardsRemaining() != 52 {
		t.Errorf("deck modified by failed removal: %d cards", deck.CardsRemaining())
	}
	if !deck.Contains(qd) {
		t.Error("Qd missing after failed removal")
	}
}

func TestDeckRemoveHand(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	hand := MustParseHand("As", "Kh", "Qd", "Jc")
	if err := deck.RemoveHand(hand); err != nil {
		t.Fatalf("RemoveHand failed: %v", err)
	}
	if deck.CardsRemaining() != 48 {
		t.Errorf("expected 48 cards, got %d", deck.CardsRemaining())
	}
}

func TestDrawRandom(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	rng := rand.New(rand.NewPCG(42, 99))

	drawn := deck.DrawRandom(5, rng)
	if len(drawn) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(drawn))
	}
	if deck.CardsRemaining() != 47 {
		t.Errorf("expected 47 remaining, got %d", deck.CardsRemaining())
	}

	var seen Hand
	for _, c := range drawn {
		if seen.HasCard(c) {
			t.Errorf("card %s drawn twice", c)
		}
		seen.AddCard(c)
		if deck.Contains(c) {
			t.Errorf("drawn card %s still in deck", c)
		}
	}
}

func TestDrawRandomDeterministic(t *testing.T) {
	t.Parallel()
	a := NewDeck()
	b := NewDeck()
	rngA := rand.New(rand.NewPCG(7, 7))
	rngB := rand.New(rand.NewPCG(7, 7))

	drawnA := a.DrawRandom(10, rngA)
	drawnB := b.DrawRandom(10, rngB)
	for i := range drawnA {
		if drawnA[i] != drawnB[i] {
			t.Fatalf("draw %d differs: %s vs %s", i, drawnA[i], drawnB[i])
		}
	}
}

func TestDrawRandomInsufficient(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	rng := rand.New(rand.NewPCG(1, 2))
	deck.DrawRandom(50, rng)
	if drawn := deck.DrawRandom(3, rng); drawn != nil {
		t.Errorf("expected nil when drawing 3 from 2, got %v", drawn)
	}
	if deck.CardsRemaining() != 2 {
		t.Errorf("failed draw modified deck: %d remaining", deck.CardsRemaining())
	}
}

func TestDeckClone(t *testing.T) {
	t.Parallel()
	deck := NewDeck()
	if err := deck.Remove(MustParseCard("As")); err != nil {
		t.Fatal(err)
	}

	clone := deck.Clone()
	rng := rand.New(rand.NewPCG(3, 4))
	clone.DrawRandom(20, rng)

	if deck.CardsRemaining() != 51 {
		t.Errorf("drawing from clone changed original: %d remaining", deck.CardsRemaining())
	}
	if clone.CardsRemaining() != 31 {
		t.Errorf("expected 31 in clone, got %d", clone.CardsRemaining())
	}
}
