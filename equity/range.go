// Package equity estimates Pot-Limit Omaha showdown equity via Monte Carlo
// simulation, including the double-board bomb-pot variant.
package equity

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

var (
	// ErrInsufficientDeck indicates the deck cannot supply the cards a
	// sampling or board-completion step requires.
	ErrInsufficientDeck = errors.New("insufficient cards in deck")

	// ErrConfig indicates an invalid simulation parameter.
	ErrConfig = errors.New("invalid simulation config")
)

// Range describes the holdings an opponent can be dealt. SampleHand draws a
// 4-card hand consistent with the range, removing the drawn cards from the
// deck. Implementations must only depend on the deck and the supplied random
// source so sampling stays reproducible under a fixed seed.
type Range interface {
	SampleHand(deck *poker.Deck, rng *rand.Rand) (poker.Hand, error)
}

// RandomRange samples any four remaining cards uniformly.
type RandomRange struct{}

func (RandomRange) SampleHand(deck *poker.Deck, rng *rand.Rand) (poker.Hand, error) {
	cards := deck.DrawRandom(4, rng)
	if cards == nil {
		return 0, fmt.Errorf("%w: need 4 cards, have %d", ErrInsufficientDeck, deck.CardsRemaining())
	}
	return poker.NewHand(cards...), nil
}

// ExplicitRange samples uniformly from an enumerated set of 4-card hands.
// Hands blocked by cards no longer in the deck are excluded.
type ExplicitRange struct {
	hands []poker.Hand
}

// NewExplicitRange builds a range from hole-card hands given as card tokens,
// four per hand.
func NewExplicitRange(hands ...[]string) (*ExplicitRange, error) {
	r := &ExplicitRange{hands: make([]poker.Hand, 0, len(hands))}
	for _, tokens := range hands {
		hand, err := poker.ParseHand(tokens)
		if err != nil {
			return nil, err
		}
		if hand.CountCards() != 4 {
			return nil, fmt.Errorf("%w: range hand needs 4 cards, got %d", ErrConfig, hand.CountCards())
		}
		r.hands = append(r.hands, hand)
	}
	if len(r.hands) == 0 {
		return nil, fmt.Errorf("%w: empty range", ErrConfig)
	}
	return r, nil
}

// Size returns the number of combinations in the range.
func (r *ExplicitRange) Size() int {
	return len(r.hands)
}

func (r *ExplicitRange) SampleHand(deck *poker.Deck, rng *rand.Rand) (poker.Hand, error) {
	live := make([]poker.Hand, 0, len(r.hands))
	for _, h := range r.hands {
		if deck.ContainsHand(h) {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return 0, fmt.Errorf("%w: no range combination consistent with remaining deck", ErrInsufficientDeck)
	}
	hand := live[rng.IntN(len(live))]
	if err := deck.RemoveHand(hand); err != nil {
		return 0, err
	}
	return hand, nil
}

// CategoryRange samples hands at or above a minimum preflop category by
// rejection. When the remaining deck cannot produce a qualifying hand the
// draw fails rather than dealing outside the range.
type CategoryRange struct {
	Minimum poker.HoleCardCategory
}

const categorySampleAttempts = 200

var categoryOrder = map[poker.HoleCardCategory]int{
	poker.CategoryTrash:   0,
	poker.CategoryWeak:    1,
	poker.CategoryMedium:  2,
	poker.CategoryStrong:  3,
	poker.CategoryPremium: 4,
}

func (r CategoryRange) SampleHand(deck *poker.Deck, rng *rand.Rand) (poker.Hand, error) {
	if deck.CardsRemaining() < 4 {
		return 0, fmt.Errorf("%w: need 4 cards, have %d", ErrInsufficientDeck, deck.CardsRemaining())
	}
	floor := categoryOrder[r.Minimum]
	for attempt := 0; attempt < categorySampleAttempts; attempt++ {
		trial := deck.Clone()
		hand := poker.NewHand(trial.DrawRandom(4, rng)...)
		if categoryOrder[poker.CategorizeHoleCards(hand)] >= floor {
			if err := deck.RemoveHand(hand); err != nil {
				return 0, err
			}
			return hand, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s-or-better combination found in %d attempts",
		ErrInsufficientDeck, r.Minimum, categorySampleAttempts)
}

// SampleOpponents draws count disjoint 4-card hands from the deck, honouring
// the per-opponent ranges where given (nil entries and a nil slice both mean
// uniform sampling). boardNeeded cards must stay available for board
// completion after sampling.
func SampleOpponents(deck *poker.Deck, count int, ranges []Range, boardNeeded int, rng *rand.Rand) ([]poker.Hand, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: opponent count must be positive, got %d", ErrConfig, count)
	}
	if ranges != nil && len(ranges) != count {
		return nil, fmt.Errorf("%w: %d ranges for %d opponents", ErrConfig, len(ranges), count)
	}
	if deck.CardsRemaining() < count*4+boardNeeded {
		return nil, fmt.Errorf("%w: need %d cards for %d opponents plus %d board, have %d",
			ErrInsufficientDeck, count*4+boardNeeded, count, boardNeeded, deck.CardsRemaining())
	}

	hands := make([]poker.Hand, count)
	for i := range hands {
		var oppRange Range = RandomRange{}
		if ranges != nil && ranges[i] != nil {
			oppRange = ranges[i]
		}
		hand, err := oppRange.SampleHand(deck, rng)
		if err != nil {
			return nil, fmt.Errorf("sampling opponent %d: %w", i, err)
		}
		hands[i] = hand
	}
	return hands, nil
}
