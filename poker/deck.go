package poker

import (
	"fmt"
	rand "math/rand/v2"
)

// Deck holds the cards still available to be dealt for one simulation trial.
// A fresh deck is the full 52-card universe; removing the cards already
// assigned to hands and boards keeps the invariant
// remaining + assigned == 52 for the trial.
type Deck struct {
	cards []Card
	held  Hand
}

// NewDeck returns a full 52-card deck in canonical order.
func NewDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			card := NewCard(rank, suit)
			d.cards = append(d.cards, card)
			d.held.AddCard(card)
		}
	}
	return d
}

// Remove takes the given cards out of the deck. It fails with
// ErrDuplicateCard when a card is not present (already removed) or appears
// twice in the batch, leaving the deck unchanged on error.
func (d *Deck) Remove(cards ...Card) error {
	var batch Hand
	for _, c := range cards {
		if batch.HasCard(c) {
			return fmt.Errorf("%w: %s listed twice", ErrDuplicateCard, c)
		}
		if !d.held.HasCard(c) {
			return fmt.Errorf("%w: %s not in deck", ErrDuplicateCard, c)
		}
		batch.AddCard(c)
	}

	d.held &^= batch
	kept := d.cards[:0]
	for _, c := range d.cards {
		if !batch.HasCard(c) {
			kept = append(kept, c)
		}
	}
	d.cards = kept
	return nil
}

// RemoveHand removes every card of a bit-packed hand from the deck.
func (d *Deck) RemoveHand(h Hand) error {
	return d.Remove(h.Cards()...)
}

// DrawRandom removes and returns n cards drawn uniformly at random without
// replacement, using the injected random source. Returns nil if the deck
// holds fewer than n cards.
func (d *Deck) DrawRandom(n int, rng *rand.Rand) []Card {
	if n > len(d.cards) {
		return nil
	}
	// Partial Fisher-Yates: drawn cards collect at the tail.
	last := len(d.cards) - 1
	for i := 0; i < n; i++ {
		j := rng.IntN(last - i + 1)
		d.cards[j], d.cards[last-i] = d.cards[last-i], d.cards[j]
	}
	drawn := make([]Card, n)
	copy(drawn, d.cards[len(d.cards)-n:])
	d.cards = d.cards[:len(d.cards)-n]
	for _, c := range drawn {
		d.held &^= Hand(c)
	}
	return drawn
}

// Contains reports whether the card is still in the deck.
func (d *Deck) Contains(c Card) bool {
	return d.held.HasCard(c)
}

// ContainsHand reports whether every card of the hand is still in the deck.
func (d *Deck) ContainsHand(h Hand) bool {
	return d.held&h == h
}

// CardsRemaining returns the number of cards left in the deck.
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Clone returns an independent copy of the deck.
func (d *Deck) Clone() *Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return &Deck{cards: cards, held: d.held}
}
