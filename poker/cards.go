package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Card represents a single card as a bit position in a uint64.
// Layout: [13 spades][13 hearts][13 diamonds][13 clubs], one bit per card,
// which makes dead-card removal and duplicate detection single AND/OR ops.
type Card uint64

// Hand is also a uint64 but can contain multiple cards (multiple bits set).
// It is used for hole cards, boards, and any other card set.
type Hand uint64

// Suit constants
const (
	Clubs    uint8 = 0
	Diamonds uint8 = 1
	Hearts   uint8 = 2
	Spades   uint8 = 3
)

// Rank constants (0-12 for 2-A)
const (
	Two   uint8 = 0
	Three uint8 = 1
	Four  uint8 = 2
	Five  uint8 = 3
	Six   uint8 = 4
	Seven uint8 = 5
	Eight uint8 = 6
	Nine  uint8 = 7
	Ten   uint8 = 8
	Jack  uint8 = 9
	Queen uint8 = 10
	King  uint8 = 11
	Ace   uint8 = 12
)

// Parse and validation errors. Callers match with errors.Is.
var (
	ErrInvalidCard   = errors.New("invalid card")
	ErrDuplicateCard = errors.New("duplicate card")
)

// NewCard creates a card from rank and suit.
func NewCard(rank, suit uint8) Card {
	offset := suit*13 + rank
	return Card(1) << offset
}

// GetBitPosition returns which bit position this card occupies (0-51).
func (c Card) GetBitPosition() uint8 {
	if c == 0 {
		return 255
	}
	return uint8(bits.TrailingZeros64(uint64(c)))
}

// Rank returns the rank of the card (0-12).
func (c Card) Rank() uint8 {
	pos := c.GetBitPosition()
	if pos == 255 {
		return 255
	}
	return pos % 13
}

// Suit returns the suit of the card (0-3).
func (c Card) Suit() uint8 {
	pos := c.GetBitPosition()
	if pos == 255 {
		return 255
	}
	return pos / 13
}

// String returns the canonical two-character representation (e.g. "As", "Kh").
func (c Card) String() string {
	ranks := "23456789TJQKA"
	suits := "cdhs"

	rank := c.Rank()
	suit := c.Suit()

	if rank > 12 || suit > 3 {
		return "??"
	}

	return string(ranks[rank]) + string(suits[suit])
}

// suit glyph normalisation applied before per-card parsing. Both the filled
// and outline Unicode suit symbols are accepted.
var suitGlyphs = strings.NewReplacer(
	"♠", "s", "♤", "s",
	"♥", "h", "♡", "h",
	"♦", "d", "♢", "d",
	"♣", "c", "♧", "c",
)

// ParseCard parses a string like "As" or "A♠" into a Card.
func ParseCard(s string) (Card, error) {
	s = suitGlyphs.Replace(s)
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	var rank uint8
	switch s[0] {
	case '2':
		rank = Two
	case '3':
		rank = Three
	case '4':
		rank = Four
	case '5':
		rank = Five
	case '6':
		rank = Six
	case '7':
		rank = Seven
	case '8':
		rank = Eight
	case '9':
		rank = Nine
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, s[0])
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return 0, fmt.Errorf("%w: suit %q", ErrInvalidCard, s[1])
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a batch of card tokens into a slice of cards, rejecting
// any token that repeats a card already seen in the batch.
func ParseCards(tokens []string) ([]Card, error) {
	var seen Hand
	cards := make([]Card, 0, len(tokens))
	for _, tok := range tokens {
		card, err := ParseCard(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		if seen.HasCard(card) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, card)
		}
		seen.AddCard(card)
		cards = append(cards, card)
	}
	return cards, nil
}

// ParseHand parses card tokens directly into a bit-packed Hand.
func ParseHand(tokens []string) (Hand, error) {
	cards, err := ParseCards(tokens)
	if err != nil {
		return 0, err
	}
	return NewHand(cards...), nil
}

// MustParseCard parses a card and panics on error (for tests).
func MustParseCard(s string) Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse card %q: %v", s, err))
	}
	return card
}

// MustParseHand parses card tokens and panics on error (for tests).
func MustParseHand(tokens ...string) Hand {
	hand, err := ParseHand(tokens)
	if err != nil {
		panic(fmt.Sprintf("failed to parse hand %v: %v", tokens, err))
	}
	return hand
}

// NewHand creates a hand from multiple cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard checks if the hand contains a specific card.
func (h Hand) HasCard(c Card) bool {
	return (h & Hand(c)) != 0
}

// Overlaps reports whether the two hands share any card.
func (h Hand) Overlaps(other Hand) bool {
	return h&other != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// Cards returns the individual cards in ascending bit order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	rest := uint64(h)
	for rest != 0 {
		low := rest & -rest
		cards = append(cards, Card(low))
		rest &^= low
	}
	return cards
}

// GetSuitMask returns the cards of a specific suit as a 13-bit rank mask.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	offset := suit * 13
	return uint16((h >> offset) & 0x1FFF)
}

// String returns the cards space-separated in ascending bit order.
func (h Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
