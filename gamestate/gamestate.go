// Package gamestate models a single Pot-Limit Omaha decision point: the
// board(s), pot, stacks, betting history, and player ranges a solver or
// equity query operates on.
package gamestate

import (
	"errors"
	"fmt"

	"github.com/lcrostarosa/ploscope-stack-sub005/equity"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

// ErrInvalidGameState indicates a game state that fails validation. Callers
// match with errors.Is.
var ErrInvalidGameState = errors.New("invalid game state")

// Street identifies the betting round.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// BoardCards returns the number of board cards the street requires.
func (s Street) BoardCards() int {
	switch s {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	default:
		return 5
	}
}

// Next returns the following street. River has no successor; callers check
// with IsLast first.
func (s Street) Next() Street {
	if s >= River {
		return River
	}
	return s + 1
}

// IsLast reports whether this is the final betting round.
func (s Street) IsLast() bool {
	return s >= River
}

// ActionKind discriminates the betting action variants.
type ActionKind uint8

const (
	ActionFold ActionKind = iota
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
)

func (k ActionKind) String() string {
	switch k {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionBet:
		return "bet"
	case ActionRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// Action is one entry of the betting history. Amount is the chips committed
// by the action; it is zero for folds and checks.
type Action struct {
	Player int
	Kind   ActionKind
	Amount float64
}

func (a Action) String() string {
	if a.Amount > 0 {
		return fmt.Sprintf("p%d %s %.2f", a.Player, a.Kind, a.Amount)
	}
	return fmt.Sprintf("p%d %s", a.Player, a.Kind)
}

// GameState describes one decision point. It is created per analysis
// request, treated as read-only during solving, and discarded afterwards.
// Stacks is indexed by player seat; Active lists the seats still in the
// hand. Ranges optionally constrains non-hero players (nil entries mean a
// uniform random holding).
type GameState struct {
	Street  Street
	Pot     float64
	Stacks  []float64
	History []Action
	Active  []int

	Board       poker.Hand
	BottomBoard poker.Hand // set only for double-board (bomb pot) spots

	Hero     int
	HeroHole poker.Hand

	Ranges map[int]equity.Range
}

// Validate checks structural consistency before any solving begins. It
// returns an error wrapping ErrInvalidGameState describing the first
// violation found.
func (gs *GameState) Validate() error {
	if gs.Street > River {
		return fmt.Errorf("%w: unknown street %d", ErrInvalidGameState, gs.Street)
	}
	if gs.Pot < 0 {
		return fmt.Errorf("%w: negative pot %.2f", ErrInvalidGameState, gs.Pot)
	}
	if len(gs.Stacks) < 2 {
		return fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidGameState, len(gs.Stacks))
	}
	for i, stack := range gs.Stacks {
		if stack < 0 {
			return fmt.Errorf("%w: negative stack %.2f for player %d", ErrInvalidGameState, stack, i)
		}
	}

	if len(gs.Active) < 2 {
		return fmt.Errorf("%w: need at least 2 active players, got %d", ErrInvalidGameState, len(gs.Active))
	}
	seen := make(map[int]bool, len(gs.Active))
	for _, p := range gs.Active {
		if p < 0 || p >= len(gs.Stacks) {
			return fmt.Errorf("%w: active player %d outside seat range [0,%d)", ErrInvalidGameState, p, len(gs.Stacks))
		}
		if seen[p] {
			return fmt.Errorf("%w: player %d listed active twice", ErrInvalidGameState, p)
		}
		seen[p] = true
	}

	if gs.Hero < 0 || gs.Hero >= len(gs.Stacks) {
		return fmt.Errorf("%w: hero seat %d outside seat range [0,%d)", ErrInvalidGameState, gs.Hero, len(gs.Stacks))
	}
	if !seen[gs.Hero] {
		return fmt.Errorf("%w: hero seat %d is not active", ErrInvalidGameState, gs.Hero)
	}

	want := gs.Street.BoardCards()
	if got := gs.Board.CountCards(); got != want {
		return fmt.Errorf("%w: %s needs %d board cards, got %d", ErrInvalidGameState, gs.Street, want, got)
	}
	if gs.BottomBoard != 0 {
		if got := gs.BottomBoard.CountCards(); got != want {
			return fmt.Errorf("%w: %s needs %d bottom-board cards, got %d", ErrInvalidGameState, gs.Street, want, got)
		}
	}

	if gs.HeroHole.CountCards() != 4 {
		return fmt.Errorf("%w: hero needs 4 hole cards, got %d", ErrInvalidGameState, gs.HeroHole.CountCards())
	}
	if gs.HeroHole.Overlaps(gs.Board) || gs.HeroHole.Overlaps(gs.BottomBoard) {
		return fmt.Errorf("%w: hero hole cards overlap the board", ErrInvalidGameState)
	}

	for _, a := range gs.History {
		if a.Player < 0 || a.Player >= len(gs.Stacks) {
			return fmt.Errorf("%w: history references player %d outside seat range", ErrInvalidGameState, a.Player)
		}
		if a.Amount < 0 {
			return fmt.Errorf("%w: negative action amount %.2f", ErrInvalidGameState, a.Amount)
		}
	}

	for p := range gs.Ranges {
		if p < 0 || p >= len(gs.Stacks) {
			return fmt.Errorf("%w: range for player %d outside seat range", ErrInvalidGameState, p)
		}
	}
	return nil
}

// ActiveOpponents returns the active seats other than the hero, in order.
func (gs *GameState) ActiveOpponents() []int {
	opps := make([]int, 0, len(gs.Active))
	for _, p := range gs.Active {
		if p != gs.Hero {
			opps = append(opps, p)
		}
	}
	return opps
}

// KnownCards returns the union of every card fixed by the state.
func (gs *GameState) KnownCards() poker.Hand {
	return gs.HeroHole | gs.Board | gs.BottomBoard
}
