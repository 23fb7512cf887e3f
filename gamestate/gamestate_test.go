package gamestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrostarosa/ploscope-stack-sub005/equity"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

func validState() *GameState {
	return &GameState{
		Street:   Flop,
		Pot:      12,
		Stacks:   []float64{100, 100},
		Active:   []int{0, 1},
		Board:    poker.MustParseHand("Kh", "9d", "2s"),
		Hero:     0,
		HeroHole: poker.MustParseHand("As", "Ad", "7c", "6c"),
	}
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, validState().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameState)
	}{
		{"negative pot", func(gs *GameState) { gs.Pot = -1 }},
		{"negative stack", func(gs *GameState) { gs.Stacks[1] = -5 }},
		{"single player", func(gs *GameState) { gs.Stacks = []float64{100}; gs.Active = []int{0} }},
		{"active out of range", func(gs *GameState) { gs.Active = []int{0, 5} }},
		{"duplicate active", func(gs *GameState) { gs.Active = []int{0, 0} }},
		{"hero not active", func(gs *GameState) { gs.Active = []int{1}; gs.Stacks = []float64{100, 100, 100}; gs.Active = []int{1, 2} }},
		{"hero seat out of range", func(gs *GameState) { gs.Hero = 9 }},
		{"board too short for flop", func(gs *GameState) { gs.Board = poker.MustParseHand("Kh", "9d") }},
		{"board set preflop", func(gs *GameState) { gs.Street = Preflop }},
		{"turn without fourth card", func(gs *GameState) { gs.Street = Turn }},
		{"three hole cards", func(gs *GameState) { gs.HeroHole = poker.MustParseHand("As", "Ad", "7c") }},
		{"hole overlaps board", func(gs *GameState) { gs.HeroHole = poker.MustParseHand("Kh", "Ad", "7c", "6c") }},
		{"history bad player", func(gs *GameState) { gs.History = []Action{{Player: 7, Kind: ActionCall}} }},
		{"history negative amount", func(gs *GameState) { gs.History = []Action{{Player: 1, Kind: ActionBet, Amount: -4}} }},
		{"mismatched bottom board", func(gs *GameState) { gs.BottomBoard = poker.MustParseHand("Qd", "Jc") }},
		{"range for unknown seat", func(gs *GameState) { gs.Ranges = map[int]equity.Range{3: equity.RandomRange{}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := validState()
			tt.mutate(gs)
			err := gs.Validate()
			require.ErrorIs(t, err, ErrInvalidGameState)
		})
	}
}

func TestStreetBoardCards(t *testing.T) {
	assert.Equal(t, 0, Preflop.BoardCards())
	assert.Equal(t, 3, Flop.BoardCards())
	assert.Equal(t, 4, Turn.BoardCards())
	assert.Equal(t, 5, River.BoardCards())
}

func TestStreetProgression(t *testing.T) {
	assert.Equal(t, Flop, Preflop.Next())
	assert.Equal(t, River, Turn.Next())
	assert.Equal(t, River, River.Next())
	assert.True(t, River.IsLast())
	assert.False(t, Turn.IsLast())
}

func TestActiveOpponents(t *testing.T) {
	gs := validState()
	gs.Stacks = []float64{100, 100, 100}
	gs.Active = []int{0, 1, 2}
	assert.Equal(t, []int{1, 2}, gs.ActiveOpponents())
}

func TestKnownCards(t *testing.T) {
	gs := validState()
	known := gs.KnownCards()
	assert.Equal(t, 7, known.CountCards())
	assert.True(t, known.HasCard(poker.MustParseCard("Kh")))
	assert.True(t, known.HasCard(poker.MustParseCard("As")))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "p1 bet 6.00", Action{Player: 1, Kind: ActionBet, Amount: 6}.String())
	assert.Equal(t, "p0 fold", Action{Player: 0, Kind: ActionFold}.String())
}
