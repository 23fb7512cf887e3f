package equity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

func TestDoubleBoardStatsOutcomeRatesBounded(t *testing.T) {
	sim := NewSimulator(WithSeed(42), WithWorkers(4))

	result, err := sim.DoubleBoardStats(context.Background(), DoubleBoardRequest{
		Hands: [][]string{
			{"Ah", "Kh", "Qh", "Jh"},
			{"As", "Ad", "7c", "6c"},
			{"9s", "8s", "7h", "6h"},
		},
		Iterations: 3000,
	})
	require.NoError(t, err)
	require.Equal(t, 3000, result.ActualIterations)

	for i := range 3 {
		sum := result.ScoopBoth[i] + result.ChopBoth[i] + result.SplitTop[i] + result.SplitBottom[i]
		assert.LessOrEqual(t, sum, 1.0, "player %d outcome rates exceed 1", i)
		for _, rate := range []float64{result.ScoopBoth[i], result.ChopBoth[i], result.SplitTop[i], result.SplitBottom[i]} {
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 1.0)
		}
	}
}

func TestDoubleBoardStatsIdenticalBoardsMirrorSingleBoard(t *testing.T) {
	// With both boards fully known and identical, every trial is the same
	// showdown twice: the winner scoops, nobody splits.
	sim := NewSimulator(WithSeed(1), WithWorkers(1))

	board := []string{"Ad", "7h", "7c", "2s", "3d"}
	result, err := sim.DoubleBoardStats(context.Background(), DoubleBoardRequest{
		Hands: [][]string{
			{"As", "Ah", "Kd", "Qc"}, // aces full of sevens
			{"Ks", "Kh", "Jd", "Tc"}, // kings and sevens, two pair
		},
		TopBoard:    board,
		BottomBoard: board,
		Iterations:  500,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.ScoopBoth[0])
	assert.Equal(t, 0.0, result.ScoopBoth[1])
	for i := range 2 {
		assert.Equal(t, 0.0, result.ChopBoth[i])
		assert.Equal(t, 0.0, result.SplitTop[i])
		assert.Equal(t, 0.0, result.SplitBottom[i])
	}
}

func TestDoubleBoardStatsChopBoth(t *testing.T) {
	// Mirrored hands on a paired-trips board tie on both boards.
	sim := NewSimulator(WithSeed(1), WithWorkers(1))

	board := []string{"Qs", "Qh", "Qd", "Jc", "Jh"}
	result, err := sim.DoubleBoardStats(context.Background(), DoubleBoardRequest{
		Hands: [][]string{
			{"As", "Kd", "2c", "3h"},
			{"Ah", "Kc", "2d", "3s"},
		},
		TopBoard:    board,
		BottomBoard: board,
		Iterations:  200,
	})
	require.NoError(t, err)

	for i := range 2 {
		assert.Equal(t, 1.0, result.ChopBoth[i], "player %d should chop both boards", i)
		assert.Equal(t, 0.0, result.ScoopBoth[i])
	}
}

func TestDoubleBoardStatsMorePlayersCannotRaiseScoopRate(t *testing.T) {
	// Adding a player can only take outcomes away from the others. Both
	// boards are fully known so every trial resolves identically and the
	// comparison is exact: heads-up the aces-up hand scoops, but a third
	// player holding quad kings takes every pot.
	sim := NewSimulator(WithSeed(9), WithWorkers(1))
	ctx := context.Background()
	board := []string{"Kh", "Kd", "7c", "7d", "2s"}

	base := DoubleBoardRequest{
		Hands: [][]string{
			{"As", "Ah", "Qc", "Jc"}, // aces and kings
			{"Qs", "Qd", "8h", "8s"}, // kings and queens
		},
		TopBoard:    board,
		BottomBoard: board,
		Iterations:  200,
	}
	twoWay, err := sim.DoubleBoardStats(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 1.0, twoWay.ScoopBoth[0])

	wider := base
	wider.Hands = append([][]string{}, base.Hands...)
	wider.Hands = append(wider.Hands, []string{"Kc", "Ks", "4h", "3h"}) // quad kings
	threeWay, err := sim.DoubleBoardStats(ctx, wider)
	require.NoError(t, err)

	for i := range base.Hands {
		assert.LessOrEqual(t, threeWay.ScoopBoth[i], twoWay.ScoopBoth[i],
			"player %d scoop rate rose when an opponent was added", i)
	}
	assert.Equal(t, 0.0, threeWay.ScoopBoth[0])
	assert.Equal(t, 1.0, threeWay.ScoopBoth[2])
}

func TestDoubleBoardStatsReproducible(t *testing.T) {
	req := DoubleBoardRequest{
		Hands: [][]string{
			{"Ah", "Kh", "Qh", "Jh"},
			{"As", "Ad", "7c", "6c"},
		},
		TopBoard:   []string{"9h", "8h", "2c"},
		Iterations: 2000,
	}

	a, err := NewSimulator(WithSeed(17), WithWorkers(3)).DoubleBoardStats(context.Background(), req)
	require.NoError(t, err)
	b, err := NewSimulator(WithSeed(17), WithWorkers(3)).DoubleBoardStats(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.ScoopBoth, b.ScoopBoth)
	assert.Equal(t, a.ChopBoth, b.ChopBoth)
	assert.Equal(t, a.SplitTop, b.SplitTop)
	assert.Equal(t, a.SplitBottom, b.SplitBottom)
}

func TestDoubleBoardStatsValidation(t *testing.T) {
	sim := NewSimulator(WithSeed(1))
	ctx := context.Background()

	_, err := sim.DoubleBoardStats(ctx, DoubleBoardRequest{
		Hands: [][]string{{"Ah", "Kh", "Qh", "Jh"}, {"As", "Ad", "7c", "6c"}},
	})
	require.ErrorIs(t, err, ErrConfig, "zero iterations")

	_, err = sim.DoubleBoardStats(ctx, DoubleBoardRequest{
		Hands:      [][]string{{"Ah", "Kh", "Qh", "Jh"}},
		Iterations: 100,
	})
	require.ErrorIs(t, err, ErrConfig, "single hand")

	_, err = sim.DoubleBoardStats(ctx, DoubleBoardRequest{
		Hands:      [][]string{{"Ah", "Kh", "Qh", "Jh"}, {"Ah", "Ad", "7c", "6c"}},
		Iterations: 100,
	})
	require.ErrorIs(t, err, poker.ErrDuplicateCard, "card shared between hands")

	// A board card colliding with a hand is invalid even though the two
	// boards may repeat each other.
	_, err = sim.DoubleBoardStats(ctx, DoubleBoardRequest{
		Hands:      [][]string{{"Ah", "Kh", "Qh", "Jh"}, {"As", "Ad", "7c", "6c"}},
		TopBoard:   []string{"Ah", "2c", "3d"},
		Iterations: 100,
	})
	require.ErrorIs(t, err, poker.ErrDuplicateCard)
}
