package equity

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/lcrostarosa/ploscope-stack-sub005/internal/randutil"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
	"golang.org/x/sync/errgroup"
)

// DoubleBoardRequest describes a bomb-pot query: every hand is known and the
// pot is split between two boards dealt side by side. The two boards may
// share known cards (they are independent runouts), but each board must be
// disjoint from every hand.
type DoubleBoardRequest struct {
	Hands       [][]string // four cards per player
	TopBoard    []string   // 0-5 known cards
	BottomBoard []string   // 0-5 known cards
	Iterations  int
}

// DoubleBoardResult reports per-player outcome rates across both boards.
// For any player, ScoopBoth+ChopBoth+SplitTop+SplitBottom <= 1; the
// remainder is the rate of winning neither board.
type DoubleBoardResult struct {
	ScoopBoth   []float64 // won both boards outright
	ChopBoth    []float64 // tied on both boards
	SplitTop    []float64 // won the top board outright, not the bottom
	SplitBottom []float64 // won the bottom board outright, not the top

	RequestedIterations int
	ActualIterations    int
}

// doubleTally holds one worker's per-player outcome counters.
type doubleTally struct {
	scoopBoth   []int
	chopBoth    []int
	splitTop    []int
	splitBottom []int
	trials      int
}

func newDoubleTally(players int) *doubleTally {
	return &doubleTally{
		scoopBoth:   make([]int, players),
		chopBoth:    make([]int, players),
		splitTop:    make([]int, players),
		splitBottom: make([]int, players),
	}
}

func (t *doubleTally) add(other *doubleTally) {
	t.trials += other.trials
	for i := range t.scoopBoth {
		t.scoopBoth[i] += other.scoopBoth[i]
		t.chopBoth[i] += other.chopBoth[i]
		t.splitTop[i] += other.splitTop[i]
		t.splitBottom[i] += other.splitBottom[i]
	}
}

// DoubleBoardStats runs the double-board simulation for explicitly known
// hands. Both boards draw their remaining cards from the same per-trial deck,
// so a card dealt to one board cannot appear on the other within a trial.
func (s *Simulator) DoubleBoardStats(ctx context.Context, req DoubleBoardRequest) (*DoubleBoardResult, error) {
	if req.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrConfig, req.Iterations)
	}
	if len(req.Hands) < 2 {
		return nil, fmt.Errorf("%w: double-board stats need at least 2 hands, got %d", ErrConfig, len(req.Hands))
	}
	if len(req.TopBoard) > 5 || len(req.BottomBoard) > 5 {
		return nil, fmt.Errorf("%w: boards hold at most 5 cards", ErrConfig)
	}

	// The two boards are independent runouts and may legitimately repeat
	// each other's cards, so duplicate detection runs per board: all hands
	// plus one board at a time.
	handTokens := make([]string, 0, len(req.Hands)*4)
	for i, tokens := range req.Hands {
		if len(tokens) != 4 {
			return nil, fmt.Errorf("%w: hand %d needs 4 cards, got %d", ErrConfig, i, len(tokens))
		}
		handTokens = append(handTokens, tokens...)
	}

	hands := make([]poker.Hand, len(req.Hands))
	handCards, err := poker.ParseCards(handTokens)
	if err != nil {
		return nil, err
	}
	var allHands poker.Hand
	for i := range hands {
		hands[i] = poker.NewHand(handCards[i*4 : i*4+4]...)
		allHands |= hands[i]
	}

	top, err := parseBoardAgainst(handTokens, req.TopBoard)
	if err != nil {
		return nil, fmt.Errorf("top board: %w", err)
	}
	bottom, err := parseBoardAgainst(handTokens, req.BottomBoard)
	if err != nil {
		return nil, fmt.Errorf("bottom board: %w", err)
	}

	topNeeded := 5 - top.CountCards()
	bottomNeeded := 5 - bottom.CountCards()

	base := poker.NewDeck()
	if err := base.RemoveHand(allHands | top | bottom); err != nil {
		return nil, err
	}
	if base.CardsRemaining() < topNeeded+bottomNeeded {
		return nil, fmt.Errorf("%w: need %d cards to complete both boards, have %d",
			ErrInsufficientDeck, topNeeded+bottomNeeded, base.CardsRemaining())
	}

	workers := min(s.workers, req.Iterations)
	perWorker := req.Iterations / workers
	remainder := req.Iterations % workers

	start := s.clock.Now()
	total := newDoubleTally(len(hands))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		quota := perWorker
		if w < remainder {
			quota++
		}
		rng := randutil.ForWorker(s.seed, w)

		g.Go(func() error {
			t := newDoubleTally(len(hands))
			for t.trials < quota {
				if ctx.Err() != nil {
					break
				}
				if s.budget > 0 && s.clock.Since(start) >= s.budget {
					break
				}
				batch := min(trialBatchSize, quota-t.trials)
				for range batch {
					if err := runDoubleTrial(base, hands, top, bottom, topNeeded, bottomNeeded, t, rng); err != nil {
						return err
					}
				}
			}
			mu.Lock()
			total.add(t)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &DoubleBoardResult{
		ScoopBoth:           make([]float64, len(hands)),
		ChopBoth:            make([]float64, len(hands)),
		SplitTop:            make([]float64, len(hands)),
		SplitBottom:         make([]float64, len(hands)),
		RequestedIterations: req.Iterations,
		ActualIterations:    total.trials,
	}
	if total.trials > 0 {
		n := float64(total.trials)
		for i := range hands {
			result.ScoopBoth[i] = float64(total.scoopBoth[i]) / n
			result.ChopBoth[i] = float64(total.chopBoth[i]) / n
			result.SplitTop[i] = float64(total.splitTop[i]) / n
			result.SplitBottom[i] = float64(total.splitBottom[i]) / n
		}
	}
	s.logger.Debug("double-board run complete",
		"iterations", result.ActualIterations,
		"players", len(hands),
		"duration", s.clock.Since(start))
	return result, nil
}

// parseBoardAgainst parses board tokens, checking duplicates within the
// board and against every hand (but not against the other board).
func parseBoardAgainst(handTokens, boardTokens []string) (poker.Hand, error) {
	combined := make([]string, 0, len(handTokens)+len(boardTokens))
	combined = append(combined, handTokens...)
	combined = append(combined, boardTokens...)
	cards, err := poker.ParseCards(combined)
	if err != nil {
		return 0, err
	}
	return poker.NewHand(cards[len(handTokens):]...), nil
}

// runDoubleTrial completes both boards from a shared deck and classifies
// every player's combined outcome.
func runDoubleTrial(base *poker.Deck, hands []poker.Hand, top, bottom poker.Hand, topNeeded, bottomNeeded int, t *doubleTally, rng *rand.Rand) error {
	deck := base.Clone()

	finalTop, err := completeBoard(deck, top, topNeeded, rng)
	if err != nil {
		return err
	}
	finalBottom, err := completeBoard(deck, bottom, bottomNeeded, rng)
	if err != nil {
		return err
	}

	topWin, topTie, err := boardOutcomes(hands, finalTop)
	if err != nil {
		return err
	}
	bottomWin, bottomTie, err := boardOutcomes(hands, finalBottom)
	if err != nil {
		return err
	}

	t.trials++
	for i := range hands {
		switch {
		case topWin[i] && bottomWin[i]:
			t.scoopBoth[i]++
		case topTie[i] && bottomTie[i]:
			t.chopBoth[i]++
		case topWin[i]:
			t.splitTop[i]++
		case bottomWin[i]:
			t.splitBottom[i]++
		}
	}
	return nil
}

func completeBoard(deck *poker.Deck, board poker.Hand, needed int, rng *rand.Rand) (poker.Hand, error) {
	if needed == 0 {
		return board, nil
	}
	drawn := deck.DrawRandom(needed, rng)
	if drawn == nil {
		return 0, fmt.Errorf("%w: completing board", ErrInsufficientDeck)
	}
	for _, c := range drawn {
		board.AddCard(c)
	}
	return board, nil
}

// boardOutcomes evaluates every hand on one board and reports, per player,
// an outright win or a share of a tied best hand.
func boardOutcomes(hands []poker.Hand, board poker.Hand) (win, tie []bool, err error) {
	ranks := make([]poker.HandRank, len(hands))
	best := poker.HandRank(0)
	for i, hand := range hands {
		ranks[i], err = poker.EvaluateOmaha(hand, board)
		if err != nil {
			return nil, nil, err
		}
		if i == 0 || ranks[i] < best {
			best = ranks[i]
		}
	}

	winners := 0
	for _, rank := range ranks {
		if rank == best {
			winners++
		}
	}

	win = make([]bool, len(hands))
	tie = make([]bool, len(hands))
	for i, rank := range ranks {
		if rank != best {
			continue
		}
		if winners == 1 {
			win[i] = true
		} else {
			tie[i] = true
		}
	}
	return win, tie, nil
}
