package equity

import (
	"context"
	"fmt"
	"io"
	"math"
	rand "math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lcrostarosa/ploscope-stack-sub005/internal/randutil"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
	"golang.org/x/sync/errgroup"
)

// trialBatchSize is the number of trials run between cancellation and
// time-budget checks.
const trialBatchSize = 512

// Simulator runs Monte Carlo equity estimation. A Simulator is safe for
// concurrent use; each call owns its own counters.
type Simulator struct {
	workers int
	seed    int64
	seeded  bool
	budget  time.Duration
	clock   quartz.Clock
	logger  *log.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithWorkers sets the number of concurrent trial workers.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSeed fixes the base random seed so runs are reproducible. Worker i
// derives its own independent stream from (seed, i).
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.seed = seed
		s.seeded = true
	}
}

// WithTimeBudget bounds the wall-clock time of a run. Workers stop between
// batches once the budget is exhausted and the partial result is returned.
func WithTimeBudget(d time.Duration) Option {
	return func(s *Simulator) { s.budget = d }
}

// WithClock injects the clock used for time-budget accounting.
func WithClock(c quartz.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithLogger sets the logger for per-run debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// NewSimulator returns a Simulator with the given options applied. Defaults:
// one worker per CPU, real clock, discarded logs, time-derived seed.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		workers: runtime.NumCPU(),
		clock:   quartz.NewReal(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.seeded {
		s.seed = s.clock.Now().UnixNano()
	}
	return s
}

// Request describes a single-board equity query.
type Request struct {
	Hand        []string // hero's four hole cards
	Board       []string // zero to five known board cards
	FoldedCards []string // dead cards excluded from the deck
	Opponents   int
	Ranges      []Range // optional, one entry per opponent; nil means uniform
	Iterations  int
}

// Breakdown counts outcomes for one hand-strength category.
type Breakdown struct {
	Wins   int
	Ties   int
	Losses int
	Total  int
}

// Result aggregates a finished (possibly truncated) equity run.
type Result struct {
	Equity     float64 // pot share including fractional tie credit
	TiePercent float64

	RequestedIterations int
	ActualIterations    int // fewer than requested when cancelled or budget-stopped

	HandBreakdown     map[poker.HandType]Breakdown // hero's made hand at showdown
	OpponentBreakdown map[poker.HandType]Breakdown // strongest opponent's made hand

	Duration time.Duration
}

// TrialsPerSecond returns the observed simulation throughput.
func (r Result) TrialsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.ActualIterations) / r.Duration.Seconds()
}

// ConfidenceInterval returns the 95% confidence interval for the equity
// estimate, clamped to [0,1].
func (r Result) ConfidenceInterval() (lower, upper float64) {
	n := float64(r.ActualIterations)
	if n == 0 {
		return 0, 0
	}
	se := math.Sqrt(r.Equity * (1 - r.Equity) / n)
	margin := 1.96 * se
	return math.Max(0, r.Equity-margin), math.Min(1, r.Equity+margin)
}

// tally holds one worker's private counters. Reduction is by summation, so
// worker completion order does not affect the result.
type tally struct {
	winCredit float64
	tieTrials int
	trials    int
	hero      [9]Breakdown
	opp       [9]Breakdown
}

func (t *tally) add(other *tally) {
	t.winCredit += other.winCredit
	t.tieTrials += other.tieTrials
	t.trials += other.trials
	for i := range t.hero {
		t.hero[i].Wins += other.hero[i].Wins
		t.hero[i].Ties += other.hero[i].Ties
		t.hero[i].Losses += other.hero[i].Losses
		t.hero[i].Total += other.hero[i].Total
		t.opp[i].Wins += other.opp[i].Wins
		t.opp[i].Ties += other.opp[i].Ties
		t.opp[i].Losses += other.opp[i].Losses
		t.opp[i].Total += other.opp[i].Total
	}
}

// SimulateEquity estimates hero equity against sampled opponents. All
// validation runs before any trial; a cancelled context or exhausted time
// budget yields a partial result with ActualIterations reflecting the work
// done, not an error.
func (s *Simulator) SimulateEquity(ctx context.Context, req Request) (*Result, error) {
	if req.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrConfig, req.Iterations)
	}
	if req.Opponents < 1 {
		return nil, fmt.Errorf("%w: opponents must be positive, got %d", ErrConfig, req.Opponents)
	}
	if len(req.Hand) != 4 {
		return nil, fmt.Errorf("%w: hero hand needs 4 cards, got %d", ErrConfig, len(req.Hand))
	}
	if len(req.Board) > 5 {
		return nil, fmt.Errorf("%w: board holds at most 5 cards, got %d", ErrConfig, len(req.Board))
	}
	if req.Ranges != nil && len(req.Ranges) != req.Opponents {
		return nil, fmt.Errorf("%w: %d ranges for %d opponents", ErrConfig, len(req.Ranges), req.Opponents)
	}

	// One parse batch across every known card catches duplicates anywhere
	// in hand, board, and dead cards.
	tokens := make([]string, 0, len(req.Hand)+len(req.Board)+len(req.FoldedCards))
	tokens = append(tokens, req.Hand...)
	tokens = append(tokens, req.Board...)
	tokens = append(tokens, req.FoldedCards...)
	cards, err := poker.ParseCards(tokens)
	if err != nil {
		return nil, err
	}

	hero := poker.NewHand(cards[:4]...)
	board := poker.NewHand(cards[4 : 4+len(req.Board)]...)
	known := poker.NewHand(cards...)

	boardNeeded := 5 - board.CountCards()

	base := poker.NewDeck()
	if err := base.RemoveHand(known); err != nil {
		return nil, err
	}
	if base.CardsRemaining() < req.Opponents*4+boardNeeded {
		return nil, fmt.Errorf("%w: need %d cards for %d opponents plus %d board, have %d",
			ErrInsufficientDeck, req.Opponents*4+boardNeeded, req.Opponents, boardNeeded, base.CardsRemaining())
	}

	workers := min(s.workers, req.Iterations)
	perWorker := req.Iterations / workers
	remainder := req.Iterations % workers

	start := s.clock.Now()
	total := &tally{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		quota := perWorker
		if w < remainder {
			quota++
		}
		rng := randutil.ForWorker(s.seed, w)

		g.Go(func() error {
			t := &tally{}
			for t.trials < quota {
				if ctx.Err() != nil {
					break
				}
				if s.budget > 0 && s.clock.Since(start) >= s.budget {
					break
				}
				batch := min(trialBatchSize, quota-t.trials)
				for range batch {
					if err := s.runTrial(base, hero, board, boardNeeded, req, t, rng); err != nil {
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

	result := s.reduce(total, req.Iterations, s.clock.Since(start))
	s.logger.Debug("equity run complete",
		"iterations", result.ActualIterations,
		"equity", result.Equity,
		"duration", result.Duration)
	return result, nil
}

// runTrial executes one independent deal-and-showdown trial.
func (s *Simulator) runTrial(base *poker.Deck, hero, board poker.Hand, boardNeeded int, req Request, t *tally, rng *rand.Rand) error {
	deck := base.Clone()

	opponents, err := SampleOpponents(deck, req.Opponents, req.Ranges, boardNeeded, rng)
	if err != nil {
		return err
	}

	finalBoard := board
	if boardNeeded > 0 {
		drawn := deck.DrawRandom(boardNeeded, rng)
		if drawn == nil {
			return fmt.Errorf("%w: completing board", ErrInsufficientDeck)
		}
		for _, c := range drawn {
			finalBoard.AddCard(c)
		}
	}

	heroRank, err := poker.EvaluateOmaha(hero, finalBoard)
	if err != nil {
		return err
	}

	overallBest := heroRank
	bestOpp := poker.HandRank(math.MaxUint16)
	oppRanks := make([]poker.HandRank, len(opponents))
	for i, opp := range opponents {
		rank, err := poker.EvaluateOmaha(opp, finalBoard)
		if err != nil {
			return err
		}
		oppRanks[i] = rank
		if rank < bestOpp {
			bestOpp = rank
		}
		if rank < overallBest {
			overallBest = rank
		}
	}

	winners := 0
	if heroRank == overallBest {
		winners++
	}
	for _, rank := range oppRanks {
		if rank == overallBest {
			winners++
		}
	}

	heroType := heroRank.Type()
	oppType := bestOpp.Type()
	t.trials++
	t.hero[heroType].Total++
	t.opp[oppType].Total++

	switch {
	case heroRank == overallBest && winners == 1:
		t.winCredit += 1
		t.hero[heroType].Wins++
		t.opp[oppType].Losses++
	case heroRank == overallBest:
		// Split pot: fractional credit for hero's share.
		t.winCredit += 1 / float64(winners)
		t.tieTrials++
		t.hero[heroType].Ties++
		if bestOpp == overallBest {
			t.opp[oppType].Ties++
		} else {
			t.opp[oppType].Losses++
		}
	default:
		t.hero[heroType].Losses++
		if winners == 1 {
			t.opp[oppType].Wins++
		} else {
			t.opp[oppType].Ties++
		}
	}
	return nil
}

func (s *Simulator) reduce(t *tally, requested int, elapsed time.Duration) *Result {
	result := &Result{
		RequestedIterations: requested,
		ActualIterations:    t.trials,
		HandBreakdown:       make(map[poker.HandType]Breakdown),
		OpponentBreakdown:   make(map[poker.HandType]Breakdown),
		Duration:            elapsed,
	}
	if t.trials > 0 {
		result.Equity = t.winCredit / float64(t.trials)
		result.TiePercent = float64(t.tieTrials) / float64(t.trials)
	}
	for i := range t.hero {
		if t.hero[i].Total > 0 {
			result.HandBreakdown[poker.HandType(i)] = t.hero[i]
		}
		if t.opp[i].Total > 0 {
			result.OpponentBreakdown[poker.HandType(i)] = t.opp[i]
		}
	}
	return result
}
