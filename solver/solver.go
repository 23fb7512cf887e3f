package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lcrostarosa/ploscope-stack-sub005/equity"
	"github.com/lcrostarosa/ploscope-stack-sub005/gamestate"
	"github.com/lcrostarosa/ploscope-stack-sub005/internal/randutil"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

// Progress is emitted periodically during a solve.
type Progress struct {
	Iteration int
	InfoSets  int
	Elapsed   time.Duration
}

// SolveStats captures traversal instrumentation for one solve.
type SolveStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
}

// Result holds the averaged output strategy of a solve session, plus
// per-seat expected values over the sampled runouts. ActualIterations is
// lower than requested when the context was cancelled mid-run.
type Result struct {
	Strategies     map[InfoSetKey]map[Action]float64
	ExpectedValues map[int]float64

	RequestedIterations int
	ActualIterations    int
	InfoSets            int
	Stats               SolveStats
}

// Solver runs CFR solve sessions. Construct one per caller; each SolveSpot
// call owns its regret tables, so independent sessions may run concurrently.
type Solver struct {
	cfg      Config
	logger   *log.Logger
	clock    quartz.Clock
	progress func(Progress)
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger for solve progress output.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// WithClock injects the clock used for progress timing.
func WithClock(c quartz.Clock) Option {
	return func(s *Solver) { s.clock = c }
}

// WithProgress registers a callback invoked every Config.ProgressEvery
// iterations.
func WithProgress(fn func(Progress)) Option {
	return func(s *Solver) { s.progress = fn }
}

// New returns a Solver for the given configuration.
func New(cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		cfg:    cfg,
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// session owns the mutable state of one SolveSpot call. The regret table is
// never shared across sessions.
type session struct {
	cfg   Config
	gs    *gamestate.GameState
	table *RegretTable
	rng   *rand.Rand
	stats SolveStats

	baseDeck    *poker.Deck
	boardNeeded int

	// Per-iteration deal, fixed before traversal (external chance sampling).
	holes       []poker.Hand
	topBoard    poker.Hand
	bottomBoard poker.Hand

	evSum []float64
}

// SolveSpot runs CFR for the requested number of iterations from the given
// decision point and returns the averaged strategy with per-seat expected
// values. Cancellation between iterations yields the partially converged
// strategy rather than an error.
func (s *Solver) SolveSpot(ctx context.Context, gs *gamestate.GameState, iterations int) (*Result, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrConfig, iterations)
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = s.clock.Now().UnixNano()
	}

	base := poker.NewDeck()
	if err := base.RemoveHand(gs.KnownCards()); err != nil {
		return nil, err
	}
	boardNeeded := 5 - gs.Street.BoardCards()
	needed := 4*len(gs.ActiveOpponents()) + boardNeeded
	if gs.BottomBoard != 0 {
		needed += boardNeeded
	}
	if base.CardsRemaining() < needed {
		return nil, fmt.Errorf("%w: need %d cards for opponents and runout, have %d",
			equity.ErrInsufficientDeck, needed, base.CardsRemaining())
	}

	sess := &session{
		cfg:         s.cfg,
		gs:          gs,
		table:       NewRegretTable(),
		rng:         randutil.New(seed),
		baseDeck:    base,
		boardNeeded: boardNeeded,
		holes:       make([]poker.Hand, len(gs.Stacks)),
		evSum:       make([]float64, len(gs.Stacks)),
	}

	start := s.clock.Now()
	completed := 0
	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := sess.runIteration(); err != nil {
			return nil, err
		}
		completed++

		if s.cfg.ProgressEvery > 0 && completed%s.cfg.ProgressEvery == 0 {
			p := Progress{Iteration: completed, InfoSets: sess.table.Size(), Elapsed: s.clock.Since(start)}
			s.logger.Debug("solve progress", "iteration", p.Iteration, "infosets", p.InfoSets)
			if s.progress != nil {
				s.progress(p)
			}
		}
	}

	result := sess.finish(iterations, completed)
	s.logger.Debug("solve complete",
		"iterations", result.ActualIterations,
		"infosets", result.InfoSets,
		"duration", s.clock.Since(start))
	return result, nil
}

// runIteration deals one runout and traverses the tree once per active
// player as the regret-updating traverser.
func (sess *session) runIteration() error {
	if err := sess.deal(); err != nil {
		return err
	}
	for _, player := range sess.gs.Active {
		v, err := sess.cfr(sess.rootNode(), player, 1.0, 1.0)
		if err != nil {
			return err
		}
		sess.evSum[player] += v
	}
	return nil
}

// deal samples opponent holdings from their ranges and completes the
// board(s) for this iteration.
func (sess *session) deal() error {
	deck := sess.baseDeck.Clone()

	sess.holes[sess.gs.Hero] = sess.gs.HeroHole
	for _, seat := range sess.gs.ActiveOpponents() {
		var r equity.Range = equity.RandomRange{}
		if sess.gs.Ranges != nil && sess.gs.Ranges[seat] != nil {
			r = sess.gs.Ranges[seat]
		}
		hand, err := r.SampleHand(deck, sess.rng)
		if err != nil {
			return fmt.Errorf("dealing seat %d: %w", seat, err)
		}
		sess.holes[seat] = hand
	}

	top, err := sess.completeBoard(deck, sess.gs.Board)
	if err != nil {
		return err
	}
	sess.topBoard = top

	sess.bottomBoard = 0
	if sess.gs.BottomBoard != 0 {
		bottom, err := sess.completeBoard(deck, sess.gs.BottomBoard)
		if err != nil {
			return err
		}
		sess.bottomBoard = bottom
	}
	return nil
}

func (sess *session) completeBoard(deck *poker.Deck, board poker.Hand) (poker.Hand, error) {
	if sess.boardNeeded == 0 {
		return board, nil
	}
	drawn := deck.DrawRandom(sess.boardNeeded, sess.rng)
	if drawn == nil {
		return 0, fmt.Errorf("%w: completing runout", equity.ErrInsufficientDeck)
	}
	for _, c := range drawn {
		board.AddCard(c)
	}
	return board, nil
}

// ErrDepthExceeded reports a traversal that ran past the depth implied by
// the action abstraction, which indicates broken tree bookkeeping rather
// than a bad input.
var ErrDepthExceeded = errors.New("traversal depth bound exceeded")

// maxDepth bounds traversal depth: every street allows each player one
// voluntary action plus the configured raise cap.
func (sess *session) maxDepth() int {
	players := len(sess.gs.Active)
	streets := int(gamestate.River-sess.gs.Street) + 1
	return streets*players*(sess.cfg.MaxRaisesPerStreet+2) + 4
}

// cfr traverses the subtree below the node, updating regrets for the target
// player. reachPlayer is the probability the target played to reach the
// node; reachOthers the combined probability of everyone else.
func (sess *session) cfr(n *node, target int, reachPlayer, reachOthers float64) (float64, error) {
	sess.stats.NodesVisited++
	if n.depth > sess.stats.MaxDepth {
		sess.stats.MaxDepth = n.depth
	}
	if n.depth > sess.maxDepth() {
		return 0, fmt.Errorf("%w: depth %d, bound %d", ErrDepthExceeded, n.depth, sess.maxDepth())
	}

	if n.isFoldTerminal() || n.isShowdown() {
		sess.stats.TerminalNodes++
		return sess.payoff(n, target)
	}

	// All-in players have no decision left; their action is forced.
	if n.stacks[n.actor] == 0 && n.toCall() == 0 {
		return sess.cfr(sess.apply(n, Action{Kind: Check}), target, reachPlayer, reachOthers)
	}

	actions := sess.legalActions(n)
	key := sess.infoSetKey(n)
	entry := sess.table.Get(key, actions)
	strategy := entry.Strategy()
	if err := checkFinite(key, "strategy", strategy); err != nil {
		return 0, err
	}

	if n.actor == target {
		util := make([]float64, len(actions))
		nodeUtil := 0.0
		for i, act := range actions {
			u, err := sess.cfr(sess.apply(n, act), target, reachPlayer*strategy[i], reachOthers)
			if err != nil {
				return 0, err
			}
			util[i] = u
			nodeUtil += strategy[i] * u
		}

		regrets := make([]float64, len(actions))
		for i := range actions {
			regrets[i] = (util[i] - nodeUtil) * reachOthers
		}
		if err := checkFinite(key, "regret", regrets); err != nil {
			return 0, err
		}
		entry.Update(regrets, strategy, reachPlayer)
		return nodeUtil, nil
	}

	nodeUtil := 0.0
	for i, act := range actions {
		prob := strategy[i]
		if prob <= 0 {
			continue
		}
		u, err := sess.cfr(sess.apply(n, act), target, reachPlayer, reachOthers*prob)
		if err != nil {
			return 0, err
		}
		nodeUtil += prob * u
	}
	return nodeUtil, nil
}

// infoSetKey abstracts the node from the actor's perspective: their hole
// class, the street, bucketed pot pressure, and the action line.
func (sess *session) infoSetKey(n *node) InfoSetKey {
	return InfoSetKey{
		Player:       n.actor,
		Street:       n.street,
		HoleCategory: poker.CategorizeHoleCards(sess.holes[n.actor]),
		PotBucket:    sess.potBucket(n.pot),
		ToCallBucket: toCallBucket(n.toCall(), n.pot),
		Path:         n.path,
	}
}

// potBucket classifies the pot relative to its size at the start of the
// spot.
func (sess *session) potBucket(pot float64) int {
	base := sess.gs.Pot
	if base <= 0 {
		base = 1
	}
	ratio := pot / base
	thresholds := []float64{1, 2, 4, 8}
	for i, boundary := range thresholds {
		if ratio <= boundary {
			return i
		}
	}
	return len(thresholds)
}

func toCallBucket(toCall, pot float64) int {
	if toCall <= 0 {
		return 0
	}
	if pot <= 0 {
		return 4
	}
	ratio := toCall / pot
	thresholds := []float64{0.25, 0.5, 1.0}
	for i, boundary := range thresholds {
		if ratio <= boundary {
			return i + 1
		}
	}
	return 4
}

// finish converts accumulated strategy sums into the averaged output
// strategy and normalises expected values by completed iterations.
func (sess *session) finish(requested, completed int) *Result {
	entries := sess.table.Entries()
	strategies := make(map[InfoSetKey]map[Action]float64, len(entries))
	for _, entry := range entries {
		avg := entry.AverageStrategy()
		dist := make(map[Action]float64, len(entry.Actions))
		for i, act := range entry.Actions {
			dist[act] = avg[i]
		}
		strategies[entry.Key] = dist
	}

	evs := make(map[int]float64, len(sess.gs.Active))
	for _, p := range sess.gs.Active {
		if completed > 0 {
			evs[p] = sess.evSum[p] / float64(completed)
		} else {
			evs[p] = 0
		}
	}

	return &Result{
		Strategies:          strategies,
		ExpectedValues:      evs,
		RequestedIterations: requested,
		ActualIterations:    completed,
		InfoSets:            len(entries),
		Stats:               sess.stats,
	}
}
