package solver

import (
	"fmt"

	"github.com/lcrostarosa/ploscope-stack-sub005/gamestate"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

// node is one decision point of the implicit betting tree. Nodes are
// generated on demand during traversal and never linked or materialised;
// branching clones the node so siblings share no mutable state.
type node struct {
	street     gamestate.Street
	pot        float64
	stacks     []float64 // remaining chips per seat
	contrib    []float64 // chips committed during the solve per seat
	bets       []float64 // chips committed this street per seat
	folded     []bool
	actor      int
	currentBet float64
	raises     int
	pending    int // players still owing action this street
	path       string
	depth      int
}

func (s *session) rootNode() *node {
	seats := len(s.gs.Stacks)
	n := &node{
		street:  s.gs.Street,
		pot:     s.gs.Pot,
		stacks:  append([]float64(nil), s.gs.Stacks...),
		contrib: make([]float64, seats),
		bets:    make([]float64, seats),
		folded:  make([]bool, seats),
	}
	for seat := range seats {
		n.folded[seat] = true
	}
	for _, p := range s.gs.Active {
		n.folded[p] = false
	}
	n.pending = s.remaining(n)
	n.actor = n.nextActor(-1)
	return n
}

func (n *node) clone() *node {
	next := *n
	next.stacks = append([]float64(nil), n.stacks...)
	next.contrib = append([]float64(nil), n.contrib...)
	next.bets = append([]float64(nil), n.bets...)
	next.folded = append([]bool(nil), n.folded...)
	return &next
}

// remaining counts non-folded seats.
func (s *session) remaining(n *node) int {
	count := 0
	for _, folded := range n.folded {
		if !folded {
			count++
		}
	}
	return count
}

// nextActor returns the first non-folded seat after the given one, cycling
// through the table.
func (n *node) nextActor(after int) int {
	seats := len(n.folded)
	for i := 1; i <= seats; i++ {
		seat := (after + i) % seats
		if !n.folded[seat] {
			return seat
		}
	}
	return -1
}

func (n *node) toCall() float64 {
	owed := n.currentBet - n.bets[n.actor]
	if owed < 0 {
		return 0
	}
	return owed
}

// isFoldTerminal reports whether only one player remains.
func (n *node) isFoldTerminal() bool {
	count := 0
	for _, folded := range n.folded {
		if !folded {
			count++
		}
	}
	return count <= 1
}

// legalActions enumerates the abstracted moves for the current actor.
// Bet sizes are pot fractions capped by the pot-limit maximum and the
// actor's stack, deduplicated after rounding to the same commitment.
func (s *session) legalActions(n *node) []Action {
	toCall := n.toCall()
	stack := n.stacks[n.actor]
	actions := make([]Action, 0, 2+len(s.cfg.BetSizing))

	if toCall > 0 {
		// An all-in player calls for zero chips; folding would surrender
		// equity for free.
		if stack > 0 {
			actions = append(actions, Action{Kind: Fold})
		}
		actions = append(actions, Action{Kind: Call, Amount: min(toCall, stack)})
	} else {
		actions = append(actions, Action{Kind: Check})
	}

	if n.raises >= s.cfg.MaxRaisesPerStreet || stack <= toCall {
		return actions
	}

	// Pot-limit: the largest legal raise equals the pot after calling.
	potAfterCall := n.pot + toCall
	prevAmount := -1.0
	for bucket, fraction := range s.cfg.BetSizing {
		raiseBy := min(fraction*potAfterCall, potAfterCall)
		amount := min(toCall+raiseBy, stack)
		if amount <= toCall || amount == prevAmount {
			continue
		}
		prevAmount = amount
		actions = append(actions, Action{Kind: Bet, SizeBucket: bucket, Amount: amount})
	}
	return actions
}

// apply returns the child node reached by the action, advancing street and
// actor bookkeeping.
func (s *session) apply(n *node, a Action) *node {
	next := n.clone()
	next.depth = n.depth + 1
	if next.path == "" {
		next.path = a.pathToken()
	} else {
		next.path += "-" + a.pathToken()
	}

	actor := next.actor
	switch a.Kind {
	case Fold:
		next.folded[actor] = true
		next.pending--
	case Check:
		next.pending--
	case Call:
		next.pay(actor, a.Amount)
		next.pending--
	case Bet:
		next.pay(actor, a.Amount)
		next.currentBet = next.bets[actor]
		next.raises++
		// Everyone else still in the hand owes a response.
		next.pending = s.remaining(next) - 1
	}

	if next.pending <= 0 {
		next.advanceStreet()
	} else {
		next.actor = next.nextActor(actor)
	}
	return next
}

func (n *node) pay(seat int, amount float64) {
	amount = min(amount, n.stacks[seat])
	n.stacks[seat] -= amount
	n.contrib[seat] += amount
	n.bets[seat] += amount
	n.pot += amount
}

// advanceStreet closes the betting round. On the river the node becomes a
// showdown (actor -1); otherwise betting restarts on the next street.
func (n *node) advanceStreet() {
	if n.street.IsLast() {
		n.actor = -1
		return
	}
	n.street = n.street.Next()
	n.currentBet = 0
	n.raises = 0
	for i := range n.bets {
		n.bets[i] = 0
	}
	remaining := 0
	for _, folded := range n.folded {
		if !folded {
			remaining++
		}
	}
	n.pending = remaining
	n.actor = n.nextActor(-1)
	n.path += "/"
}

// isShowdown reports whether river betting has closed.
func (n *node) isShowdown() bool {
	return n.actor == -1
}

// payoff returns the target player's net utility at a terminal node:
// winnings minus the chips committed during the solve.
func (s *session) payoff(n *node, target int) (float64, error) {
	if n.isFoldTerminal() {
		winner := -1
		for seat, folded := range n.folded {
			if !folded {
				winner = seat
				break
			}
		}
		if target == winner {
			return n.pot - n.contrib[target], nil
		}
		return -n.contrib[target], nil
	}

	winnings, err := s.showdownWinnings(n, target)
	if err != nil {
		return 0, err
	}
	return winnings - n.contrib[target], nil
}

// showdownWinnings resolves the pot via hand evaluation on the iteration's
// dealt runout. Double-board spots award half the pot per board.
func (s *session) showdownWinnings(n *node, target int) (float64, error) {
	if s.bottomBoard == 0 {
		return s.boardWinnings(n, target, s.topBoard, n.pot)
	}
	top, err := s.boardWinnings(n, target, s.topBoard, n.pot/2)
	if err != nil {
		return 0, err
	}
	bottom, err := s.boardWinnings(n, target, s.bottomBoard, n.pot/2)
	if err != nil {
		return 0, err
	}
	return top + bottom, nil
}

func (s *session) boardWinnings(n *node, target int, board poker.Hand, pot float64) (float64, error) {
	best := poker.HandRank(0)
	found := false
	targetRank := poker.HandRank(0)
	winners := 0

	for seat, folded := range n.folded {
		if folded {
			continue
		}
		rank, err := poker.EvaluateOmaha(s.holes[seat], board)
		if err != nil {
			return 0, fmt.Errorf("showdown seat %d: %w", seat, err)
		}
		if seat == target {
			targetRank = rank
		}
		switch {
		case !found || rank < best:
			best = rank
			winners = 1
			found = true
		case rank == best:
			winners++
		}
	}

	if !found || n.folded[target] || targetRank != best {
		return 0, nil
	}
	return pot / float64(winners), nil
}
