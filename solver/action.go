// Package solver approximates equilibrium strategies for single Pot-Limit
// Omaha spots with counterfactual regret minimisation over an abstracted
// betting tree.
package solver

import "fmt"

// ActionKind discriminates the abstracted action variants. Bet covers both
// opening bets and raises; its size comes from the configured pot-fraction
// bucket.
type ActionKind uint8

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	default:
		return "unknown"
	}
}

// Action is one abstracted move. SizeBucket indexes Config.BetSizing and is
// meaningful only when Kind is Bet; Amount is the chips the action commits
// beyond the player's current street contribution.
type Action struct {
	Kind       ActionKind
	SizeBucket int
	Amount     float64
}

func (a Action) String() string {
	switch a.Kind {
	case Bet:
		return fmt.Sprintf("bet%d:%.1f", a.SizeBucket, a.Amount)
	case Call:
		return fmt.Sprintf("call:%.1f", a.Amount)
	default:
		return a.Kind.String()
	}
}

// pathToken is the compact encoding used in info set keys. Bet sizes appear
// as their bucket index so identical abstract lines share a key regardless
// of exact chip amounts.
func (a Action) pathToken() string {
	switch a.Kind {
	case Fold:
		return "f"
	case Check:
		return "x"
	case Call:
		return "c"
	case Bet:
		return fmt.Sprintf("b%d", a.SizeBucket)
	default:
		return "?"
	}
}
