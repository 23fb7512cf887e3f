package poker

import (
	"errors"
	"testing"
)

func TestEvaluate5Categories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hand Hand
		want HandType
	}{
		{"royal flush", MustParseHand("As", "Ks", "Qs", "Js", "Ts"), StraightFlush},
		{"steel wheel", MustParseHand("Ah", "2h", "3h", "4h", "5h"), StraightFlush},
		{"quad aces", MustParseHand("As", "Ah", "Ad", "Ac", "Kh"), FourOfAKind},
		{"aces full", MustParseHand("As", "Ah", "Ad", "Kc", "Kh"), FullHouse},
		{"ace-high flush", MustParseHand("As", "Ks", "Qs", "Js", "9s"), Flush},
		{"broadway", MustParseHand("As", "Kd", "Qh", "Jc", "Ts"), Straight},
		{"wheel", MustParseHand("Ah", "2c", "3d", "4s", "5h"), Straight},
		{"trip aces", MustParseHand("As", "Ah", "Ad", "Kc", "Qh"), ThreeOfAKind},
		{"aces up", MustParseHand("As", "Ah", "Kd", "Kc", "Qh"), TwoPair},
		{"pair of aces", MustParseHand("As", "Ah", "Kd", "Qc", "Jh"), Pair},
		{"ace high", MustParseHand("As", "Kd", "Qh", "Jc", "9s"), HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate5(tt.hand).Type()
			if got != tt.want {
				t.Errorf("Evaluate5(%s).Type() = %s, want %s", tt.hand, got, tt.want)
			}
		})
	}
}

func TestHandOrdering(t *testing.T) {
	t.Parallel()
	// Strongest to weakest. Every hand must beat all the hands after it.
	ordered := []struct {
		name string
		hand Hand
	}{
		{"royal flush", MustParseHand("As", "Ks", "Qs", "Js", "Ts")},
		{"quad aces", MustParseHand("As", "Ah", "Ad", "Ac", "2h")},
		{"quad twos", MustParseHand("2s", "2h", "2d", "2c", "3h")},
		{"kings full of aces", MustParseHand("Ks", "Kh", "Kd", "Ac", "Ah")},
		{"ace-high flush", MustParseHand("As", "Ks", "Qs", "Js", "9s")},
		{"king-high flush", MustParseHand("Ks", "Qs", "Js", "9s", "8s")},
		{"broadway straight", MustParseHand("As", "Kd", "Qh", "Jc", "Ts")},
		{"wheel straight", MustParseHand("Ah", "2c", "3d", "4s", "5h")},
		{"trip queens", MustParseHand("Qs", "Qh", "Qd", "Kc", "Jh")},
		{"aces and kings", MustParseHand("As", "Ah", "Kd", "Kc", "Qh")},
		{"pair of aces", MustParseHand("As", "Ah", "Kd", "Qc", "Jh")},
		{"pair of kings", MustParseHand("Ks", "Kh", "Ad", "Qc", "Jh")},
		{"ace high", MustParseHand("As", "Kd", "Qh", "Jc", "9s")},
		{"nine high", MustParseHand("9s", "7d", "5h", "4c", "2s")},
	}

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a := Evaluate5(ordered[i].hand)
			b := Evaluate5(ordered[j].hand)
			if CompareHands(a, b) != 1 {
				t.Errorf("%s (rank %d) should beat %s (rank %d)",
					ordered[i].name, a, ordered[j].name, b)
			}
		}
	}
}

func TestWithinCategoryOrdering(t *testing.T) {
	t.Parallel()
	// Same-category hands compare by highest rank first, then the next
	// highest, and so on. These pairs all share a category but differ in
	// their top card, including cases where the stronger hand has the
	// lower bottom card.
	tests := []struct {
		name     string
		stronger Hand
		weaker   Hand
	}{
		{"king-high flush beats nine-high flush",
			MustParseHand("Ks", "5s", "4s", "3s", "2s"),
			MustParseHand("9s", "7s", "6s", "5s", "4s")},
		{"flush kickers compare from the top",
			MustParseHand("As", "Ks", "4s", "3s", "2s"),
			MustParseHand("As", "Qs", "Js", "Ts", "8s")},
		{"king-high beats nine-high",
			MustParseHand("Kh", "5s", "4d", "3c", "2s"),
			MustParseHand("9h", "7s", "6d", "5c", "4s")},
		{"aces and twos beat fours and threes",
			MustParseHand("As", "Ah", "2d", "2c", "5h"),
			MustParseHand("4s", "4h", "3d", "3c", "Kh")},
		{"two pair kicker breaks the tie",
			MustParseHand("As", "Ah", "2d", "2c", "Kh"),
			MustParseHand("Ad", "Ac", "2h", "2s", "Qh")},
		{"pair kickers compare from the top",
			MustParseHand("As", "Ah", "Kd", "3c", "2h"),
			MustParseHand("Ad", "Ac", "Qh", "Js", "Th")},
		{"trips kickers compare from the top",
			MustParseHand("Qs", "Qh", "Qd", "Ac", "2h"),
			MustParseHand("Qc", "Qh", "Qd", "Ks", "Jh")},
		{"quad kicker breaks the tie",
			MustParseHand("7s", "7h", "7d", "7c", "Ah"),
			MustParseHand("7s", "7h", "7d", "7c", "Kh")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Evaluate5(tt.stronger)
			b := Evaluate5(tt.weaker)
			if a.Type() != b.Type() {
				t.Fatalf("categories differ: %s vs %s", a.Type(), b.Type())
			}
			if CompareHands(a, b) != 1 {
				t.Errorf("%s (rank %d) should beat %s (rank %d)",
					tt.stronger, a, tt.weaker, b)
			}
		})
	}
}

func TestEvaluate5Ties(t *testing.T) {
	t.Parallel()
	a := Evaluate5(MustParseHand("As", "Ks", "Qs", "Js", "9s"))
	b := Evaluate5(MustParseHand("Ah", "Kh", "Qh", "Jh", "9h"))
	if CompareHands(a, b) != 0 {
		t.Errorf("identical flushes in different suits should tie: %d vs %d", a, b)
	}
}

func TestEvaluateOmahaFlush(t *testing.T) {
	t.Parallel()
	hole := MustParseHand("Ah", "Kh", "2c", "3d")
	board := MustParseHand("Qh", "Jh", "9h", "2s", "3c")
	rank, err := EvaluateOmaha(hole, board)
	if err != nil {
		t.Fatal(err)
	}
	if rank.Type() != Flush {
		t.Errorf("two suited hole cards on a three-heart board should make a flush, got %s", rank.Type())
	}
}

func TestEvaluateOmahaTwoCardRule(t *testing.T) {
	t.Parallel()
	// One heart in the hole. Three hearts on board do not make a flush:
	// exactly two hole cards must play.
	hole := MustParseHand("Ah", "Kh", "Qh", "Jh")
	board := MustParseHand("2h", "3h", "9c", "8d", "7s")
	rank, err := EvaluateOmaha(hole, board)
	if err != nil {
		t.Fatal(err)
	}
	if rank.Type() == Flush {
		t.Error("flush requires two suited hole cards plus three suited board cards")
	}
	if rank.Type() != HighCard {
		t.Errorf("expected high card, got %s", rank.Type())
	}
}

func TestEvaluateOmahaCannotPlayBoard(t *testing.T) {
	t.Parallel()
	// Royal flush on the board, but exactly two hole cards must be used,
	// so the player does not hold the nuts.
	hole := MustParseHand("2c", "3d", "7h", "8c")
	board := MustParseHand("As", "Ks", "Qs", "Js", "Ts")
	rank, err := EvaluateOmaha(hole, board)
	if err != nil {
		t.Fatal(err)
	}
	if rank.Type() != HighCard {
		t.Errorf("expected high card when the board cannot be played, got %s", rank.Type())
	}
}

func TestEvaluateOmahaThreeCardBoard(t *testing.T) {
	t.Parallel()
	hole := MustParseHand("As", "Ah", "Kd", "Qc")
	board := MustParseHand("Ad", "Ac", "2h")
	rank, err := EvaluateOmaha(hole, board)
	if err != nil {
		t.Fatal(err)
	}
	if rank.Type() != FourOfAKind {
		t.Errorf("expected quad aces on flop, got %s", rank.Type())
	}
}

func TestEvaluateOmahaValidation(t *testing.T) {
	t.Parallel()
	board := MustParseHand("2h", "3h", "9c")

	if _, err := EvaluateOmaha(MustParseHand("As", "Kh"), board); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("expected ErrInvalidCard for 2 hole cards, got %v", err)
	}
	if _, err := EvaluateOmaha(MustParseHand("As", "Kh", "Qd", "Jc"), MustParseHand("2h", "3h")); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("expected ErrInvalidCard for 2-card board, got %v", err)
	}
	if _, err := EvaluateOmaha(MustParseHand("2h", "Kh", "Qd", "Jc"), board); !errors.Is(err, ErrDuplicateCard) {
		t.Errorf("expected ErrDuplicateCard for hole/board overlap, got %v", err)
	}
}

func TestOmahaQuadsBeatFullHouse(t *testing.T) {
	t.Parallel()
	board := MustParseHand("Ac", "Ad", "Kh", "2s", "3c")

	quads, err := EvaluateOmaha(MustParseHand("As", "Ah", "8d", "7c"), board)
	if err != nil {
		t.Fatal(err)
	}
	if quads.Type() != FourOfAKind {
		t.Fatalf("expected quads, got %s", quads.Type())
	}

	boat, err := EvaluateOmaha(MustParseHand("Ks", "Kd", "8h", "7s"), board)
	if err != nil {
		t.Fatal(err)
	}
	if boat.Type() != FullHouse {
		t.Fatalf("expected full house, got %s", boat.Type())
	}

	if CompareHands(quads, boat) != 1 {
		t.Errorf("quads (rank %d) should beat full house (rank %d)", quads, boat)
	}
}
