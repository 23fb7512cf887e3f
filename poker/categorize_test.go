package poker

import "testing"

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hand Hand
		want HoleCardCategory
	}{
		{"aces double-suited", MustParseHand("As", "Ks", "Ah", "Kh"), CategoryPremium},
		{"aces single-suited", MustParseHand("As", "Ks", "Ah", "7d"), CategoryPremium},
		{"aces with broadway", MustParseHand("As", "Ah", "Kd", "Qc"), CategoryPremium},
		{"kings suited connected", MustParseHand("Ks", "Kh", "Qs", "Jh"), CategoryPremium},
		{"kings dry-suited", MustParseHand("Ks", "Kh", "9s", "4d"), CategoryStrong},
		{"double-suited rundown", MustParseHand("Jh", "Th", "9s", "8s"), CategoryStrong},
		{"suited rundown", MustParseHand("9h", "8h", "7c", "5d"), CategoryMedium},
		{"double-suited broadway", MustParseHand("Kh", "Qh", "9s", "2s"), CategoryMedium},
		{"small pair rags", MustParseHand("7c", "7d", "2h", "Ks"), CategoryWeak},
		{"one suit no shape", MustParseHand("Kh", "2h", "8c", "4d"), CategoryWeak},
		{"dry rags", MustParseHand("2c", "6d", "Th", "As"), CategoryTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeHoleCards(tt.hand)
			if got != tt.want {
				t.Errorf("CategorizeHoleCards(%s) = %s, want %s", tt.hand, got, tt.want)
			}
		})
	}
}

func TestCategorizeRequiresFourCards(t *testing.T) {
	t.Parallel()
	if got := CategorizeHoleCards(MustParseHand("As", "Kh")); got != CategoryUnknown {
		t.Errorf("expected Unknown for 2-card hand, got %s", got)
	}
	if got := CategorizeHoleCards(0); got != CategoryUnknown {
		t.Errorf("expected Unknown for empty hand, got %s", got)
	}
}
