package poker

// HoleCardCategory represents the strength category of a 4-card Omaha holding.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards provides a simple preflop categorization for PLO hands.
// Premium: AA double-suited or big-pair plus connected broadway; Strong: big
// pair or double-suited rundown; Medium: suited and connected; Weak: one of
// suitedness/connectedness/a pair; Trash: dry unconnected rags.
func CategorizeHoleCards(hole Hand) HoleCardCategory {
	if hole.CountCards() != 4 {
		return CategoryUnknown
	}

	cards := hole.Cards()

	var rankCounts [13]int
	var suitCounts [4]int
	for _, c := range cards {
		rankCounts[c.Rank()]++
		suitCounts[c.Suit()]++
	}

	pairRank := -1
	for r := 12; r >= 0; r-- {
		if rankCounts[r] >= 2 {
			pairRank = r
			break
		}
	}

	suitedLanes := 0
	for _, n := range suitCounts {
		if n >= 2 {
			suitedLanes++
		}
	}
	doubleSuited := suitedLanes == 2
	suited := suitedLanes >= 1

	connected := handConnectivity(rankCounts)
	broadway := 0
	for r := int(Ten); r <= int(Ace); r++ {
		broadway += rankCounts[r]
	}

	hasBigPair := pairRank >= int(Queen)
	hasAces := rankCounts[Ace] >= 2

	switch {
	case hasAces && doubleSuited:
		return CategoryPremium
	case hasAces && (suited || broadway == 4):
		return CategoryPremium
	case hasBigPair && suited && connected >= 2:
		return CategoryPremium
	case hasBigPair && (suited || connected >= 2):
		return CategoryStrong
	case doubleSuited && connected >= 3:
		return CategoryStrong
	case suited && connected >= 3:
		return CategoryMedium
	case doubleSuited && broadway >= 2:
		return CategoryMedium
	case suited || connected >= 2 || pairRank >= 0:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}

// handConnectivity counts distinct rank pairs within three ranks of each
// other, a rough measure of straight-making potential.
func handConnectivity(rankCounts [13]int) int {
	ranks := make([]int, 0, 4)
	for r := 0; r < 13; r++ {
		if rankCounts[r] > 0 {
			ranks = append(ranks, r)
		}
	}
	connections := 0
	for i := 0; i < len(ranks); i++ {
		for j := i + 1; j < len(ranks); j++ {
			if ranks[j]-ranks[i] <= 3 {
				connections++
			}
		}
	}
	return connections
}
