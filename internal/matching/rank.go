package matching

import (
	"sort"

	"fridgesearch/internal/models"
)

const (
	// balanced mode weights. Fixed by design, not user-configurable: match
	// percentage dominates, inverse missing-count keeps nearly-complete
	// recipes ahead of high-percentage recipes with long shopping lists.
	balancedMatchWeight   = 0.7
	balancedMissingWeight = 0.3
)

// comparator reports whether a sorts before b.
type comparator func(a, b *models.MatchResult) bool

// comparators maps every ranking mode to its pure comparator. Tie-break
// rules live here and nowhere else.
var comparators = map[models.RankingMode]comparator{
	models.RankBestMatch:     lessBestMatch,
	models.RankFewestMissing: lessFewestMissing,
	models.RankCookTime:      lessCookTime,
	models.RankBalanced:      lessBalanced,
}

func lessBestMatch(a, b *models.MatchResult) bool {
	if a.MatchPercent != b.MatchPercent {
		return a.MatchPercent > b.MatchPercent
	}
	if len(a.MissingIDs) != len(b.MissingIDs) {
		return len(a.MissingIDs) < len(b.MissingIDs)
	}
	return a.RecipeID < b.RecipeID
}

func lessFewestMissing(a, b *models.MatchResult) bool {
	if len(a.MissingIDs) != len(b.MissingIDs) {
		return len(a.MissingIDs) < len(b.MissingIDs)
	}
	if a.MatchPercent != b.MatchPercent {
		return a.MatchPercent > b.MatchPercent
	}
	return a.RecipeID < b.RecipeID
}

// lessCookTime sorts by total time ascending with unknown (zero) times last;
// ties fall back to best-match order.
func lessCookTime(a, b *models.MatchResult) bool {
	at, bt := a.PrepTime+a.CookTime, b.PrepTime+b.CookTime
	if (at == 0) != (bt == 0) {
		return at != 0
	}
	if at != bt {
		return at < bt
	}
	return lessBestMatch(a, b)
}

func lessBalanced(a, b *models.MatchResult) bool {
	as, bs := balancedScore(a), balancedScore(b)
	if as != bs {
		return as > bs
	}
	return a.RecipeID < b.RecipeID
}

func balancedScore(r *models.MatchResult) float64 {
	missingPenalty := 100 / float64(1+len(r.MissingIDs))
	return balancedMatchWeight*r.MatchPercent + balancedMissingWeight*missingPenalty
}

// Rank orders scored results in place by the given mode and fills in
// RankScore. When expiring is non-empty (inventory mode with
// prioritizeExpiring), recipes consuming at least one expiring ingredient
// are moved ahead of the rest as a stable pre-sort pass, preserving the
// chosen mode's order within each bucket.
func Rank(results []models.MatchResult, mode models.RankingMode, expiring map[string]struct{}) {
	less, ok := comparators[mode]
	if !ok {
		less = lessBalanced
	}

	sort.SliceStable(results, func(i, j int) bool {
		return less(&results[i], &results[j])
	})

	for i := range results {
		results[i].RankScore = rankScore(&results[i], mode)
	}

	if len(expiring) == 0 {
		return
	}
	sort.SliceStable(results, func(i, j int) bool {
		return usesExpiring(&results[i], expiring) && !usesExpiring(&results[j], expiring)
	})
}

func usesExpiring(r *models.MatchResult, expiring map[string]struct{}) bool {
	for _, id := range r.MatchedIDs {
		if _, ok := expiring[id]; ok {
			return true
		}
	}
	return false
}

func rankScore(r *models.MatchResult, mode models.RankingMode) float64 {
	switch mode {
	case models.RankBestMatch:
		return r.MatchPercent
	case models.RankFewestMissing:
		return -float64(len(r.MissingIDs))
	case models.RankCookTime:
		return -float64(r.PrepTime + r.CookTime)
	default:
		return balancedScore(r)
	}
}
