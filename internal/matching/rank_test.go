package matching

import (
	"testing"

	"fridgesearch/internal/models"
)

func result(id string, percent float64, missing int, prep, cook int) models.MatchResult {
	missingIDs := make([]string, missing)
	for i := range missingIDs {
		missingIDs[i] = "m" + string(rune('a'+i))
	}
	return models.MatchResult{
		RecipeID:     id,
		MatchPercent: percent,
		MissingIDs:   missingIDs,
		MatchedIDs:   []string{"x"},
		PrepTime:     prep,
		CookTime:     cook,
	}
}

func order(results []models.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.RecipeID
	}
	return out
}

func assertOrder(t *testing.T, results []models.MatchResult, want ...string) {
	t.Helper()
	got := order(results)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRankBestMatch(t *testing.T) {
	results := []models.MatchResult{
		result("r3", 50, 2, 0, 0),
		result("r1", 100, 0, 0, 0),
		result("r2", 100, 1, 0, 0), // same percent, more missing
		result("r4", 50, 2, 0, 0),  // full tie with r3: id decides
	}
	Rank(results, models.RankBestMatch, nil)
	assertOrder(t, results, "r1", "r2", "r3", "r4")
}

func TestRankFewestMissing(t *testing.T) {
	results := []models.MatchResult{
		result("r1", 40, 2, 0, 0),
		result("r2", 90, 1, 0, 0),
		result("r3", 60, 1, 0, 0), // ties with r2 on missing, lower percent
	}
	Rank(results, models.RankFewestMissing, nil)
	assertOrder(t, results, "r2", "r3", "r1")
}

func TestRankCookTime(t *testing.T) {
	results := []models.MatchResult{
		result("r1", 80, 1, 10, 50), // 60 min
		result("r2", 80, 1, 5, 10),  // 15 min
		result("r3", 80, 1, 0, 0),   // unknown time sorts last
		result("r4", 90, 0, 5, 10),  // ties r2 on time, better match
	}
	Rank(results, models.RankCookTime, nil)
	assertOrder(t, results, "r4", "r2", "r1", "r3")
}

func TestRankBalanced(t *testing.T) {
	// 100% with three missing: 0.7*100 + 0.3*25 = 77.5
	// 80% with zero missing:  0.7*80 + 0.3*100 = 86
	results := []models.MatchResult{
		result("r1", 100, 3, 0, 0),
		result("r2", 80, 0, 0, 0),
	}
	Rank(results, models.RankBalanced, nil)
	assertOrder(t, results, "r2", "r1")

	if results[0].RankScore != 86 {
		t.Errorf("balanced RankScore = %f, want 86", results[0].RankScore)
	}
}

func TestRankUnknownModeFallsBackToBalanced(t *testing.T) {
	results := []models.MatchResult{
		result("r1", 100, 3, 0, 0),
		result("r2", 80, 0, 0, 0),
	}
	Rank(results, models.RankingMode("bogus"), nil)
	assertOrder(t, results, "r2", "r1")
}

func TestRankExpiringPreSort(t *testing.T) {
	uses := result("r-low", 40, 3, 0, 0)
	uses.MatchedIDs = []string{"ing-chicken"}
	other := result("r-high", 100, 0, 0, 0)
	other.MatchedIDs = []string{"ing-rice"}

	results := []models.MatchResult{other, uses}
	expiring := map[string]struct{}{"ing-chicken": {}}

	Rank(results, models.RankBestMatch, expiring)
	assertOrder(t, results, "r-low", "r-high")
}

func TestRankExpiringPreservesBucketOrder(t *testing.T) {
	a := result("r-a", 90, 1, 0, 0)
	a.MatchedIDs = []string{"exp-1"}
	b := result("r-b", 70, 2, 0, 0)
	b.MatchedIDs = []string{"exp-1"}
	c := result("r-c", 100, 0, 0, 0)
	c.MatchedIDs = []string{"other"}
	d := result("r-d", 95, 0, 0, 0)
	d.MatchedIDs = []string{"other"}

	results := []models.MatchResult{b, c, a, d}
	Rank(results, models.RankBestMatch, map[string]struct{}{"exp-1": {}})

	// Expiring bucket first, best-match order inside each bucket.
	assertOrder(t, results, "r-a", "r-b", "r-c", "r-d")
}
