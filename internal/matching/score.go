package matching

import (
	"sort"

	"fridgesearch/internal/models"
)

// Score computes the match between a resolved query set and one recipe's
// ingredient set. The second return is false when the recipe cannot be
// scored at all: a recipe with zero countable ingredients has an undefined
// ratio and is excluded rather than scored as 0% or 100%.
//
// Unresolved raw ingredients stay in the percentage denominator but appear
// in neither the matched nor the missing list.
func Score(query map[string]struct{}, set *models.RecipeIngredientSet) (models.MatchResult, bool) {
	if set == nil || set.TotalCount == 0 {
		return models.MatchResult{}, false
	}

	matched := make([]string, 0, len(query))
	missing := make([]string, 0, len(set.IngredientIDs))
	for id := range set.IngredientIDs {
		if _, ok := query[id]; ok {
			matched = append(matched, id)
		} else {
			missing = append(missing, id)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	percent := float64(len(matched)) / float64(set.TotalCount) * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}

	return models.MatchResult{
		RecipeID:     set.RecipeID,
		MatchedIDs:   matched,
		MissingIDs:   missing,
		MatchPercent: percent,
	}, true
}

// ScoreCandidates scores every candidate recipe and applies the query's
// qualification filters: under MatchAll a recipe missing anything is dropped
// before ranking, under MatchAny at least one matched ingredient is
// required, and results below minPercent are dropped.
func ScoreCandidates(query map[string]struct{}, candidates map[string]*models.RecipeIngredientSet, mode models.MatchMode, minPercent float64) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(candidates))
	for _, set := range candidates {
		result, ok := Score(query, set)
		if !ok {
			continue
		}
		if mode == models.MatchAll && len(result.MissingIDs) > 0 {
			continue
		}
		if len(result.MatchedIDs) == 0 {
			continue
		}
		if result.MatchPercent < minPercent {
			continue
		}
		results = append(results, result)
	}
	return results
}
