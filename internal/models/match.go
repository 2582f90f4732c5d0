package models

// MatchMode controls whether a recipe needs some or all of the supplied
// ingredients to qualify.
type MatchMode string

const (
	// Match modes
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// RankingMode selects the comparator used to order scored candidates.
type RankingMode string

const (
	// Ranking modes
	RankBestMatch     RankingMode = "best_match"
	RankFewestMissing RankingMode = "fewest_missing"
	RankCookTime      RankingMode = "cook_time"
	RankBalanced      RankingMode = "balanced"
)

// MatchQuery is one fridge-search request. Either Ingredients carries the
// raw tokens the user typed, or InventoryUserID names the user whose tracked
// inventory supplies the ingredient set. Transient, never persisted.
type MatchQuery struct {
	Ingredients        []string    `json:"ingredients"`
	InventoryUserID    string      `json:"inventory_user_id"`
	Mode               MatchMode   `json:"mode"`
	MinMatchPercent    float64     `json:"min_match_percent"`
	Ranking            RankingMode `json:"ranking"`
	PrioritizeExpiring bool        `json:"prioritize_expiring"`
	Limit              int         `json:"limit"`
	Offset             int         `json:"offset"`
}

// InventorySourced reports whether the query pulls ingredients from a
// tracked inventory instead of raw tokens.
func (q *MatchQuery) InventorySourced() bool {
	return q.InventoryUserID != ""
}

// MatchResult is one scored recipe. MatchedIDs and MissingIDs are disjoint;
// raw recipe ingredients that never resolved to a canonical id appear in
// neither, but still count toward the percentage denominator.
type MatchResult struct {
	RecipeID     string   `json:"recipe_id"`
	MatchedIDs   []string `json:"matched_ids"`
	MissingIDs   []string `json:"missing_ids"`
	MatchPercent float64  `json:"match_percent"`
	RankScore    float64  `json:"rank_score"`

	// Display metadata joined from the recipe catalog by the orchestrator.
	Name     string `json:"name"`
	PrepTime int    `json:"prep_time"`
	CookTime int    `json:"cook_time"`
	ImageURL string `json:"image_url"`
}

// SearchResponse is the paginated result of one fridge-search query.
// UnrecognizedTokens lists raw inputs that resolved to nothing; they are a
// data-quality signal, not an error.
type SearchResponse struct {
	Results            []MatchResult `json:"results"`
	TotalCount         int           `json:"total_count"`
	UnrecognizedTokens []string      `json:"unrecognized_tokens,omitempty"`
}
