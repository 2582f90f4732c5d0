package models

// Recipe represents one recipe row as the matching engine sees it: the raw
// ingredient strings exactly as the author typed them, plus the display
// metadata joined onto search results. Authoring and moderation own the rest
// of the recipe record.
type Recipe struct {
	ID             string      `gorm:"primary_key" json:"id"`
	Name           string      `json:"name"`
	RawIngredients StringSlice `gorm:"type:text" json:"raw_ingredients"`
	PrepTime       int         `json:"prep_time"` // minutes, 0 = unknown
	CookTime       int         `json:"cook_time"` // minutes, 0 = unknown
	ImageURL       string      `json:"image_url"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// TotalTime returns prep plus cook time in minutes, or 0 when neither is known.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// RecipeIngredientSet is the resolved form of a recipe's ingredient list:
// every raw string run through normalization and alias resolution. TotalCount
// keeps counting raw ingredients that failed to resolve, so a recipe with
// unresolvable noise can never reach 100%.
type RecipeIngredientSet struct {
	RecipeID        string
	IngredientIDs   map[string]struct{}
	TotalCount      int
	UnresolvedCount int
}

// Has reports whether the set contains the given canonical ingredient id.
func (s *RecipeIngredientSet) Has(ingredientID string) bool {
	_, ok := s.IngredientIDs[ingredientID]
	return ok
}
