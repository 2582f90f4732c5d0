package matching

import (
	"sync"
	"sync/atomic"

	"fridgesearch/internal/models"
)

// indexSnapshot is one immutable published version of the recipe index.
type indexSnapshot struct {
	byIngredient map[string]map[string]struct{}         // ingredient id -> recipe id set
	sets         map[string]*models.RecipeIngredientSet // recipe id -> resolved set
	recipes      map[string]models.Recipe               // recipe id -> display metadata
}

// RecipeIndex maps canonical ingredient ids to the recipes that use them.
// Reads are lock-free against an atomically published snapshot. Writers
// (bulk rebuild and per-recipe patches) serialize on a mutex, build the next
// snapshot off to the side and swap it in whole.
type RecipeIndex struct {
	resolver *AliasResolver

	mu       sync.Mutex // serializes writers only
	snapshot atomic.Value

	// onChange, when set, is called after a snapshot swap with the recipe
	// ids whose entries changed (nil for a bulk rebuild).
	onChange func(recipeIDs []string)
}

// NewRecipeIndex returns an empty index resolving through the given resolver.
func NewRecipeIndex(resolver *AliasResolver) *RecipeIndex {
	idx := &RecipeIndex{resolver: resolver}
	idx.snapshot.Store(&indexSnapshot{
		byIngredient: map[string]map[string]struct{}{},
		sets:         map[string]*models.RecipeIngredientSet{},
		recipes:      map[string]models.Recipe{},
	})
	return idx
}

// SetOnChange registers a callback invoked after every snapshot swap.
func (idx *RecipeIndex) SetOnChange(fn func(recipeIDs []string)) {
	idx.onChange = fn
}

// resolveRecipe runs a recipe's raw ingredient strings through normalization
// and exact alias resolution. Fuzzy lookup is deliberately skipped on this
// bulk path; raw strings that fail to resolve are counted as unresolved and
// not retried per query.
func (idx *RecipeIndex) resolveRecipe(recipe models.Recipe) *models.RecipeIngredientSet {
	set := &models.RecipeIngredientSet{
		RecipeID:      recipe.ID,
		IngredientIDs: make(map[string]struct{}, len(recipe.RawIngredients)),
	}
	for _, raw := range recipe.RawIngredients {
		normalized := Normalize(raw)
		if normalized == "" {
			continue
		}
		set.TotalCount++
		if id, ok := idx.resolver.Resolve(normalized); ok {
			set.IngredientIDs[id] = struct{}{}
		} else {
			set.UnresolvedCount++
		}
	}
	return set
}

// RebuildAll replaces the whole index from the recipe catalog. Used at
// startup and whenever the ingredient catalog changes aliasing, which can
// shift how every recipe resolves.
func (idx *RecipeIndex) RebuildAll(recipes []models.Recipe) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	next := &indexSnapshot{
		byIngredient: make(map[string]map[string]struct{}),
		sets:         make(map[string]*models.RecipeIngredientSet, len(recipes)),
		recipes:      make(map[string]models.Recipe, len(recipes)),
	}
	for _, recipe := range recipes {
		set := idx.resolveRecipe(recipe)
		next.sets[recipe.ID] = set
		next.recipes[recipe.ID] = recipe
		for id := range set.IngredientIDs {
			bucket, ok := next.byIngredient[id]
			if !ok {
				bucket = make(map[string]struct{})
				next.byIngredient[id] = bucket
			}
			bucket[recipe.ID] = struct{}{}
		}
	}

	idx.snapshot.Store(next)
	if idx.onChange != nil {
		idx.onChange(nil)
	}
}

// UpdateRecipe recomputes a single recipe's ingredient set and patches the
// inverted index. Readers keep seeing the previous snapshot until the new
// one is published.
func (idx *RecipeIndex) UpdateRecipe(recipe models.Recipe) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	next := idx.cloneLocked(recipe.ID)
	set := idx.resolveRecipe(recipe)
	next.sets[recipe.ID] = set
	next.recipes[recipe.ID] = recipe
	for id := range set.IngredientIDs {
		bucket, ok := next.byIngredient[id]
		if !ok {
			bucket = make(map[string]struct{})
			next.byIngredient[id] = bucket
		}
		bucket[recipe.ID] = struct{}{}
	}

	idx.snapshot.Store(next)
	if idx.onChange != nil {
		idx.onChange([]string{recipe.ID})
	}
}

// RemoveRecipe drops a recipe from the index.
func (idx *RecipeIndex) RemoveRecipe(recipeID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	next := idx.cloneLocked(recipeID)
	delete(next.sets, recipeID)
	delete(next.recipes, recipeID)

	idx.snapshot.Store(next)
	if idx.onChange != nil {
		idx.onChange([]string{recipeID})
	}
}

// cloneLocked copies the current snapshot with every reference to the given
// recipe removed from the inverted index, ready for re-insertion. Inner sets
// are copied so the published snapshot is never mutated.
func (idx *RecipeIndex) cloneLocked(recipeID string) *indexSnapshot {
	cur := idx.snapshot.Load().(*indexSnapshot)
	next := &indexSnapshot{
		byIngredient: make(map[string]map[string]struct{}, len(cur.byIngredient)),
		sets:         make(map[string]*models.RecipeIngredientSet, len(cur.sets)),
		recipes:      make(map[string]models.Recipe, len(cur.recipes)),
	}
	for id, set := range cur.sets {
		next.sets[id] = set
	}
	for id, recipe := range cur.recipes {
		next.recipes[id] = recipe
	}
	for ing, bucket := range cur.byIngredient {
		copied := make(map[string]struct{}, len(bucket))
		for rid := range bucket {
			if rid == recipeID {
				continue
			}
			copied[rid] = struct{}{}
		}
		if len(copied) > 0 {
			next.byIngredient[ing] = copied
		}
	}
	return next
}

// RecipesWith returns the ids of recipes using the given ingredient.
func (idx *RecipeIndex) RecipesWith(ingredientID string) []string {
	snap := idx.snapshot.Load().(*indexSnapshot)
	bucket := snap.byIngredient[ingredientID]
	out := make([]string, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	return out
}

// IngredientsOf returns the resolved ingredient set for a recipe.
func (idx *RecipeIndex) IngredientsOf(recipeID string) (*models.RecipeIngredientSet, bool) {
	snap := idx.snapshot.Load().(*indexSnapshot)
	set, ok := snap.sets[recipeID]
	return set, ok
}

// RecipeMeta returns the display metadata for a recipe.
func (idx *RecipeIndex) RecipeMeta(recipeID string) (models.Recipe, bool) {
	snap := idx.snapshot.Load().(*indexSnapshot)
	recipe, ok := snap.recipes[recipeID]
	return recipe, ok
}

// Len returns the number of indexed recipes.
func (idx *RecipeIndex) Len() int {
	return len(idx.snapshot.Load().(*indexSnapshot).sets)
}

// candidates returns the union of RecipesWith over the query ids, using one
// snapshot for the whole scan. A recipe sharing zero ingredients with the
// query can never pass a positive match threshold, so the union is the full
// candidate set.
func (idx *RecipeIndex) candidates(queryIDs map[string]struct{}) (map[string]*models.RecipeIngredientSet, *indexSnapshot) {
	snap := idx.snapshot.Load().(*indexSnapshot)
	out := make(map[string]*models.RecipeIngredientSet)
	for ing := range queryIDs {
		for rid := range snap.byIngredient[ing] {
			if _, dup := out[rid]; !dup {
				out[rid] = snap.sets[rid]
			}
		}
	}
	return out, snap
}
