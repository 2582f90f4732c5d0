package matching

import (
	"sort"
	"testing"

	"fridgesearch/internal/models"
)

func testIndex(t *testing.T) (*RecipeIndex, *AliasResolver) {
	t.Helper()
	resolver := NewAliasResolver()
	resolver.Rebuild([]models.IngredientRecord{
		{ID: "ing-chicken", CanonicalName: "chicken"},
		{ID: "ing-rice", CanonicalName: "rice"},
		{ID: "ing-tomato", CanonicalName: "tomato", Aliases: models.StringSlice{"tomatoes"}},
	})

	idx := NewRecipeIndex(resolver)
	idx.RebuildAll([]models.Recipe{
		{ID: "r-1", Name: "Bowl", RawIngredients: models.StringSlice{"Chicken", "Rice", "Tomatoes"}},
		{ID: "r-2", Name: "Plain", RawIngredients: models.StringSlice{"rice"}},
		{ID: "r-3", Name: "Mystery", RawIngredients: models.StringSlice{"rice", "dragon scales"}},
	})
	return idx, resolver
}

func TestIndexBuild(t *testing.T) {
	idx, _ := testIndex(t)

	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}

	got := idx.RecipesWith("ing-rice")
	sort.Strings(got)
	want := []string{"r-1", "r-2", "r-3"}
	if len(got) != len(want) {
		t.Fatalf("RecipesWith(ing-rice) = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("RecipesWith(ing-rice) = %v, want %v", got, want)
		}
	}

	set, ok := idx.IngredientsOf("r-1")
	if !ok {
		t.Fatal("IngredientsOf(r-1) not found")
	}
	if set.TotalCount != 3 || set.UnresolvedCount != 0 || len(set.IngredientIDs) != 3 {
		t.Errorf("IngredientsOf(r-1) = %+v, want 3 resolved of 3", set)
	}
}

func TestIndexUnresolvedCountsTowardTotal(t *testing.T) {
	idx, _ := testIndex(t)

	// "dragon scales" fails resolution on the bulk path (no fuzzy lookup
	// here) but still counts toward the total, depressing the achievable
	// match percentage.
	set, ok := idx.IngredientsOf("r-3")
	if !ok {
		t.Fatal("IngredientsOf(r-3) not found")
	}
	if set.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", set.TotalCount)
	}
	if set.UnresolvedCount != 1 {
		t.Errorf("UnresolvedCount = %d, want 1", set.UnresolvedCount)
	}
	if len(set.IngredientIDs) != 1 {
		t.Errorf("resolved ids = %v, want just rice", set.IngredientIDs)
	}
}

func TestIndexUpdateRecipe(t *testing.T) {
	idx, _ := testIndex(t)

	idx.UpdateRecipe(models.Recipe{ID: "r-2", Name: "Plain", RawIngredients: models.StringSlice{"rice", "chicken"}})

	set, _ := idx.IngredientsOf("r-2")
	if set.TotalCount != 2 || !set.Has("ing-chicken") {
		t.Errorf("after update, IngredientsOf(r-2) = %+v, want rice+chicken", set)
	}

	got := idx.RecipesWith("ing-chicken")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "r-1" || got[1] != "r-2" {
		t.Errorf("RecipesWith(ing-chicken) = %v, want [r-1 r-2]", got)
	}
}

func TestIndexRemoveRecipe(t *testing.T) {
	idx, _ := testIndex(t)

	idx.RemoveRecipe("r-1")

	if idx.Len() != 2 {
		t.Errorf("Len() = %d after remove, want 2", idx.Len())
	}
	if got := idx.RecipesWith("ing-chicken"); len(got) != 0 {
		t.Errorf("RecipesWith(ing-chicken) = %v after remove, want empty", got)
	}
	if _, ok := idx.IngredientsOf("r-1"); ok {
		t.Error("IngredientsOf(r-1) still present after remove")
	}
}

func TestIndexOnChange(t *testing.T) {
	idx, _ := testIndex(t)

	var calls [][]string
	idx.SetOnChange(func(ids []string) {
		calls = append(calls, ids)
	})

	idx.UpdateRecipe(models.Recipe{ID: "r-2", RawIngredients: models.StringSlice{"rice"}})
	idx.RemoveRecipe("r-3")
	idx.RebuildAll(nil)

	if len(calls) != 3 {
		t.Fatalf("onChange called %d times, want 3", len(calls))
	}
	if len(calls[0]) != 1 || calls[0][0] != "r-2" {
		t.Errorf("first change = %v, want [r-2]", calls[0])
	}
	if len(calls[1]) != 1 || calls[1][0] != "r-3" {
		t.Errorf("second change = %v, want [r-3]", calls[1])
	}
	if calls[2] != nil {
		t.Errorf("bulk rebuild change = %v, want nil", calls[2])
	}
}

func TestIndexCandidatesUnion(t *testing.T) {
	idx, _ := testIndex(t)

	candidates, _ := idx.candidates(map[string]struct{}{
		"ing-chicken": {},
		"ing-tomato":  {},
	})

	if len(candidates) != 1 {
		t.Fatalf("candidates = %d recipes, want 1", len(candidates))
	}
	if _, ok := candidates["r-1"]; !ok {
		t.Error("candidates missing r-1")
	}
}
