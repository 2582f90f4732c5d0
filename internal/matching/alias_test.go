package matching

import (
	"fmt"
	"sync"
	"testing"

	"fridgesearch/internal/models"
)

func testRecords() []models.IngredientRecord {
	return []models.IngredientRecord{
		{ID: "ing-tomato", CanonicalName: "tomato", Aliases: models.StringSlice{"tomatoes", "roma tomato"}},
		{ID: "ing-carrot", CanonicalName: "carrot"},
		{ID: "ing-peas", CanonicalName: "peas"},
		{ID: "ing-scallion", CanonicalName: "scallion", Aliases: models.StringSlice{"green onion", "Spring Onion"}},
	}
}

func TestResolveExact(t *testing.T) {
	r := NewAliasResolver()
	r.Rebuild(testRecords())

	cases := []struct {
		token string
		want  string
	}{
		{"tomato", "ing-tomato"},
		{"tomatoes", "ing-tomato"},    // alias
		{"roma tomato", "ing-tomato"}, // multi-word alias
		{"green onion", "ing-scallion"},
		{"spring onion", "ing-scallion"}, // alias normalized at build time
		{"peas", "ing-peas"},
	}
	for _, c := range cases {
		got, ok := r.Resolve(c.token)
		if !ok || got != c.want {
			t.Errorf("Resolve(%q) = %q, %t, want %q, true", c.token, got, ok, c.want)
		}
	}
}

func TestResolvePluralFolding(t *testing.T) {
	r := NewAliasResolver()
	r.Rebuild(testRecords())

	// "carrots" folds because "carrot" is independently known.
	if got, ok := r.Resolve("carrots"); !ok || got != "ing-carrot" {
		t.Errorf("Resolve(%q) = %q, %t, want ing-carrot, true", "carrots", got, ok)
	}

	// "peas" must resolve to the peas record itself, never be stemmed to a
	// nonexistent "pea".
	if got, ok := r.Resolve("peas"); !ok || got != "ing-peas" {
		t.Errorf("Resolve(%q) = %q, %t, want ing-peas, true", "peas", got, ok)
	}

	// A plural whose singular is unknown stays unresolved.
	if got, ok := r.Resolve("widgets"); ok {
		t.Errorf("Resolve(%q) = %q, true, want miss", "widgets", got)
	}
}

func TestResolveMiss(t *testing.T) {
	r := NewAliasResolver()
	r.Rebuild(testRecords())

	for _, token := range []string{"", "garlic", "tom"} {
		if got, ok := r.Resolve(token); ok {
			t.Errorf("Resolve(%q) = %q, true, want miss", token, got)
		}
	}
}

func TestRebuildSwapUnderConcurrentReads(t *testing.T) {
	r := NewAliasResolver()
	r.Rebuild(testRecords())

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				// Readers must always see a complete table: tomato resolves
				// in every published version.
				if _, ok := r.Resolve("tomato"); !ok {
					t.Error("Resolve(\"tomato\") missed during rebuild")
					return
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		records := testRecords()
		records = append(records, models.IngredientRecord{
			ID:            fmt.Sprintf("ing-extra-%d", i),
			CanonicalName: fmt.Sprintf("extra %d", i),
		})
		r.Rebuild(records)
	}
	close(done)
	wg.Wait()
}

func TestCanonicalNameWinsCollision(t *testing.T) {
	r := NewAliasResolver()
	r.Rebuild([]models.IngredientRecord{
		{ID: "ing-a", CanonicalName: "shallot", Aliases: models.StringSlice{"onion"}},
		{ID: "ing-b", CanonicalName: "onion"},
	})

	if got, _ := r.Resolve("onion"); got != "ing-b" {
		t.Errorf("Resolve(%q) = %q, want canonical owner ing-b", "onion", got)
	}
}
