package matching

import (
	"sync/atomic"

	"fridgesearch/internal/models"
)

// aliasTable is one immutable published version of the alias lookup table.
type aliasTable struct {
	byName map[string]string // normalized name or alias -> ingredient id
}

// AliasResolver maps normalized tokens to canonical ingredient ids. The
// table is rebuilt whenever ingredient records change; rebuilds construct a
// complete new table off to the side and publish it with a single atomic
// swap, so concurrent readers see either the old or the new table, never a
// partially built one.
type AliasResolver struct {
	table atomic.Value // *aliasTable
}

// NewAliasResolver returns a resolver with an empty table.
func NewAliasResolver() *AliasResolver {
	r := &AliasResolver{}
	r.table.Store(&aliasTable{byName: map[string]string{}})
	return r
}

// Rebuild replaces the alias table from the full ingredient catalog.
// Canonical names win over aliases when two records collide on a string.
func (r *AliasResolver) Rebuild(records []models.IngredientRecord) {
	byName := make(map[string]string, len(records)*2)

	for _, rec := range records {
		for _, alias := range rec.Aliases {
			if key := Normalize(alias); key != "" {
				if _, taken := byName[key]; !taken {
					byName[key] = rec.ID
				}
			}
		}
	}
	// Second pass so a canonical name always overrides an alias collision.
	for _, rec := range records {
		if key := Normalize(rec.CanonicalName); key != "" {
			byName[key] = rec.ID
		}
	}

	r.table.Store(&aliasTable{byName: byName})
}

// Resolve looks up a normalized token exactly, then retries singular forms.
// A plural is folded only when its singular is itself in the table, so
// irreducible plurals are never mangled into a wrong ingredient.
func (r *AliasResolver) Resolve(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}
	table := r.table.Load().(*aliasTable)

	if id, ok := table.byName[normalized]; ok {
		return id, true
	}
	for _, singular := range singularCandidates(normalized) {
		if id, ok := table.byName[singular]; ok {
			return id, true
		}
	}
	return "", false
}

// Size returns the number of entries in the published table.
func (r *AliasResolver) Size() int {
	return len(r.table.Load().(*aliasTable).byName)
}
