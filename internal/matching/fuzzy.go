package matching

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/agnivade/levenshtein"

	"fridgesearch/internal/models"
)

const (
	// trigramCoverageFloor is the minimum share of a query token's trigrams
	// that must appear in a candidate before it is considered at all. Cheap
	// pre-filter; the real acceptance decision is fuzzyAcceptThreshold.
	trigramCoverageFloor = 0.4

	// fuzzyAcceptThreshold is the minimum levenshtein similarity
	// (1 - distance/maxLen) for a fuzzy candidate to be usable. Tuned so a
	// one-letter slip in a word of seven or more letters passes
	// ("tomatos" vs "tomatoes" scores 0.875) while unrelated words fail.
	// A token whose best candidate scores below this stays unresolved;
	// it is never matched to the nearest unrelated ingredient.
	fuzzyAcceptThreshold = 0.72
)

// FuzzyCandidate is one accepted fuzzy match for a query token.
type FuzzyCandidate struct {
	ID         string
	Text       string
	Similarity float64
}

type fuzzyEntry struct {
	text     string
	id       string
	trigrams map[string]struct{}
}

type fuzzyIndex struct {
	entries []fuzzyEntry
}

// FuzzyIndex is a trigram index over every canonical name and alias in the
// ingredient catalog, consulted only when exact resolution of a user-typed
// token misses. Bulk recipe preprocessing never pays this cost. Rebuilds
// publish a complete new index with one atomic swap.
type FuzzyIndex struct {
	index atomic.Value // *fuzzyIndex
}

// NewFuzzyIndex returns an empty index.
func NewFuzzyIndex() *FuzzyIndex {
	f := &FuzzyIndex{}
	f.index.Store(&fuzzyIndex{})
	return f
}

// Rebuild replaces the index from the full ingredient catalog.
func (f *FuzzyIndex) Rebuild(records []models.IngredientRecord) {
	seen := make(map[string]struct{})
	var entries []fuzzyEntry

	add := func(raw, id string) {
		text := Normalize(raw)
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		entries = append(entries, fuzzyEntry{
			text:     text,
			id:       id,
			trigrams: trigrams(text),
		})
	}

	for _, rec := range records {
		add(rec.CanonicalName, rec.ID)
		for _, alias := range rec.Aliases {
			add(alias, rec.ID)
		}
	}

	f.index.Store(&fuzzyIndex{entries: entries})
}

// Lookup returns accepted candidates for a normalized token, best first,
// truncated to maxCandidates. At most one candidate per ingredient id is
// returned. An empty result means the token is unresolved.
func (f *FuzzyIndex) Lookup(normalized string, maxCandidates int) []FuzzyCandidate {
	if normalized == "" || maxCandidates <= 0 {
		return nil
	}
	idx := f.index.Load().(*fuzzyIndex)
	queryTris := trigrams(normalized)
	if len(queryTris) == 0 {
		return nil
	}

	var matches []FuzzyCandidate
	for _, e := range idx.entries {
		if coverage(queryTris, e.trigrams) < trigramCoverageFloor {
			continue
		}
		sim := similarity(normalized, e.text)
		if sim < fuzzyAcceptThreshold {
			continue
		}
		matches = append(matches, FuzzyCandidate{ID: e.id, Text: e.text, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Text < matches[j].Text
	})

	// Keep only the best entry per ingredient id.
	out := matches[:0]
	byID := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := byID[m.ID]; dup {
			continue
		}
		byID[m.ID] = struct{}{}
		out = append(out, m)
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

// similarity scores two strings 0.0-1.0 using levenshtein distance:
// 1.0 - distance/max(len(a), len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// trigrams returns the padded trigram set of a string. Padding with spaces
// weights prefixes and suffixes, which matters for short ingredient words.
func trigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}
	tris := make(map[string]struct{})
	runes := []rune("  " + s + "  ")
	for i := 0; i <= len(runes)-3; i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			tris[tri] = struct{}{}
		}
	}
	return tris
}

// coverage returns |query ∩ candidate| / |query|. Coverage is used instead
// of Jaccard because Jaccard penalizes short queries against longer aliases.
func coverage(query, candidate map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hit := 0
	for tri := range query {
		if _, ok := candidate[tri]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(query))
}
