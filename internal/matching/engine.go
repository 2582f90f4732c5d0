package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fridgesearch/internal/models"
)

// IngredientCatalog is the read-only view of the ingredient catalog owned by
// the ingestion side of the application.
type IngredientCatalog interface {
	ListIngredients(ctx context.Context) ([]models.IngredientRecord, error)
}

// RecipeCatalog is the read-only view of the recipe catalog.
type RecipeCatalog interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
}

// InventorySource provides a user's tracked inventory snapshot.
type InventorySource interface {
	UserInventory(ctx context.Context, userID string) ([]models.InventoryItem, error)
}

// Config tunes the engine. Zero values are replaced by DefaultConfig values.
type Config struct {
	CacheTTL        time.Duration
	QueryDeadline   time.Duration
	MaxCandidates   int
	ExpiringWindow  time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        5 * time.Minute,
		QueryDeadline:   15 * time.Second,
		MaxCandidates:   5,
		ExpiringWindow:  72 * time.Hour,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.QueryDeadline <= 0 {
		c.QueryDeadline = def.QueryDeadline
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = def.MaxCandidates
	}
	if c.ExpiringWindow <= 0 {
		c.ExpiringWindow = def.ExpiringWindow
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = def.DefaultPageSize
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = def.MaxPageSize
	}
}

// ChangeEvent describes an index change pushed to subscribed clients.
type ChangeEvent struct {
	Type      string    `json:"type"` // "recipes_updated" or "rebuild"
	RecipeIDs []string  `json:"recipe_ids,omitempty"`
	At        time.Time `json:"at"`
}

// Engine is the query orchestrator: the only component the rest of the
// application calls. It owns the alias table, fuzzy index, recipe index and
// result cache, all injected-by-construction rather than global, and is safe
// for arbitrary concurrent Execute calls.
type Engine struct {
	cfg     Config
	log     *zap.Logger
	metrics *Metrics

	ingredients IngredientCatalog
	recipes     RecipeCatalog
	inventory   InventorySource

	resolver *AliasResolver
	fuzzy    *FuzzyIndex
	index    *RecipeIndex
	cache    *ResultCache

	onEvent func(ChangeEvent)
}

// NewEngine wires an engine against its catalog collaborators. logger and
// metrics may be nil.
func NewEngine(cfg Config, ingredients IngredientCatalog, recipes RecipeCatalog, inventory InventorySource, logger *zap.Logger, metrics *Metrics) *Engine {
	cfg.fillDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		cfg:         cfg,
		log:         logger,
		metrics:     metrics,
		ingredients: ingredients,
		recipes:     recipes,
		inventory:   inventory,
		resolver:    NewAliasResolver(),
		fuzzy:       NewFuzzyIndex(),
		cache:       NewResultCache(cfg.CacheTTL),
	}
	e.index = NewRecipeIndex(e.resolver)
	e.index.SetOnChange(e.indexChanged)
	return e
}

// SetEventListener registers a callback for index change events, used to
// push invalidation notices to connected clients.
func (e *Engine) SetEventListener(fn func(ChangeEvent)) {
	e.onEvent = fn
}

// Close releases the engine's background resources.
func (e *Engine) Close() {
	e.cache.Close()
}

func (e *Engine) indexChanged(recipeIDs []string) {
	event := ChangeEvent{At: time.Now()}
	if recipeIDs == nil {
		e.cache.Purge()
		event.Type = "rebuild"
	} else {
		e.cache.InvalidateRecipes(recipeIDs)
		event.Type = "recipes_updated"
		event.RecipeIDs = recipeIDs
	}
	e.metrics.setIndexedRecipes(e.index.Len())
	if e.onEvent != nil {
		e.onEvent(event)
	}
}

// RefreshCatalog reloads both catalogs and rebuilds the alias table, fuzzy
// index and recipe index. Each structure is built aside and swapped, so
// queries running concurrently see consistent snapshots throughout.
func (e *Engine) RefreshCatalog(ctx context.Context) error {
	records, err := e.ingredients.ListIngredients(ctx)
	if err != nil {
		return fmt.Errorf("%w: list ingredients: %v", ErrCatalogUnavailable, err)
	}
	recipes, err := e.recipes.ListRecipes(ctx)
	if err != nil {
		return fmt.Errorf("%w: list recipes: %v", ErrCatalogUnavailable, err)
	}

	e.resolver.Rebuild(records)
	e.fuzzy.Rebuild(records)
	e.index.RebuildAll(recipes)

	e.log.Info("catalog refreshed",
		zap.Int("ingredients", len(records)),
		zap.Int("aliases", e.resolver.Size()),
		zap.Int("recipes", len(recipes)),
	)
	return nil
}

// RefreshRecipe re-resolves a single recipe after a create or update, or
// removes it from the index when the catalog no longer has it.
func (e *Engine) RefreshRecipe(ctx context.Context, recipeID string) error {
	recipe, err := e.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("%w: get recipe %s: %v", ErrCatalogUnavailable, recipeID, err)
	}
	if recipe == nil {
		e.index.RemoveRecipe(recipeID)
		return nil
	}
	e.index.UpdateRecipe(*recipe)
	return nil
}

// Execute runs one fridge-search query under the engine's deadline. A fired
// deadline returns ErrDeadlineExceeded with no partial results.
func (e *Engine) Execute(ctx context.Context, query models.MatchQuery) (models.SearchResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryDeadline)
	defer cancel()

	resp, err := e.execute(ctx, query)
	e.metrics.observeQuery(time.Since(start), err)
	if err != nil {
		e.log.Warn("search failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return models.SearchResponse{}, err
	}

	e.log.Debug("search completed",
		zap.Int("total", resp.TotalCount),
		zap.Int("page", len(resp.Results)),
		zap.Int("unrecognized", len(resp.UnrecognizedTokens)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (e *Engine) execute(ctx context.Context, query models.MatchQuery) (models.SearchResponse, error) {
	e.applyDefaults(&query)

	var (
		queryIDs     map[string]struct{}
		expiring     map[string]struct{}
		unrecognized []string
		err          error
	)
	if query.InventorySourced() {
		queryIDs, expiring, err = e.inventoryIngredients(ctx, &query)
		if err != nil {
			return models.SearchResponse{}, err
		}
	} else {
		queryIDs, unrecognized, err = e.resolveTokens(ctx, query.Ingredients)
		if err != nil {
			return models.SearchResponse{}, err
		}
	}

	// An empty resolved set matches nothing rather than everything.
	if len(queryIDs) == 0 {
		return models.SearchResponse{UnrecognizedTokens: unrecognized}, nil
	}

	if err := deadlineErr(ctx); err != nil {
		return models.SearchResponse{}, err
	}

	key := CacheKey(queryIDs, &query, expiring)
	results, hit := e.cache.Get(key)
	e.metrics.observeCache(hit)
	if !hit {
		results, err = e.compute(ctx, queryIDs, &query, expiring)
		if err != nil {
			return models.SearchResponse{}, err
		}
		e.cache.Put(key, results)
	}

	page := paginate(results, query.Offset, query.Limit)
	return models.SearchResponse{
		Results:            page,
		TotalCount:         len(results),
		UnrecognizedTokens: unrecognized,
	}, nil
}

func (e *Engine) compute(ctx context.Context, queryIDs map[string]struct{}, query *models.MatchQuery, expiring map[string]struct{}) ([]models.MatchResult, error) {
	candidates, snap := e.index.candidates(queryIDs)
	if err := deadlineErr(ctx); err != nil {
		return nil, err
	}

	results := ScoreCandidates(queryIDs, candidates, query.Mode, query.MinMatchPercent)

	// Join display metadata before ranking: cook-time order needs it.
	for i := range results {
		if recipe, ok := snap.recipes[results[i].RecipeID]; ok {
			results[i].Name = recipe.Name
			results[i].PrepTime = recipe.PrepTime
			results[i].CookTime = recipe.CookTime
			results[i].ImageURL = recipe.ImageURL
		}
	}

	if err := deadlineErr(ctx); err != nil {
		return nil, err
	}

	if !query.PrioritizeExpiring {
		expiring = nil
	}
	Rank(results, query.Ranking, expiring)
	return results, nil
}

// resolveTokens normalizes and resolves user-typed tokens, falling back to
// the fuzzy index on exact miss. Tokens that still resolve to nothing are
// dropped and reported, never an error.
func (e *Engine) resolveTokens(ctx context.Context, tokens []string) (map[string]struct{}, []string, error) {
	ids := make(map[string]struct{}, len(tokens))
	var unrecognized []string

	for _, raw := range tokens {
		if err := deadlineErr(ctx); err != nil {
			return nil, nil, err
		}

		normalized := Normalize(raw)
		if normalized == "" {
			continue
		}
		if id, ok := e.resolver.Resolve(normalized); ok {
			ids[id] = struct{}{}
			continue
		}
		if candidates := e.fuzzy.Lookup(normalized, e.cfg.MaxCandidates); len(candidates) > 0 {
			ids[candidates[0].ID] = struct{}{}
			e.log.Debug("fuzzy resolved token",
				zap.String("token", normalized),
				zap.String("matched", candidates[0].Text),
				zap.Float64("similarity", candidates[0].Similarity),
			)
			continue
		}
		unrecognized = append(unrecognized, raw)
		e.metrics.observeUnresolved()
	}
	return ids, unrecognized, nil
}

// inventoryIngredients loads a user's tracked ingredient ids. Inventory rows
// already hold canonical ids, so no normalization or fuzzy lookup runs here.
func (e *Engine) inventoryIngredients(ctx context.Context, query *models.MatchQuery) (ids, expiring map[string]struct{}, err error) {
	items, err := e.inventory.UserInventory(ctx, query.InventoryUserID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: inventory for %s: %v", ErrCatalogUnavailable, query.InventoryUserID, err)
	}

	ids = make(map[string]struct{}, len(items))
	expiring = make(map[string]struct{})
	for i := range items {
		ids[items[i].IngredientID] = struct{}{}
		if query.PrioritizeExpiring && items[i].ExpiresWithin(e.cfg.ExpiringWindow) {
			expiring[items[i].IngredientID] = struct{}{}
		}
	}
	return ids, expiring, nil
}

func (e *Engine) applyDefaults(query *models.MatchQuery) {
	if query.Mode == "" {
		query.Mode = models.MatchAny
	}
	if query.Ranking == "" {
		query.Ranking = models.RankBalanced
	}
	if query.MinMatchPercent < 0 {
		query.MinMatchPercent = 0
	}
	if query.MinMatchPercent > 100 {
		query.MinMatchPercent = 100
	}
	if query.Limit <= 0 {
		query.Limit = e.cfg.DefaultPageSize
	}
	if query.Limit > e.cfg.MaxPageSize {
		query.Limit = e.cfg.MaxPageSize
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
}

func paginate(results []models.MatchResult, offset, limit int) []models.MatchResult {
	if offset >= len(results) {
		return []models.MatchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	// Copy so callers never alias the cached slice.
	return append([]models.MatchResult(nil), results[offset:end]...)
}

// deadlineErr maps a fired context to the engine's typed timeout error.
func deadlineErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrDeadlineExceeded
		}
		return ctx.Err()
	default:
		return nil
	}
}
