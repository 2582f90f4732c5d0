package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fridgesearch/internal/matching"
	"fridgesearch/internal/models"
)

// SearchAPI exposes the fridge-search query operation and the catalog
// refresh hooks the rest of the application calls after recipe or
// ingredient mutations.
type SearchAPI struct {
	Router *gin.Engine
	engine *matching.Engine
	hub    *EventHub
	log    *zap.Logger
}

// NewSearchAPI creates the API and wires the engine's change events into
// the websocket hub.
func NewSearchAPI(engine *matching.Engine, logger *zap.Logger) *SearchAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.Default()

	api := &SearchAPI{
		Router: router,
		engine: engine,
		hub:    NewEventHub(logger),
		log:    logger,
	}
	engine.SetEventListener(api.hub.Broadcast)

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *SearchAPI) setupRoutes() {
	// Health check
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fridge search is running"})
	})

	v1 := a.Router.Group("/api/v1")
	{
		// Fridge search
		v1.POST("/search", a.Search)
		v1.GET("/search/events", a.hub.Serve)

		// Catalog refresh hooks
		v1.POST("/catalog/refresh", a.RefreshCatalog)
		v1.POST("/recipes/:id/refresh", a.RefreshRecipe)
	}
}

// Search runs one fridge-search query.
func (a *SearchAPI) Search(c *gin.Context) {
	var query models.MatchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(query.Ingredients) > 0 && query.InventoryUserID != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supply either ingredients or inventory_user_id, not both"})
		return
	}
	if !validMode(query.Mode) || !validRanking(query.Ranking) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode or ranking"})
		return
	}

	resp, err := a.engine.Execute(c.Request.Context(), query)
	if err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshCatalog rebuilds the alias table, fuzzy index and recipe index
// from the current catalogs. Called after bulk ingredient edits.
func (a *SearchAPI) RefreshCatalog(c *gin.Context) {
	if err := a.engine.RefreshCatalog(c.Request.Context()); err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// RefreshRecipe re-indexes one recipe after a create, update or delete.
func (a *SearchAPI) RefreshRecipe(c *gin.Context) {
	if err := a.engine.RefreshRecipe(c.Request.Context(), c.Param("id")); err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (a *SearchAPI) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matching.ErrDeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "search took too long, please retry"})
	case errors.Is(err, matching.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
	default:
		a.log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func validMode(mode models.MatchMode) bool {
	switch mode {
	case "", models.MatchAny, models.MatchAll:
		return true
	}
	return false
}

func validRanking(mode models.RankingMode) bool {
	switch mode {
	case "", models.RankBestMatch, models.RankFewestMissing, models.RankCookTime, models.RankBalanced:
		return true
	}
	return false
}
