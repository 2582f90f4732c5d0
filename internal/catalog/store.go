package catalog

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"

	"fridgesearch/internal/models"
)

// Store reads the ingredient, recipe and inventory catalogs for the matching
// engine. It is strictly read-only: ingestion, authoring and inventory
// tracking write these tables elsewhere in the application.
type Store struct {
	db *gorm.DB
}

// NewStore creates a catalog store over an open database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListIngredients returns every published ingredient record.
func (s *Store) ListIngredients(ctx context.Context) ([]models.IngredientRecord, error) {
	var records []models.IngredientRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return records, nil
}

// ListRecipes returns every recipe row.
func (s *Store) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe returns one recipe, or nil without error when it does not exist.
func (s *Store) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Where("id = ?", id).First(&recipe).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return &recipe, nil
}

// UserInventory returns a user's current inventory snapshot.
func (s *Store) UserInventory(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("inventory for %s: %w", userID, err)
	}
	return items, nil
}
