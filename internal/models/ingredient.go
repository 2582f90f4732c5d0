package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// IngredientRecord is one canonical ingredient in the catalog. Records are
// created and edited by the ingestion side of the application; the matching
// engine only ever reads them.
type IngredientRecord struct {
	ID            string      `gorm:"primary_key" json:"id"`
	CanonicalName string      `gorm:"unique_index" json:"canonical_name"`
	DisplayName   string      `json:"display_name"`
	Aliases       StringSlice `gorm:"type:text" json:"aliases"`
	Category      string      `json:"category"`
}

// TableName sets the table name for IngredientRecord
func (IngredientRecord) TableName() string {
	return "ingredients"
}

// IngredientCategory represents the category of an ingredient
type IngredientCategory string

const (
	// Ingredient categories
	CategoryProtein    IngredientCategory = "protein"
	CategoryProduce    IngredientCategory = "produce"
	CategoryDairy      IngredientCategory = "dairy"
	CategoryDryGoods   IngredientCategory = "dry_goods"
	CategorySpices     IngredientCategory = "spices"
	CategoryCondiments IngredientCategory = "condiments"
	CategoryBeverages  IngredientCategory = "beverages"
)
