package models

import "time"

// InventoryItem represents one tracked ingredient in a user's inventory.
// Rows are already canonical: the tracking UI only lets users add ingredients
// that exist in the catalog, so no normalization happens on this path.
type InventoryItem struct {
	ID           uint       `gorm:"primary_key" json:"id"`
	UserID       string     `gorm:"index" json:"user_id"`
	IngredientID string     `json:"ingredient_id"`
	Quantity     float64    `json:"quantity"`
	Unit         string     `json:"unit"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

// TableName sets the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// ExpiresWithin reports whether the item has an expiry date inside the given
// window from now. Items without an expiry date never expire.
func (i *InventoryItem) ExpiresWithin(window time.Duration) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return i.ExpiryDate.Before(time.Now().Add(window))
}
