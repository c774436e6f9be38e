package model

import "time"

// StockRecord tracks on-hand and lifetime quantities for exactly one catalog item
type StockRecord struct {
	BaseModel
	CatalogItemID    string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"catalogItemId" validate:"required"`
	Title            string     `gorm:"type:varchar(255);index;not null" json:"title" validate:"required"` // Denormalized from CatalogItem
	Quantity         int        `gorm:"not null" json:"quantity" validate:"gte=0"`
	TotalQuantity    int        `gorm:"not null" json:"totalQuantity" validate:"gtefield=Quantity"`
	QuantityBought   int        `gorm:"not null" json:"quantityBought" validate:"gte=0"`
	TotalOrder       int        `gorm:"not null" json:"totalOrder" validate:"gte=0"`
	LastOrderAt      *time.Time `json:"lastOrderAt"`
	QuantityUpdateAt *time.Time `json:"quantityUpdateAt"`
	LastStockCheck   *time.Time `json:"lastStockCheck"`
	Status           string     `gorm:"type:varchar(20);not null" json:"status"`
}
