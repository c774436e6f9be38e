package model

// OrderRecord is one purchase event. Rows are append-only.
type OrderRecord struct {
	BaseModel
	UserID       string  `gorm:"type:varchar(64);index;not null" json:"userId" validate:"required"`
	BookStockID  string  `gorm:"type:varchar(36);index;not null" json:"bookStockId" validate:"required"`
	Quantity     int     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	TotalPrice   float64 `gorm:"not null" json:"totalPrice" validate:"gte=0"`
	IncludingVat float64 `gorm:"not null" json:"includingVat" validate:"gte=0"`

	// Caller supplied key used to de-duplicate retried creates
	ExternalID *string `gorm:"type:varchar(64);uniqueIndex" json:"externalId,omitempty"`
}
