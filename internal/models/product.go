package models

import "time"

// Product represents a product in the catalogue.
// Aviability is the availability flag; the JSON name is part of the public API.
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	Price      float64   `json:"price" gorm:"type:double precision;not null"`
	Aviability bool      `json:"aviability" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProductSummary is the list view of a Product, without bookkeeping timestamps.
type ProductSummary struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Aviability bool    `json:"aviability"`
}

// TableName keeps list queries on the products table.
func (ProductSummary) TableName() string {
	return "products"
}
