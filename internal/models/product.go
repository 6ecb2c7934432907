package models

import (
	"encoding/json"
	"time"
)

// Stock statuses a product can be in.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// ValidStatus reports whether s is a known stock status.
func ValidStatus(s string) bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// Product represents a catalog entry. Price is kept as a decimal string and
// only formatted at presentation time. The images slice is ordered: the first
// entry is the cover image.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// JSON string field for DB storage
	ImagesJSON string `json:"-"`

	// Slice field for API interaction
	Images []string `json:"images"`
}

// PrepareForSave marshals the images slice into its JSON string for DB storage.
func (p *Product) PrepareForSave() {
	if p.Images == nil {
		p.Images = []string{}
	}
	imagesBytes, _ := json.Marshal(p.Images)
	p.ImagesJSON = string(imagesBytes)
}

// PrepareForAPI unmarshals the JSON string field into the images slice for API
// responses. A product without images serializes as an empty array, not null.
func (p *Product) PrepareForAPI() {
	if p.ImagesJSON != "" {
		json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

// ProductStats holds the aggregate stock counts shown on the admin dashboard.
type ProductStats struct {
	TotalProducts int `json:"totalProducts"`
	InStock       int `json:"inStock"`
	LowStock      int `json:"lowStock"`
	OutOfStock    int `json:"outOfStock"`
}
