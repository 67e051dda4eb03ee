package models

import (
	"time"
)

// Product represents an item in the catalog. Price is stored in the
// shop currency; it must be non-negative for order totals to be meaningful.
type Product struct {
	ID          string            `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string            `bson:"name" json:"name"`
	Description string            `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64           `bson:"price" json:"price"`
	Stock       int               `bson:"stock" json:"stock"`
	Category    string            `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL    string            `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Features    []string          `bson:"features,omitempty" json:"features,omitempty"`
	Specs       map[string]string `bson:"specs,omitempty" json:"specs,omitempty"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
}
