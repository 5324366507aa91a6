package domain

import "time"

// CreateRequest is the normalized product record sent to the create API.
// Prices are euro cents.
type CreateRequest struct {
	CategoryID  int64            `json:"categoryId" validate:"gte=1"`
	Name        string           `json:"name" validate:"min=2,max=100"`
	Description string           `json:"description" validate:"min=1,max=500"`
	ImageAlt    string           `json:"imageAlt" validate:"min=1,max=150"`
	ImageURL1   string           `json:"imageUrl1" validate:"url"`
	ImageURL2   string           `json:"imageUrl2,omitempty" validate:"omitempty,url"`
	Variants    []VariantRequest `json:"variants" validate:"min=1,dive"`
}

// MaxPrice is the exclusive upper bound of a variant price in cents. It
// matches the numeric(12,2) price column.
const MaxPrice = 10_000_000_000

type VariantRequest struct {
	Size          string  `json:"size" validate:"min=1,max=100"`
	SKU           string  `json:"sku" validate:"min=1,max=100"`
	Price         float64 `json:"price" validate:"gt=0,lt=10000000000"`
	StockQuantity int64   `json:"stockQuantity" validate:"gte=0"`
	SortOrder     int64   `json:"sortOrder" validate:"gte=1"`
}

// Product is the record returned by a successful create.
type Product struct {
	ID          string     `json:"id"`
	CategoryID  int64      `json:"categoryId"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL1   string     `json:"imageUrl1"`
	ImageURL2   string     `json:"imageUrl2,omitempty"`
	ImageAlt    string     `json:"imageAlt"`
	Variants    []Variant  `json:"variants"`
	PriceRange  PriceRange `json:"priceRange"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Variant struct {
	SKU           string  `json:"sku"`
	Size          string  `json:"size"`
	StockQuantity int64   `json:"stockQuantity"`
	Price         float64 `json:"price"`
	SortOrder     int64   `json:"sortOrder,omitempty"`
}

// ListItem is one row of the catalog list query.
type ListItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ImageURL1  string     `json:"imageUrl1"`
	ImageAlt   string     `json:"imageAlt"`
	PriceRange PriceRange `json:"priceRange"`
}

// Detail is the catalog detail query result.
type Detail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL1   string    `json:"imageUrl1"`
	ImageURL2   string    `json:"imageUrl2,omitempty"`
	ImageAlt    string    `json:"imageAlt"`
	Variants    []Variant `json:"variants"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
