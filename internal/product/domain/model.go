package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex:ux_categories_slug"`
	Name      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	CategoryID  int64     `gorm:"not null;index:ix_products_category"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex:ux_products_slug"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null"`
	ImageURL1   string    `gorm:"column:image_url_1;type:text;not null"`
	ImageURL2   string    `gorm:"column:image_url_2;type:text"`
	ImageAlt    string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (Product) TableName() string { return "products" }

// Variant prices are euro cents.
type Variant struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	ProductID     int64           `gorm:"not null;index:ix_variants_product"`
	SKU           string          `gorm:"column:sku;type:text;not null;uniqueIndex:ux_variants_sku"`
	Size          string          `gorm:"type:text;not null"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockQuantity int64           `gorm:"not null;default:0"`
	SortOrder     int64           `gorm:"not null"`
}

func (Variant) TableName() string { return "variants" }
