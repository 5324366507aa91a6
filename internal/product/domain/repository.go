package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindCategory(ctx context.Context, db *gorm.DB, id int64) (*Category, error)
	ListCategories(ctx context.Context, db *gorm.DB) ([]Category, error)
	UpsertCategory(ctx context.Context, db *gorm.DB, category *Category) error

	Create(ctx context.Context, db *gorm.DB, product *Product, variants []Variant) error
	SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB, categoryID *int64) ([]Product, error)
	FindVariants(ctx context.Context, db *gorm.DB, productIDs []int64) ([]Variant, error)
}
