package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	catalog "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/product/domain"
	"github.com/smallbiznis/mystore/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slugConstraint = "ux_products_slug"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

// Service is the persisted catalog: it serves the create, list and detail
// queries the admin and storefront issue.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

var _ catalog.Service = (*Service)(nil)

// Create validates the request with the shared schema and stores the
// product with all of its variants, or nothing.
func (s *Service) Create(ctx context.Context, req catalog.CreateRequest) (*catalog.Product, error) {
	fields := schema.Validate(req)
	fields.Merge(duplicateSKUs(req.Variants))
	if !fields.Empty() {
		return nil, &catalog.ValidationError{Fields: fields}
	}

	category, err := s.repo.FindCategory(ctx, s.db, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, catalog.ErrInvalidCategory
	}

	id := s.genID.Generate()
	productSlug, err := s.uniqueSlug(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	p := &domain.Product{
		ID:          id.Int64(),
		CategoryID:  category.ID,
		Slug:        productSlug,
		Name:        req.Name,
		Description: req.Description,
		ImageURL1:   req.ImageURL1,
		ImageURL2:   req.ImageURL2,
		ImageAlt:    req.ImageAlt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	variants := make([]domain.Variant, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, domain.Variant{
			ID:            s.genID.Generate().Int64(),
			ProductID:     p.ID,
			SKU:           v.SKU,
			Size:          v.Size,
			Price:         decimal.NewFromFloat(v.Price).Round(2),
			StockQuantity: v.StockQuantity,
			SortOrder:     v.SortOrder,
		})
	}

	if err := s.repo.Create(ctx, s.db, p, variants); err != nil {
		if db.IsDuplicateKeyErr(err) && db.DuplicateConstraint(err) != slugConstraint {
			return nil, catalog.ErrDuplicateSKU
		}
		s.log.Error("create product", zap.Error(err))
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", id.String()),
		zap.Int64("category_id", category.ID),
		zap.Int("variants", len(variants)),
	)
	return toProduct(p, variants), nil
}

func (s *Service) List(ctx context.Context, categoryID *int64) ([]catalog.ListItem, error) {
	items, err := s.repo.FindAll(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	variants, err := s.repo.FindVariants(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byProduct := map[int64][]catalog.Variant{}
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], toVariant(v))
	}

	resp := make([]catalog.ListItem, 0, len(items))
	for _, item := range items {
		priceRange, _ := catalog.PriceRangeOf(byProduct[item.ID])
		resp = append(resp, catalog.ListItem{
			ID:         snowflake.ID(item.ID).String(),
			Name:       item.Name,
			ImageURL1:  item.ImageURL1,
			ImageAlt:   item.ImageAlt,
			PriceRange: priceRange,
		})
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*catalog.Detail, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, catalog.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, catalog.ErrNotFound
	}

	variants, err := s.repo.FindVariants(ctx, s.db, []int64{item.ID})
	if err != nil {
		return nil, err
	}
	resp := &catalog.Detail{
		ID:          productID.String(),
		Name:        item.Name,
		Description: item.Description,
		ImageURL1:   item.ImageURL1,
		ImageURL2:   item.ImageURL2,
		ImageAlt:    item.ImageAlt,
		Variants:    make([]catalog.Variant, 0, len(variants)),
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, toVariant(v))
	}
	return resp, nil
}

func (s *Service) Categories(ctx context.Context) ([]config.Category, error) {
	items, err := s.repo.ListCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]config.Category, 0, len(items))
	for _, c := range items {
		resp = append(resp, config.Category{ID: c.ID, Slug: c.Slug, Name: c.Name})
	}
	return resp, nil
}

// SeedCategories makes the configured categories exist in storage.
func (s *Service) SeedCategories(ctx context.Context, categories []config.Category) error {
	now := s.clock.Now().UTC()
	for _, c := range categories {
		if err := s.repo.UpsertCategory(ctx, s.db, &domain.Category{
			ID:        c.ID,
			Slug:      c.Slug,
			Name:      c.Name,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) uniqueSlug(ctx context.Context, name string, id snowflake.ID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "product"
	}
	exists, err := s.repo.SlugExists(ctx, s.db, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return base + "-" + id.Base36(), nil
}

// duplicateSKUs flags every variant that repeats an earlier SKU.
func duplicateSKUs(variants []catalog.VariantRequest) catalog.FieldErrors {
	out := catalog.FieldErrors{}
	seen := map[string]bool{}
	for i, v := range variants {
		if v.SKU == "" {
			continue
		}
		if seen[v.SKU] {
			out[schema.VariantPath(i, "sku")] = schema.MsgSKUDuplicate
		}
		seen[v.SKU] = true
	}
	return out
}

func toVariant(v domain.Variant) catalog.Variant {
	return catalog.Variant{
		SKU:           v.SKU,
		Size:          v.Size,
		StockQuantity: v.StockQuantity,
		Price:         v.Price.InexactFloat64(),
		SortOrder:     v.SortOrder,
	}
}

func toProduct(p *domain.Product, variants []domain.Variant) *catalog.Product {
	out := &catalog.Product{
		ID:          snowflake.ID(p.ID).String(),
		CategoryID:  p.CategoryID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		ImageURL1:   p.ImageURL1,
		ImageURL2:   p.ImageURL2,
		ImageAlt:    p.ImageAlt,
		Variants:    make([]catalog.Variant, 0, len(variants)),
		CreatedAt:   p.CreatedAt,
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, toVariant(v))
	}
	out.PriceRange, _ = catalog.PriceRangeOf(out.Variants)
	return out
}
