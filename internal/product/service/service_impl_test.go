package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalog "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/product/domain"
	"github.com/smallbiznis/mystore/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Category{}, &domain.Product{}, &domain.Variant{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, svc.SeedCategories(context.Background(), config.DefaultCategories()))
	return svc
}

func validRequest() catalog.CreateRequest {
	return catalog.CreateRequest{
		CategoryID:  1,
		Name:        "Linen Shirt",
		Description: "Breathable summer shirt",
		ImageAlt:    "A white linen shirt",
		ImageURL1:   "https://cdn.example.com/shirt.jpg",
		Variants: []catalog.VariantRequest{
			{Size: "S", SKU: "LS-S", Price: 2999, StockQuantity: 4, SortOrder: 2},
			{Size: "M", SKU: "LS-M", Price: 3499, StockQuantity: 0, SortOrder: 1},
		},
	}
}

func TestCreateStoresProductAndVariants(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "linen-shirt", created.Slug)
	assert.Equal(t, catalog.PriceRange{Min: 2999, Max: 3499}, created.PriceRange)
	assert.Len(t, created.Variants, 2)

	detail, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", detail.Name)
	require.Len(t, detail.Variants, 2)
	assert.Equal(t, "LS-M", detail.Variants[0].SKU)
	assert.Equal(t, float64(3499), detail.Variants[0].Price)
	assert.Equal(t, "LS-S", detail.Variants[1].SKU)

	items, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, catalog.PriceRange{Min: 2999, Max: 3499}, items[0].PriceRange)
}

func TestCreateReportsEveryFieldFailure(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.Name = "X"
	req.Variants[0].SKU = ""
	req.Variants[1].Price = 0

	_, err := svc.Create(context.Background(), req)
	var vErr *catalog.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, catalog.FieldErrors{
		"name":             schema.MsgNameTooShort,
		"variants.0.sku":   schema.MsgSKURequired,
		"variants.1.price": schema.MsgPriceNotPositive,
	}, vErr.Fields)
}

func TestCreateRejectsRepeatedSKUInRequest(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.Variants[1].SKU = req.Variants[0].SKU

	_, err := svc.Create(context.Background(), req)
	var vErr *catalog.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, catalog.FieldErrors{"variants.1.sku": schema.MsgSKUDuplicate}, vErr.Fields)
}

func TestCreateUnknownCategory(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.CategoryID = 99

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, catalog.ErrInvalidCategory)
}

func TestCreateIsAtomicOnDuplicateSKU(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Linen Shirt Two"
	req.Variants[0].SKU = "NEW-1"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, catalog.ErrDuplicateSKU)

	items, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCreateSuffixesTakenSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	for i := range req.Variants {
		req.Variants[i].SKU += "-2"
	}
	second, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Slug, "linen-shirt-"))
}

func TestListFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.CategoryID = 2
	req.Name = "Canvas Tote"
	req.Variants = []catalog.VariantRequest{{Size: "One size", SKU: "TOTE", Price: 1500, StockQuantity: 1, SortOrder: 1}}
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)

	accessories := int64(2)
	items, err := svc.List(ctx, &accessories)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Canvas Tote", items[0].Name)
	assert.True(t, items[0].PriceRange.Collapsed())

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, catalog.ErrInvalidID)

	_, err = svc.GetByID(context.Background(), "12345")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCategoriesAreSeeded(t *testing.T) {
	svc := newTestService(t)

	items, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCategories(), items)
}
