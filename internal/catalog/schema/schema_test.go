package schema

import (
	"math"
	"strings"
	"testing"

	"github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() domain.CreateRequest {
	return domain.CreateRequest{
		CategoryID:  1,
		Name:        "Linen shirt",
		Description: "Breathable summer shirt",
		ImageAlt:    "A white linen shirt",
		ImageURL1:   "https://cdn.example.com/shirt.jpg",
		Variants: []domain.VariantRequest{
			{Size: "S", SKU: "SHIRT-S", Price: 2000, StockQuantity: 3, SortOrder: 1},
			{Size: "M", SKU: "SHIRT-M", Price: 3500, StockQuantity: 0, SortOrder: 2},
		},
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	assert.Empty(t, Validate(validRequest()))
}

func TestValidateReportsEveryFailure(t *testing.T) {
	req := validRequest()
	req.Name = ""
	req.Description = strings.Repeat("d", 501)
	req.ImageAlt = ""
	req.ImageURL2 = "not a url"
	req.CategoryID = 0
	req.Variants[0].Price = -5
	req.Variants[1].SKU = ""
	req.Variants[1].SortOrder = 0
	req.Variants[1].StockQuantity = -1

	errs := Validate(req)

	assert.Equal(t, domain.FieldErrors{
		"name":                     MsgNameTooShort,
		"description":              MsgDescriptionTooLong,
		"imageAlt":                 MsgImageAltRequired,
		"imageUrl2":                MsgImageURLInvalid,
		"categoryId":               MsgCategoryRequired,
		"variants.0.price":         MsgPriceNotPositive,
		"variants.1.sku":           MsgSKURequired,
		"variants.1.sortOrder":     MsgSortOrderNotPositive,
		"variants.1.stockQuantity": MsgStockNegative,
	}, errs)
}

func TestValidateBoundsPrice(t *testing.T) {
	cases := []struct {
		name  string
		price float64
		want  string
	}{
		{name: "largest", price: domain.MaxPrice - 1},
		{name: "ceiling", price: domain.MaxPrice, want: MsgPriceTooLarge},
		{name: "infinite", price: math.Inf(1), want: MsgPriceTooLarge},
		{name: "not a number", price: math.NaN(), want: MsgPriceNotPositive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.Variants[0].Price = tc.price
			assert.Equal(t, tc.want, Validate(req)["variants.0.price"])
		})
	}
}

func TestValidateKeysVariantsByPosition(t *testing.T) {
	req := validRequest()
	req.Variants = append(req.Variants, domain.VariantRequest{Size: "L", SKU: "SHIRT-L", Price: 1, SortOrder: 9})
	req.Variants[1].SKU = ""

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, MsgSKURequired, errs["variants.1.sku"])
}

func TestValidateLengthBoundaries(t *testing.T) {
	req := validRequest()
	req.Name = "ab"
	req.Description = strings.Repeat("d", 500)
	req.ImageAlt = strings.Repeat("a", 150)
	req.Variants[0].Size = strings.Repeat("s", 100)
	req.Variants[0].SKU = strings.Repeat("k", 100)
	assert.Empty(t, Validate(req))

	req.Name = strings.Repeat("n", 101)
	req.ImageAlt = strings.Repeat("a", 151)
	req.Variants[0].Size = strings.Repeat("s", 101)
	req.Variants[0].SKU = strings.Repeat("k", 101)
	errs := Validate(req)
	assert.Equal(t, MsgNameTooLong, errs["name"])
	assert.Equal(t, MsgImageAltTooLong, errs["imageAlt"])
	assert.Equal(t, MsgSizeTooLong, errs["variants.0.size"])
	assert.Equal(t, MsgSKUTooLong, errs["variants.0.sku"])
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	req := validRequest()
	req.Name = "éé"
	assert.Empty(t, Validate(req))
}

func TestValidateImageURLs(t *testing.T) {
	req := validRequest()
	req.ImageURL1 = "/uploads/shirt.jpg"
	req.ImageURL2 = ""
	errs := Validate(req)
	assert.Equal(t, domain.FieldErrors{"imageUrl1": MsgImageURLInvalid}, errs)
}

func TestValidateRequiresVariants(t *testing.T) {
	req := validRequest()
	req.Variants = nil
	assert.Equal(t, MsgVariantsRequired, Validate(req)["variants"])
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "variants.1.sku", Path("CreateRequest.variants[1].sku"))
	assert.Equal(t, "name", Path("CreateRequest.name"))
	assert.Equal(t, "variants.12.price", VariantPath(12, "price"))

	idx, field, ok := ParseVariantPath("variants.3.stockQuantity")
	require.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "stockQuantity", field)

	_, _, ok = ParseVariantPath("name")
	assert.False(t, ok)
	_, _, ok = ParseVariantPath("variants.x.sku")
	assert.False(t, ok)
}
