package service

import (
	"errors"

	"github.com/shopspring/decimal"
	catalog "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/draft/domain"
)

var maxPrice = decimal.NewFromInt(catalog.MaxPrice)

// precondition reports the image slots that cannot be sent yet. It never
// looks at the other fields.
func precondition(d domain.ProductDraft) catalog.FieldErrors {
	out := catalog.FieldErrors{}
	switch {
	case !d.Image.Attached():
		out[domain.SlotPrimary.Path()] = schema.MsgImageRequired
	case !d.Image.Uploaded():
		out[domain.SlotPrimary.Path()] = schema.MsgImageUploadPending
	}
	if d.SecondaryImage.Attached() && !d.SecondaryImage.Uploaded() {
		out[domain.SlotSecondary.Path()] = schema.MsgImageUploadPending
	}
	return out
}

// assemble coerces the draft into a create request. Text that cannot be
// coerced is reported by path and sent to the schema as a zero value.
func assemble(d domain.ProductDraft, categories domain.CategoryResolver) (catalog.CreateRequest, catalog.FieldErrors) {
	fields := catalog.FieldErrors{}

	var categoryID int64
	if categories != nil {
		if id, ok := categories.ResolveCategory(d.CategoryID); ok {
			categoryID = id
		}
	}

	req := catalog.CreateRequest{
		CategoryID:  categoryID,
		Name:        d.Name,
		Description: d.Description,
		ImageAlt:    d.ImageAlt,
		ImageURL1:   d.Image.URL,
		ImageURL2:   d.SecondaryImage.URL,
		Variants:    make([]catalog.VariantRequest, 0, len(d.Variants)),
	}

	for i, v := range d.Variants {
		row := catalog.VariantRequest{Size: v.Size, SKU: v.SKU}

		price, err := domain.Resolve(v.Price)
		switch {
		case errors.Is(err, domain.ErrEmptyNumber):
			fields[schema.VariantPath(i, string(domain.FieldPrice))] = schema.MsgPriceRequired
		case err != nil:
			fields[schema.VariantPath(i, string(domain.FieldPrice))] = schema.MsgPriceNotNumber
		case price.GreaterThanOrEqual(maxPrice):
			fields[schema.VariantPath(i, string(domain.FieldPrice))] = schema.MsgPriceTooLarge
		default:
			row.Price = price.InexactFloat64()
		}

		// An untouched stock field counts as zero.
		stock, err := domain.ResolveInt(v.StockQuantity)
		if msg := intMessage(err, schema.MsgStockNotInteger, schema.MsgStockTooLarge); msg != "" {
			fields[schema.VariantPath(i, string(domain.FieldStockQuantity))] = msg
		}
		row.StockQuantity = stock

		sortOrder, err := domain.ResolveInt(v.SortOrder)
		if msg := intMessage(err, schema.MsgSortOrderNotInteger, schema.MsgSortOrderTooLarge); msg != "" {
			fields[schema.VariantPath(i, string(domain.FieldSortOrder))] = msg
		}
		row.SortOrder = sortOrder

		req.Variants = append(req.Variants, row)
	}

	return req, fields
}

// intMessage picks the field message for a whole number that failed to
// coerce. An empty field is not an error.
func intMessage(err error, notInteger, tooLarge string) string {
	switch {
	case err == nil, errors.Is(err, domain.ErrEmptyNumber):
		return ""
	case errors.Is(err, domain.ErrOutOfRange):
		return tooLarge
	}
	return notInteger
}
