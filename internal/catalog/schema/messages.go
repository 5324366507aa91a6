package schema

const (
	MsgNameTooShort         = "Name must be at least 2 characters"
	MsgNameTooLong          = "Name must be under 100 characters"
	MsgDescriptionRequired  = "Description is required"
	MsgDescriptionTooLong   = "Description must be under 500 characters"
	MsgImageAltRequired     = "Image alt is required"
	MsgImageAltTooLong      = "Image alternative text must be under 150 characters"
	MsgImageRequired        = "Image is required"
	MsgImageUploadPending   = "Image upload has not completed"
	MsgImageURLInvalid      = "Image URL must be a valid URL"
	MsgCategoryRequired     = "Category name is required"
	MsgVariantsRequired     = "At least one variant is required"
	MsgSizeRequired         = "Size is required"
	MsgSizeTooLong          = "Size must be under 100 characters"
	MsgSKURequired          = "SKU is required"
	MsgSKUTooLong           = "SKU must be under 100 characters"
	MsgSKUDuplicate         = "SKU must be unique"
	MsgPriceRequired        = "Price is required"
	MsgPriceNotNumber       = "Price must be a number"
	MsgPriceNotPositive     = "Price must be a positive number"
	MsgPriceTooLarge        = "Price is too large"
	MsgStockNegative        = "Stock quantity must be >=0"
	MsgStockNotInteger      = "Stock quantity must be a whole number"
	MsgStockTooLarge        = "Stock quantity is too large"
	MsgSortOrderNotPositive = "Sort order must be >0"
	MsgSortOrderNotInteger  = "Sort order must be a whole number"
	MsgSortOrderTooLarge    = "Sort order is too large"
	MsgInvalidValue         = "Invalid value"
)

// messages is keyed by field name then validator tag.
var messages = map[string]map[string]string{
	"name": {
		"min": MsgNameTooShort,
		"max": MsgNameTooLong,
	},
	"description": {
		"min": MsgDescriptionRequired,
		"max": MsgDescriptionTooLong,
	},
	"imageAlt": {
		"min": MsgImageAltRequired,
		"max": MsgImageAltTooLong,
	},
	"imageUrl1":  {"url": MsgImageURLInvalid},
	"imageUrl2":  {"url": MsgImageURLInvalid},
	"categoryId": {"gte": MsgCategoryRequired},
	"variants":   {"min": MsgVariantsRequired},
	"size": {
		"min": MsgSizeRequired,
		"max": MsgSizeTooLong,
	},
	"sku": {
		"min": MsgSKURequired,
		"max": MsgSKUTooLong,
	},
	"price": {
		"gt": MsgPriceNotPositive,
		"lt": MsgPriceTooLarge,
	},
	"stockQuantity": {"gte": MsgStockNegative},
	"sortOrder":     {"gte": MsgSortOrderNotPositive},
}

func message(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return MsgInvalidValue
}
