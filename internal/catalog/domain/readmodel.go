package domain

import (
	"github.com/shopspring/decimal"
)

// PriceRangeOf derives {min,max} over variant prices. ok is false for an
// empty set.
func PriceRangeOf(variants []Variant) (r PriceRange, ok bool) {
	for i, v := range variants {
		if i == 0 {
			r = PriceRange{Min: v.Price, Max: v.Price}
			continue
		}
		if v.Price < r.Min {
			r.Min = v.Price
		}
		if v.Price > r.Max {
			r.Max = v.Price
		}
	}
	return r, len(variants) > 0
}

// Collapsed reports whether the range displays as a single price.
func (r PriceRange) Collapsed() bool {
	return r.Min == r.Max
}

func (r PriceRange) Label() string {
	if r.Collapsed() {
		return FormatEuroCents(r.Min)
	}
	return FormatEuroCents(r.Min) + " - " + FormatEuroCents(r.Max)
}

// FormatEuroCents renders a cent amount as €12.34.
func FormatEuroCents(cents float64) string {
	return "€" + decimal.NewFromFloat(cents).Shift(-2).StringFixed(2)
}

// AllOutOfStock is true when every variant has zero stock.
func AllOutOfStock(variants []Variant) bool {
	for _, v := range variants {
		if v.StockQuantity != 0 {
			return false
		}
	}
	return true
}

type SizeOption struct {
	Size     string  `json:"size"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Disabled bool    `json:"disabled"`
	Selected bool    `json:"selected"`
}

// SizeOptions lists the size selector entries in variant order. A size
// with no stock is disabled.
func SizeOptions(variants []Variant, selected string) []SizeOption {
	opts := make([]SizeOption, 0, len(variants))
	for _, v := range variants {
		opts = append(opts, SizeOption{
			Size:     v.Size,
			SKU:      v.SKU,
			Price:    v.Price,
			Disabled: v.StockQuantity == 0,
			Selected: selected != "" && v.Size == selected,
		})
	}
	return opts
}

// DetailView is the detail query plus the affordances derived from it.
type DetailView struct {
	Detail
	PriceRange    PriceRange   `json:"priceRange"`
	PriceLabel    string       `json:"priceLabel"`
	AllOutOfStock bool         `json:"allOutOfStock"`
	Sizes         []SizeOption `json:"sizes"`
}

func NewDetailView(d Detail, selected string) DetailView {
	r, _ := PriceRangeOf(d.Variants)
	return DetailView{
		Detail:        d,
		PriceRange:    r,
		PriceLabel:    r.Label(),
		AllOutOfStock: AllOutOfStock(d.Variants),
		Sizes:         SizeOptions(d.Variants, selected),
	}
}

// ResolveSelection returns the variant an add-to-cart for size refers to.
func ResolveSelection(d Detail, size string) (Variant, error) {
	if size == "" {
		return Variant{}, ErrSizeRequired
	}
	for _, v := range d.Variants {
		if v.Size == size {
			if v.StockQuantity == 0 {
				return Variant{}, ErrSizeUnavailable
			}
			return v, nil
		}
	}
	return Variant{}, ErrSizeUnavailable
}
