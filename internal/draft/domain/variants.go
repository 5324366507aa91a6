package domain

// VariantField names an editable column of a variant row.
type VariantField string

const (
	FieldSize          VariantField = "size"
	FieldSKU           VariantField = "sku"
	FieldPrice         VariantField = "price"
	FieldStockQuantity VariantField = "stockQuantity"
	FieldSortOrder     VariantField = "sortOrder"
)

func ParseVariantField(s string) (VariantField, bool) {
	switch f := VariantField(s); f {
	case FieldSize, FieldSKU, FieldPrice, FieldStockQuantity, FieldSortOrder:
		return f, true
	}
	return "", false
}

// VariantDraft is one row of the variant editor. Rows are treated as
// immutable once placed in a collection.
type VariantDraft struct {
	LocalID       LocalID
	Size          string
	SKU           string
	Price         NumericText
	StockQuantity NumericText
	SortOrder     NumericText
}

func NewVariant(id LocalID, sortOrder int) *VariantDraft {
	return &VariantDraft{
		LocalID:       id,
		Price:         RawText(""),
		StockQuantity: RawText(""),
		SortOrder:     ParsedInt(int64(sortOrder)),
	}
}

func (v VariantDraft) with(field VariantField, value string) (*VariantDraft, bool) {
	switch field {
	case FieldSize:
		v.Size = value
	case FieldSKU:
		v.SKU = value
	case FieldPrice:
		v.Price = RawText(value)
	case FieldStockQuantity:
		v.StockQuantity = RawText(value)
	case FieldSortOrder:
		v.SortOrder = RawText(value)
	default:
		return nil, false
	}
	return &v, true
}

// Variants is an ordered collection of rows. Every operation returns a new
// slice and leaves the receiver untouched; unchanged rows are shared.
type Variants []*VariantDraft

// Add appends a blank row whose sort order is the new length.
func (vs Variants) Add(id LocalID) Variants {
	next := make(Variants, len(vs), len(vs)+1)
	copy(next, vs)
	return append(next, NewVariant(id, len(vs)+1))
}

// Update replaces one field of the row id. Unknown ids and fields leave
// the collection as is.
func (vs Variants) Update(id LocalID, field VariantField, value string) Variants {
	i := vs.IndexOf(id)
	if i < 0 {
		return vs
	}
	row, ok := vs[i].with(field, value)
	if !ok {
		return vs
	}
	next := make(Variants, len(vs))
	copy(next, vs)
	next[i] = row
	return next
}

// Remove drops the row id unless it is the last one left.
func (vs Variants) Remove(id LocalID) Variants {
	if len(vs) <= 1 {
		return vs
	}
	i := vs.IndexOf(id)
	if i < 0 {
		return vs
	}
	next := make(Variants, 0, len(vs)-1)
	next = append(next, vs[:i]...)
	return append(next, vs[i+1:]...)
}

func (vs Variants) IndexOf(id LocalID) int {
	for i, v := range vs {
		if v.LocalID == id {
			return i
		}
	}
	return -1
}

func (vs Variants) Find(id LocalID) (*VariantDraft, bool) {
	if i := vs.IndexOf(id); i >= 0 {
		return vs[i], true
	}
	return nil, false
}

// IDs returns the row identities in collection order.
func (vs Variants) IDs() []LocalID {
	ids := make([]LocalID, len(vs))
	for i, v := range vs {
		ids[i] = v.LocalID
	}
	return ids
}
