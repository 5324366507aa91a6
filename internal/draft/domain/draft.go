package domain

// ScalarField names a product level text field.
type ScalarField string

const (
	FieldCategoryID  ScalarField = "categoryId"
	FieldName        ScalarField = "name"
	FieldDescription ScalarField = "description"
	FieldImageAlt    ScalarField = "imageAlt"
)

func ParseScalarField(s string) (ScalarField, bool) {
	switch f := ScalarField(s); f {
	case FieldCategoryID, FieldName, FieldDescription, FieldImageAlt:
		return f, true
	}
	return "", false
}

type ImageSlot int

const (
	SlotPrimary ImageSlot = iota + 1
	SlotSecondary
)

func (s ImageSlot) Valid() bool {
	return s == SlotPrimary || s == SlotSecondary
}

// Path is the payload field the slot's URL is sent as.
func (s ImageSlot) Path() string {
	if s == SlotSecondary {
		return "imageUrl2"
	}
	return "imageUrl1"
}

// ImageRef tracks an attached asset: the local preview handle exists as
// soon as the file is picked, the URL only once the upload finished.
type ImageRef struct {
	PreviewID string `json:"previewId"`
	FileName  string `json:"fileName"`
	URL       string `json:"url,omitempty"`
}

func (r ImageRef) Attached() bool { return r.PreviewID != "" }
func (r ImageRef) Uploaded() bool { return r.URL != "" }

// ProductDraft is the in-progress product record. CategoryID holds the
// selector value (a slug or a numeric id) until assembly.
type ProductDraft struct {
	CategoryID     string
	Name           string
	Description    string
	ImageAlt       string
	Image          ImageRef
	SecondaryImage ImageRef
	Variants       Variants
}

// NewDraft returns an empty draft with one blank variant.
func NewDraft(ids IDGenerator) ProductDraft {
	return ProductDraft{
		Variants: Variants{NewVariant(ids.NextID(), 1)},
	}
}

func (d ProductDraft) WithField(field ScalarField, value string) (ProductDraft, bool) {
	switch field {
	case FieldCategoryID:
		d.CategoryID = value
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldImageAlt:
		d.ImageAlt = value
	default:
		return d, false
	}
	return d, true
}

func (d ProductDraft) ImageAt(slot ImageSlot) ImageRef {
	if slot == SlotSecondary {
		return d.SecondaryImage
	}
	return d.Image
}

func (d ProductDraft) WithImage(slot ImageSlot, ref ImageRef) ProductDraft {
	if slot == SlotSecondary {
		d.SecondaryImage = ref
	} else {
		d.Image = ref
	}
	return d
}
