package domain

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrDuplicateSKU    = errors.New("duplicate_sku")
	ErrSizeRequired    = errors.New("size_required")
	ErrSizeUnavailable = errors.New("size_unavailable")
)

// FieldErrors maps a field path (name, imageUrl1, variants.1.sku) to a
// user-facing message.
type FieldErrors map[string]string

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Paths returns the error paths in lexical order.
func (f FieldErrors) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Merge copies other into f. Existing entries win.
func (f FieldErrors) Merge(other FieldErrors) {
	for path, msg := range other {
		if _, ok := f[path]; !ok {
			f[path] = msg
		}
	}
}

// ValidationError carries every field failure of one validation pass.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields.Paths(), ", ")
}

// MsgCreateFailed is shown when a create fails without a usable message.
const MsgCreateFailed = "Failed to create product"

// APIError is a non-success answer from the remote catalog API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "catalog api error: status " + strconv.Itoa(e.Status)
	}
	return "catalog api error: " + e.Message
}

// UserMessage picks the single notice shown for a failed create.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return strings.TrimSpace(apiErr.Message)
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) && !vErr.Fields.Empty() {
		return vErr.Fields[vErr.Fields.Paths()[0]]
	}
	switch {
	case errors.Is(err, ErrDuplicateSKU):
		return "A variant with this SKU already exists"
	case errors.Is(err, ErrInvalidCategory):
		return "Category does not exist"
	}
	return MsgCreateFailed
}
