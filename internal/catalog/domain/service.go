package domain

import "context"

// Creator persists a new product in one atomic call.
type Creator interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
}

// Reader serves the storefront list and detail queries.
type Reader interface {
	List(ctx context.Context, categoryID *int64) ([]ListItem, error)
	GetByID(ctx context.Context, id string) (*Detail, error)
}

type Service interface {
	Creator
	Reader
}
