package domain

import (
	"context"

	catalogdomain "github.com/smallbiznis/mystore/internal/catalog/domain"
)

// Navigator receives the hand-off when a session leaves the authoring
// view. created is nil for a discarded draft.
type Navigator interface {
	Leave(ctx context.Context, sessionID string, created *catalogdomain.Product)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// CategoryResolver maps a category selector value to its numeric id.
type CategoryResolver interface {
	ResolveCategory(value string) (int64, bool)
}
