package planner

import (
	"context"

	"skustudio/internal/domain"
)

// Planner converts a free-text creative brief plus a product name into a
// validated scene schema. Implementations must never return a schema with
// enum fields outside the closed sets in the domain package.
type Planner interface {
	Plan(ctx context.Context, brief, productName string) (*domain.SceneSchema, error)
}
