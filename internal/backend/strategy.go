package backend

import (
	"context"
	"encoding/json"

	"skustudio/internal/domain"
)

// Runner executes one blocking remote backend call and returns the raw
// response body. Implemented by the fal client; faked in tests.
type Runner interface {
	Run(ctx context.Context, endpoint string, input map[string]any) (json.RawMessage, error)
}

// Strategy drives one generation topology end to end and returns the final
// image URL. A failed stage aborts the whole run; strategies never switch
// topology mid-run.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, productURL string, schema domain.SceneSchema) (string, error)
}
