package backend

import (
	"context"

	"skustudio/internal/domain"
	"skustudio/internal/infra"
)

// briaEndpoint keeps the uploaded product pixel-perfect and only paints the
// surrounding scene, which suits strict SKU-accuracy requirements.
const briaEndpoint = "fal-ai/bria/2.3"

// briaAdapter answers with a single nested image object first; older
// deployments return a list instead, so both shapes are tried.
var briaAdapter = adapter{
	endpoint: briaEndpoint,
	rules:    []extractRule{singleImageRule, imageListRule},
}

// SubjectLocked is the single-stage topology that holds the subject fixed.
type SubjectLocked struct {
	runner Runner
	logger *infra.Logger
}

func NewSubjectLocked(runner Runner, logger *infra.Logger) *SubjectLocked {
	return &SubjectLocked{runner: runner, logger: logger}
}

func (s *SubjectLocked) Name() string { return "subject_locked" }

// Generate fulfils the Strategy interface with one backend call.
func (s *SubjectLocked) Generate(ctx context.Context, productURL string, schema domain.SceneSchema) (string, error) {
	input := map[string]any{
		"image_url": productURL,
		"prompt":    schema.Prompt,
		"sync_mode": true,
	}
	url, err := briaAdapter.invoke(ctx, s.runner, input)
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.Debug().Str("endpoint", briaEndpoint).Msg("subject-locked stage completed")
	}
	return url, nil
}

var _ Strategy = (*SubjectLocked)(nil)
