package backend

import (
	"context"

	"skustudio/internal/domain"
	"skustudio/internal/infra"
)

const fluxEndpoint = "fal-ai/flux/dev/image-to-image"

var fluxAdapter = adapter{
	endpoint: fluxEndpoint,
	rules:    []extractRule{imageListRule, singleImageRule},
}

// ImageToImage is the single-stage topology that uses the product image as a
// weighted starting point. Strength controls how much the output may deviate
// from the input: 0 leaves it unchanged, 1 regenerates fully. Values much
// above 0.85 start rewriting product shape and branding.
type ImageToImage struct {
	runner   Runner
	strength float64
	logger   *infra.Logger
}

func NewImageToImage(runner Runner, strength float64, logger *infra.Logger) *ImageToImage {
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	return &ImageToImage{runner: runner, strength: strength, logger: logger}
}

func (s *ImageToImage) Name() string { return "image_to_image" }

// Generate fulfils the Strategy interface with one backend call.
func (s *ImageToImage) Generate(ctx context.Context, productURL string, schema domain.SceneSchema) (string, error) {
	input := map[string]any{
		"prompt":              schema.Prompt,
		"image_url":           productURL,
		"strength":            s.strength,
		"guidance_scale":      3.5,
		"num_inference_steps": 28,
	}
	url, err := fluxAdapter.invoke(ctx, s.runner, input)
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.Debug().
			Str("endpoint", fluxEndpoint).
			Float64("strength", s.strength).
			Msg("image-to-image stage completed")
	}
	return url, nil
}

var _ Strategy = (*ImageToImage)(nil)
