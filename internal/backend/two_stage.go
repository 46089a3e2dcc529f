package backend

import (
	"context"

	"skustudio/internal/domain"
	"skustudio/internal/infra"
)

const (
	// fiboEndpoint synthesizes a clean background plate from text only.
	fiboEndpoint = "bria/fibo/generate"
	// icLightEndpoint relights the product into a target background.
	icLightEndpoint = "fal-ai/iclight-v2"
)

var (
	fiboAdapter = adapter{
		endpoint: fiboEndpoint,
		rules:    []extractRule{imageListRule, singleImageRule},
	}
	icLightAdapter = adapter{
		endpoint: icLightEndpoint,
		rules:    []extractRule{imageListRule, singleImageRule},
	}
)

// icLightDirections is the lighting subset IC-Light accepts as initial
// latent; Front and Back have no equivalent there.
var icLightDirections = map[domain.LightingDirection]struct{}{
	domain.LightLeft:   {},
	domain.LightRight:  {},
	domain.LightTop:    {},
	domain.LightBottom: {},
	domain.LightNone:   {},
}

// TwoStage generates a scene plate first, then composites the product into
// it. Maximum subject fidelity and scene quality, at roughly double the
// latency of the single-stage topologies. Stage 2 strictly requires stage
// 1's output URL, so the stages cannot overlap.
type TwoStage struct {
	runner        Runner
	minimalStage2 bool
	logger        *infra.Logger
}

// NewTwoStage builds the topology. minimalStage2 selects the generic
// stage-2 prompt over the scene-derived one.
func NewTwoStage(runner Runner, minimalStage2 bool, logger *infra.Logger) *TwoStage {
	return &TwoStage{runner: runner, minimalStage2: minimalStage2, logger: logger}
}

func (s *TwoStage) Name() string { return "two_stage" }

// Generate fulfils the Strategy interface with two sequential backend calls.
func (s *TwoStage) Generate(ctx context.Context, productURL string, schema domain.SceneSchema) (string, error) {
	plateInput := map[string]any{
		"prompt":              buildPlatePrompt(schema),
		"aspect_ratio":        aspectRatioOrDefault(schema),
		"num_inference_steps": 30,
	}
	plateURL, err := fiboAdapter.invoke(ctx, s.runner, plateInput)
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.Debug().Str("endpoint", fiboEndpoint).Msg("scene plate generated")
	}

	compositeInput := map[string]any{
		"image_url":             productURL,
		"background_image_url":  plateURL,
		"prompt":                buildCompositePrompt(schema, s.minimalStage2),
		"initial_latent":        string(narrowDirection(schema.StructuredPrompt.Lighting.Direction, icLightDirections)),
		"guidance_scale":        5.0,
		"num_inference_steps":   28,
		"enable_safety_checker": false,
	}
	finalURL, err := icLightAdapter.invoke(ctx, s.runner, compositeInput)
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.Debug().Str("endpoint", icLightEndpoint).Msg("product composited into scene")
	}
	return finalURL, nil
}

var _ Strategy = (*TwoStage)(nil)
