package orchestrator

import (
	"context"
	"time"

	"skustudio/internal/assets"
	"skustudio/internal/backend"
	"skustudio/internal/domain"
	"skustudio/internal/infra"
)

// PlaceholderImageURL is the canned result served when no image-backend
// credentials are configured. Fixed on purpose: repeated mock runs must
// return identical results.
const PlaceholderImageURL = "https://fal.media/files/monkey/A_futuristic_coke_bottle_on_mars.png"

// Orchestrator sequences one generation run: upload the product image, then
// drive the configured strategy. Stages run strictly sequentially; each
// request owns its own schema and asset, so concurrent runs share nothing.
type Orchestrator struct {
	gateway      assets.Gateway
	strategy     backend.Strategy
	mock         bool
	mockDelay    time.Duration
	stageTimeout time.Duration
	logger       *infra.Logger
}

// Options wires an orchestrator. Mock skips the backend stages and returns
// the placeholder result after MockDelay, letting callers exercise the full
// surface without live credentials; the asset still goes through the gateway
// so offline runs round-trip real bytes.
type Options struct {
	Gateway      assets.Gateway
	Strategy     backend.Strategy
	Mock         bool
	MockDelay    time.Duration
	StageTimeout time.Duration
	Logger       *infra.Logger
}

func New(opts Options) *Orchestrator {
	stageTimeout := opts.StageTimeout
	if stageTimeout <= 0 {
		stageTimeout = 90 * time.Second
	}
	return &Orchestrator{
		gateway:      opts.Gateway,
		strategy:     opts.Strategy,
		mock:         opts.Mock,
		mockDelay:    opts.MockDelay,
		stageTimeout: stageTimeout,
		logger:       opts.Logger,
	}
}

// Run executes one generation request. On any stage failure the whole run is
// aborted, no partial result is returned, and the caller sees only the
// generic failure; the failing stage is logged for operators.
func (o *Orchestrator) Run(ctx context.Context, asset domain.ProductAsset, schema domain.SceneSchema) (domain.GenerationResult, error) {
	if o.mock {
		return o.mockRun(ctx, asset)
	}

	productURL, err := o.upload(ctx, asset)
	if err != nil {
		o.logFailure("upload", err)
		return failed(), domain.ErrGenerationFailed
	}

	imageURL, err := o.generate(ctx, productURL, schema)
	if err != nil {
		o.logFailure(o.strategy.Name(), err)
		return failed(), domain.ErrGenerationFailed
	}

	if o.logger != nil {
		o.logger.Info().
			Str("topology", o.strategy.Name()).
			Str("image_url", imageURL).
			Msg("generation completed")
	}
	return domain.GenerationResult{ImageURL: imageURL, Status: domain.StatusCompleted}, nil
}

func (o *Orchestrator) upload(ctx context.Context, asset domain.ProductAsset) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	return o.gateway.Upload(uploadCtx, asset.Data, asset.MIMEType)
}

func (o *Orchestrator) generate(ctx context.Context, productURL string, schema domain.SceneSchema) (string, error) {
	// The two-stage strategy issues two sequential calls, so its budget is
	// doubled rather than split.
	timeout := o.stageTimeout
	if o.strategy.Name() == "two_stage" {
		timeout = 2 * o.stageTimeout
	}
	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return o.strategy.Generate(genCtx, productURL, schema)
}

// mockRun stores the asset through the gateway, then returns the fixed
// placeholder. A store failure is logged but does not fail the run; the
// result is the same placeholder either way.
func (o *Orchestrator) mockRun(ctx context.Context, asset domain.ProductAsset) (domain.GenerationResult, error) {
	select {
	case <-time.After(o.mockDelay):
	case <-ctx.Done():
		return failed(), ctx.Err()
	}
	if o.gateway != nil {
		storedURL, err := o.upload(ctx, asset)
		if err != nil {
			if o.logger != nil {
				o.logger.Warn().Err(err).Msg("simulated run could not store asset")
			}
		} else if o.logger != nil {
			o.logger.Debug().Str("asset_url", storedURL).Msg("simulated run stored asset")
		}
	}
	if o.logger != nil {
		o.logger.Info().Msg("no backend credentials, returning simulated generation")
	}
	return domain.GenerationResult{ImageURL: PlaceholderImageURL, Status: domain.StatusCompleted}, nil
}

func (o *Orchestrator) logFailure(stage string, err error) {
	if o.logger == nil {
		return
	}
	o.logger.Error().Err(err).Str("stage", stage).Msg("generation run aborted")
}

func failed() domain.GenerationResult {
	return domain.GenerationResult{Status: domain.StatusFailed}
}
