package domain

import "errors"

var (
	// ErrPlanning marks a failed remote planning call. Always recovered by
	// the deterministic fallback planner, never surfaced to callers.
	ErrPlanning = errors.New("planning failed")

	// ErrUpload marks a rejected or unreachable asset upload. Aborts the run.
	ErrUpload = errors.New("asset upload failed")

	// ErrStage marks a backend stage that errored or returned no usable
	// image URL. Aborts the run with no partial result.
	ErrStage = errors.New("stage failed")

	// ErrGenerationFailed is the single opaque failure callers see. Which
	// backend or stage broke is logged for operators, not exposed.
	ErrGenerationFailed = errors.New("generation failed")
)
