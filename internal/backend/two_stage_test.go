package backend

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"skustudio/internal/domain"
)

func testSchema() domain.SceneSchema {
	schema := domain.SceneSchema{
		Prompt: "Summer picnic on a wooden table",
		StructuredPrompt: domain.StructuredPrompt{
			ShortDescription:  "Rustic picnic",
			BackgroundSetting: "Rustic picnic table in a sunlit meadow",
			Lighting: domain.Lighting{
				Direction:  domain.LightBack,
				Conditions: domain.ConditionSunlight,
				Shadows:    "Long",
			},
			Aesthetics: domain.Aesthetics{MoodAtmosphere: "Bright, Energetic"},
			Photographic: domain.Photographic{
				CameraAngle:  domain.AngleEyeLevel,
				DepthOfField: domain.DepthShallow,
			},
			Objects: []domain.SceneObject{{Name: "Wicker Basket", Location: domain.LocationLeft}},
		},
		AspectRatio: "4:5",
	}
	return schema
}

func TestTwoStageThreadsPlateURLIntoStageTwo(t *testing.T) {
	const sentinel = "https://cdn.example.com/plate-sentinel.png"
	runner := &fakeRunner{
		responses: []json.RawMessage{
			json.RawMessage(`{"images":[{"url":"` + sentinel + `"}]}`),
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/final.png"}]}`),
		},
	}

	s := NewTwoStage(runner, false, nil)
	url, err := s.Generate(context.Background(), "https://fal.media/sku.png", testSchema())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if url != "https://cdn.example.com/final.png" {
		t.Fatalf("url = %q, want stage-2 result", url)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(runner.calls))
	}
	if runner.calls[0].endpoint != fiboEndpoint {
		t.Fatalf("stage 1 endpoint = %q, want %q", runner.calls[0].endpoint, fiboEndpoint)
	}
	if runner.calls[1].endpoint != icLightEndpoint {
		t.Fatalf("stage 2 endpoint = %q, want %q", runner.calls[1].endpoint, icLightEndpoint)
	}
	if got := runner.calls[1].input["background_image_url"]; got != sentinel {
		t.Fatalf("background_image_url = %v, want the stage-1 sentinel", got)
	}
	if got := runner.calls[1].input["image_url"]; got != "https://fal.media/sku.png" {
		t.Fatalf("image_url = %v, want the uploaded product URL", got)
	}
}

func TestTwoStageNarrowsLightingDirection(t *testing.T) {
	runner := &fakeRunner{
		responses: []json.RawMessage{
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/plate.png"}]}`),
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/final.png"}]}`),
		},
	}

	s := NewTwoStage(runner, false, nil)
	schema := testSchema() // direction Back, outside IC-Light's accepted set
	if _, err := s.Generate(context.Background(), "https://fal.media/sku.png", schema); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got := runner.calls[1].input["initial_latent"]; got != "None" {
		t.Fatalf("initial_latent = %v, want %q", got, "None")
	}
}

func TestTwoStageStageOneFailureStopsRun(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("backend unavailable")}}

	s := NewTwoStage(runner, false, nil)
	_, err := s.Generate(context.Background(), "https://fal.media/sku.png", testSchema())
	if err == nil {
		t.Fatal("expected error from stage 1 failure")
	}
	if !errors.Is(err, domain.ErrStage) {
		t.Fatalf("err = %v, want ErrStage", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("calls = %d, want 1 (no stage 2 after failure)", len(runner.calls))
	}
}

func TestTwoStagePlatePromptAsksForNegativeSpace(t *testing.T) {
	runner := &fakeRunner{
		responses: []json.RawMessage{
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/plate.png"}]}`),
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/final.png"}]}`),
		},
	}

	s := NewTwoStage(runner, false, nil)
	if _, err := s.Generate(context.Background(), "https://fal.media/sku.png", testSchema()); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	prompt, _ := runner.calls[0].input["prompt"].(string)
	if !strings.Contains(prompt, "Rustic picnic table in a sunlit meadow") {
		t.Fatalf("plate prompt = %q, want background setting", prompt)
	}
	if !strings.Contains(prompt, "Wicker Basket (Left)") {
		t.Fatalf("plate prompt = %q, want object placement", prompt)
	}
	if !strings.Contains(prompt, "negative space in center for product") {
		t.Fatalf("plate prompt = %q, want negative-space framing", prompt)
	}
}

func TestTwoStageStageTwoPromptModes(t *testing.T) {
	responses := func() []json.RawMessage {
		return []json.RawMessage{
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/plate.png"}]}`),
			json.RawMessage(`{"images":[{"url":"https://cdn.example.com/final.png"}]}`),
		}
	}

	sceneRunner := &fakeRunner{responses: responses()}
	if _, err := NewTwoStage(sceneRunner, false, nil).Generate(context.Background(), "u", testSchema()); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	scenePrompt, _ := sceneRunner.calls[1].input["prompt"].(string)
	if !strings.Contains(scenePrompt, "Sunlight lighting") {
		t.Fatalf("scene-mode stage-2 prompt = %q, want lighting conditions", scenePrompt)
	}

	minimalRunner := &fakeRunner{responses: responses()}
	if _, err := NewTwoStage(minimalRunner, true, nil).Generate(context.Background(), "u", testSchema()); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	minimalPrompt, _ := minimalRunner.calls[1].input["prompt"].(string)
	if minimalPrompt != "Product shot, realistic lighting, 8k" {
		t.Fatalf("minimal-mode stage-2 prompt = %q, want generic product shot", minimalPrompt)
	}
}
