package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"skustudio/internal/domain"
)

const testImageB64 = "iVBORw0KGgo="

func generateBody(image string) string {
	return fmt.Sprintf(`{"image":%q,"mime_type":"image/png","schema":{"prompt":"lemonade on a picnic table"}}`, image)
}

func TestGenerateReturnsCompletedResult(t *testing.T) {
	gen := &fakeGenerator{result: domain.GenerationResult{
		ImageURL: "https://fal.media/final.png",
		Status:   domain.StatusCompleted,
	}}
	app := newTestApp(gen)

	rec := postJSON(t, app.Generate, generateBody(testImageB64))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
	}
	var result domain.GenerationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result != gen.result {
		t.Fatalf("result = %#v, want %#v", result, gen.result)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	want, _ := base64.StdEncoding.DecodeString(testImageB64)
	if string(gen.asset.Data) != string(want) {
		t.Fatal("generator received different bytes than the decoded image")
	}
	if gen.asset.MIMEType != "image/png" {
		t.Fatalf("asset mime = %q, want %q", gen.asset.MIMEType, "image/png")
	}
}

func TestGenerateAcceptsDataURI(t *testing.T) {
	gen := &fakeGenerator{result: domain.GenerationResult{Status: domain.StatusCompleted}}
	app := newTestApp(gen)

	body := fmt.Sprintf(`{"image":"data:image/webp;base64,%s","schema":{"prompt":"p"}}`, testImageB64)
	rec := postJSON(t, app.Generate, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
	}
	if gen.asset.MIMEType != "image/webp" {
		t.Fatalf("asset mime = %q, want mime from data uri", gen.asset.MIMEType)
	}
}

func TestGenerateRejectsInvalidImage(t *testing.T) {
	gen := &fakeGenerator{}
	app := newTestApp(gen)

	rec := postJSON(t, app.Generate, generateBody("not-base64!!!"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if gen.calls != 0 {
		t.Fatalf("generator calls = %d, want 0 on bad input", gen.calls)
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	app := newTestApp(&fakeGenerator{})

	body := fmt.Sprintf(`{"image":%q,"schema":{"prompt":"  "}}`, testImageB64)
	rec := postJSON(t, app.Generate, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateRepairsSchemaBeforeRun(t *testing.T) {
	gen := &fakeGenerator{result: domain.GenerationResult{Status: domain.StatusCompleted}}
	app := newTestApp(gen)

	body := fmt.Sprintf(`{"image":%q,"schema":{"prompt":"p","structured_prompt":{"lighting":{"direction":"Diagonal"},"photographic_characteristics":{"camera_angle":"Dutch"}}}}`, testImageB64)
	rec := postJSON(t, app.Generate, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
	}
	if got := gen.schema.StructuredPrompt.Lighting.Direction; got != domain.LightNone {
		t.Fatalf("direction = %q, want repaired to %q", got, domain.LightNone)
	}
	if got := gen.schema.StructuredPrompt.Photographic.CameraAngle; got != domain.AngleEyeLevel {
		t.Fatalf("camera angle = %q, want repaired to %q", got, domain.AngleEyeLevel)
	}
}

func TestGenerateMapsFailureToBadGateway(t *testing.T) {
	gen := &fakeGenerator{
		result: domain.GenerationResult{Status: domain.StatusFailed},
		err:    domain.ErrGenerationFailed,
	}
	app := newTestApp(gen)

	rec := postJSON(t, app.Generate, generateBody(testImageB64))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var result domain.GenerationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.Status != domain.StatusFailed {
		t.Fatalf("status = %q, want %q", result.Status, domain.StatusFailed)
	}
	if result.ImageURL != "" {
		t.Fatalf("imageUrl = %q, want empty on failure", result.ImageURL)
	}
}
