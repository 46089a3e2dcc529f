package planner

import (
	"encoding/json"
	"errors"
	"strings"

	"skustudio/internal/domain"
)

// systemInstruction establishes the model's role and the hard constraints on
// its output. The product is immutable; only the surrounding scene may be
// invented.
func systemInstruction() string {
	sb := &strings.Builder{}
	sb.WriteString("You are an expert Creative Director and Photographer. ")
	sb.WriteString("Translate the user's creative brief into a structured JSON configuration for a programmatic photography engine.\n\n")
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Output ONLY valid JSON. No markdown, no conversation.\n")
	sb.WriteString("2. You define the scene AROUND the product. The product is immutable.\n")
	sb.WriteString(`3. "lighting.direction" must be one of: "Left", "Right", "Top", "Bottom", "Front", "Back", "None".` + "\n")
	sb.WriteString(`4. "photographic_characteristics.camera_angle" must be one of: "Eye Level", "Low Angle", "High Angle", "Top Down", "Isometric".` + "\n")
	sb.WriteString(`5. If the brief mentions a specific country or culture, add culturally relevant entries to the "objects" array.` + "\n\n")
	sb.WriteString("JSON STRUCTURE:\n")
	sb.WriteString(`{"prompt":"String","structured_prompt":{"short_description":"String","background_setting":"String","lighting":{"direction":"Enum","conditions":"Enum","shadows":"String"},"aesthetics":{"mood_atmosphere":"String","color_scheme":"String","composition":"String"},"photographic_characteristics":{"camera_angle":"Enum","lens_focal_length":"String","depth_of_field":"Enum"},"objects":[{"name":"String","location":"String"}]}}`)
	return sb.String()
}

// parseSceneSchema decodes model output into a schema, tolerating code fences
// and surrounding prose.
func parseSceneSchema(raw string) (*domain.SceneSchema, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, errors.New("empty payload")
	}
	var schema domain.SceneSchema
	if err := json.Unmarshal([]byte(cleaned), &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
