package backend

import (
	"fmt"
	"strings"

	"skustudio/internal/domain"
)

// buildPlatePrompt projects the schema into a background-plate instruction
// for a scene generator that never sees the product image. The explicit
// negative-space framing keeps the plate compositable.
func buildPlatePrompt(schema domain.SceneSchema) string {
	sp := schema.StructuredPrompt
	parts := []string{strings.TrimSpace(sp.BackgroundSetting)}
	if objects := describeObjects(sp.Objects); objects != "" {
		parts = append(parts, "Objects in scene: "+objects)
	}
	if mood := strings.TrimSpace(sp.Aesthetics.MoodAtmosphere); mood != "" {
		parts = append(parts, "Mood: "+mood)
	}
	parts = append(parts, "High quality, photorealistic background plate, negative space in center for product")
	return strings.Join(parts, ". ") + "."
}

// buildCompositePrompt is the stage-2 text for the relighting backend. Which
// variant matches reality best is deployment-specific, so it is a
// configuration choice rather than a fixed behavior.
func buildCompositePrompt(schema domain.SceneSchema, minimal bool) string {
	if minimal {
		return "Product shot, realistic lighting, 8k"
	}
	sp := schema.StructuredPrompt
	return fmt.Sprintf("%s, %s lighting, realistic product integration",
		strings.TrimSpace(sp.BackgroundSetting), sp.Lighting.Conditions)
}

// describeObjects flattens set dressing in planner order; location is
// appended when present.
func describeObjects(objects []domain.SceneObject) string {
	var parts []string
	for _, obj := range objects {
		name := strings.TrimSpace(obj.Name)
		if name == "" {
			continue
		}
		if obj.Location != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", name, obj.Location))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func aspectRatioOrDefault(schema domain.SceneSchema) string {
	if aspect := strings.TrimSpace(schema.AspectRatio); aspect != "" {
		return aspect
	}
	return "4:5"
}
