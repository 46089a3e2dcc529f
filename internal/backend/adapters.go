package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"skustudio/internal/domain"
)

// responsePayload covers the places fal backends put their result image.
// Bria-style backends answer with a single nested image object, most others
// with a list.
type responsePayload struct {
	Image  *responseImage  `json:"image"`
	Images []responseImage `json:"images"`
}

type responseImage struct {
	URL string `json:"url"`
}

// extractRule is one pure extraction attempt against a decoded response.
type extractRule func(responsePayload) (string, bool)

func singleImageRule(p responsePayload) (string, bool) {
	if p.Image != nil {
		if url := strings.TrimSpace(p.Image.URL); url != "" {
			return url, true
		}
	}
	return "", false
}

func imageListRule(p responsePayload) (string, bool) {
	for _, img := range p.Images {
		if url := strings.TrimSpace(img.URL); url != "" {
			return url, true
		}
	}
	return "", false
}

// adapter pairs a backend endpoint with its ordered extraction rules. Rules
// are tried in order and the first present, non-empty URL wins; no rule
// matching is a hard stage failure, never a soft default.
type adapter struct {
	endpoint string
	rules    []extractRule
}

func (a adapter) invoke(ctx context.Context, r Runner, input map[string]any) (string, error) {
	raw, err := r.Run(ctx, a.endpoint, input)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrStage, a.endpoint, err)
	}
	return a.extract(raw)
}

func (a adapter) extract(raw json.RawMessage) (string, error) {
	var payload responsePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: %s: decode response: %v", domain.ErrStage, a.endpoint, err)
	}
	for _, rule := range a.rules {
		if url, ok := rule(payload); ok {
			return url, nil
		}
	}
	return "", fmt.Errorf("%w: %s: no image url in response", domain.ErrStage, a.endpoint)
}

// narrowDirection projects a schema lighting direction onto a backend's
// accepted subset. Values outside the subset map to None rather than failing.
func narrowDirection(d domain.LightingDirection, accepted map[domain.LightingDirection]struct{}) domain.LightingDirection {
	if _, ok := accepted[d]; ok {
		return d
	}
	return domain.LightNone
}
