package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"skustudio/internal/domain"
)

const maxProductImageBytes = 20 << 20

type generateRequest struct {
	Image    string             `json:"image"`
	MIMEType string             `json:"mime_type"`
	Schema   domain.SceneSchema `json:"schema"`
}

// Generate runs one full generation: decode the product image, upload it,
// drive the configured backend topology, and return the final image URL. The
// response is either COMPLETED with a URL or a generic FAILED; stage details
// stay in the logs.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProductImageBytes)).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	data, mimeType, err := decodeProductImage(req.Image, req.MIMEType)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image must be base64 or a data URI")
		return
	}

	schema := req.Schema
	schema.Normalize()
	if strings.TrimSpace(schema.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "schema.prompt is required")
		return
	}

	asset := domain.ProductAsset{
		Data:      data,
		MIMEType:  mimeType,
		SizeBytes: int64(len(data)),
	}
	result, err := a.Generator.Run(r.Context(), asset, schema)
	if err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) {
			a.json(w, http.StatusBadGateway, result)
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		return
	}
	a.json(w, http.StatusOK, result)
}

// decodeProductImage accepts either a data URI ("data:image/png;base64,...")
// or a bare base64 string.
func decodeProductImage(raw, mimeHint string) ([]byte, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", errors.New("empty image")
	}
	mimeType := strings.TrimSpace(mimeHint)
	if strings.HasPrefix(raw, "data:") {
		meta, payload, found := strings.Cut(raw, ",")
		if !found {
			return nil, "", errors.New("malformed data uri")
		}
		meta = strings.TrimPrefix(meta, "data:")
		meta = strings.TrimSuffix(meta, ";base64")
		if mimeType == "" {
			mimeType = meta
		}
		raw = payload
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image")
	}
	return data, mimeType, nil
}
