package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

const maxPlanRequestBytes = 1 << 20

type planRequest struct {
	Brief       string `json:"brief"`
	ProductName string `json:"product_name"`
}

// PlanScene converts a creative brief into a scene schema. The planner
// degrades to deterministic local synthesis internally, so this endpoint only
// fails on malformed input.
func (a *App) PlanScene(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlanRequestBytes)).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Brief = strings.TrimSpace(req.Brief)
	if req.Brief == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "brief is required")
		return
	}
	if strings.TrimSpace(req.ProductName) == "" {
		req.ProductName = "product"
	}

	schema, err := a.Planner.Plan(r.Context(), req.Brief, req.ProductName)
	if err != nil {
		a.Logger.Error().Err(err).Msg("scene planning failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to plan scene")
		return
	}
	a.json(w, http.StatusOK, schema)
}
