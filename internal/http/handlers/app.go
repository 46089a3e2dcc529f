package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"skustudio/internal/domain"
	"skustudio/internal/infra"
	"skustudio/internal/planner"
)

// Generator is the orchestrator surface the HTTP layer depends on.
type Generator interface {
	Run(ctx context.Context, asset domain.ProductAsset, schema domain.SceneSchema) (domain.GenerationResult, error)
}

// App bundles the handler dependencies.
type App struct {
	Planner   planner.Planner
	Generator Generator
	Logger    infra.Logger
}

func NewApp(p planner.Planner, g Generator, logger infra.Logger) *App {
	return &App{Planner: p, Generator: g, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errCode, Message: message})
}

// Health reports process liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
