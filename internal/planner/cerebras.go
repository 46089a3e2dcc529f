package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"skustudio/internal/domain"
)

const cerebrasDefaultTimeout = 30 * time.Second

// CerebrasOptions configures the remote planner.
type CerebrasOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Planner
	// OnFallback is invoked with the reason whenever the remote call is
	// abandoned in favour of the fallback planner. Useful for operators
	// and tests; may be nil.
	OnFallback func(reason string, err error)
}

// CerebrasPlanner issues exactly one chat-completions request against the
// Cerebras API and degrades to the fallback planner on any failure. There is
// no retry and no backoff: one remote attempt, then deterministic local
// synthesis, so the pipeline never blocks on this dependency.
type CerebrasPlanner struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	fallback   Planner
	onFallback func(reason string, err error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewCerebrasPlanner wires the remote planner with its fallback. An empty API
// key is allowed; every Plan call then goes straight to the fallback.
func NewCerebrasPlanner(opts CerebrasOptions) *CerebrasPlanner {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.cerebras.ai/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "llama3.1-8b"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cerebrasDefaultTimeout}
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStaticPlanner()
	}
	return &CerebrasPlanner{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		baseURL:    baseURL,
		client:     client,
		fallback:   fallback,
		onFallback: opts.OnFallback,
	}
}

// Plan fulfils the Planner interface.
func (p *CerebrasPlanner) Plan(ctx context.Context, brief, productName string) (*domain.SceneSchema, error) {
	if p.apiKey == "" {
		return p.useFallback(ctx, brief, productName, "missing_api_key", nil)
	}

	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction()},
			{Role: "user", Content: fmt.Sprintf("Product: %s\nBrief: %s", productName, brief)},
		},
		// Low temperature keeps the structured output stable.
		Temperature:    0.2,
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return p.useFallback(ctx, brief, productName, "encode_request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return p.useFallback(ctx, brief, productName, "build_request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return p.useFallback(ctx, brief, productName, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return p.useFallback(ctx, brief, productName, "http_status", fmt.Errorf("%w: status %d", domain.ErrPlanning, resp.StatusCode))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return p.useFallback(ctx, brief, productName, "decode_response", err)
	}
	content := firstChoiceContent(out)
	if content == "" {
		return p.useFallback(ctx, brief, productName, "empty_content", nil)
	}

	schema, err := parseSceneSchema(content)
	if err != nil {
		return p.useFallback(ctx, brief, productName, "parse_schema", err)
	}
	if schema.Prompt == "" {
		schema.Prompt = strings.TrimSpace(brief)
	}
	schema.Normalize()
	return schema, nil
}

func (p *CerebrasPlanner) useFallback(ctx context.Context, brief, productName, reason string, cause error) (*domain.SceneSchema, error) {
	if p.onFallback != nil {
		p.onFallback(reason, cause)
	}
	schema, err := p.fallback.Plan(ctx, brief, productName)
	if err != nil {
		return nil, errors.Join(domain.ErrPlanning, err)
	}
	return schema, nil
}

func firstChoiceContent(resp chatResponse) string {
	for _, choice := range resp.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text
		}
	}
	return ""
}

var _ Planner = (*CerebrasPlanner)(nil)
