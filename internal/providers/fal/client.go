package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"skustudio/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("fal: api key is required")

// Options configures the fal.ai client.
type Options struct {
	APIKey       string
	QueueBaseURL string
	RESTBaseURL  string
	// HTTPClient overrides the default transport. An injected client keeps
	// its own timeout; RequestTimeout then has no effect.
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

// Client performs HTTP calls against the fal.ai queue and storage APIs. Each
// Run call submits a request and blocks until the queue reports a terminal
// status, which mirrors a synchronous backend invocation.
type Client struct {
	apiKey       string
	queueBaseURL string
	restBaseURL  string
	httpClient   *http.Client
	logger       *infra.Logger
	pollInterval time.Duration
}

type uploadInitiateRequest struct {
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}

type uploadInitiateResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

type queueSubmitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type queueStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	queueBaseURL := strings.TrimRight(opts.QueueBaseURL, "/")
	if queueBaseURL == "" {
		queueBaseURL = "https://queue.fal.run"
	}
	restBaseURL := strings.TrimRight(opts.RESTBaseURL, "/")
	if restBaseURL == "" {
		restBaseURL = "https://rest.alpha.fal.ai"
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		queueBaseURL: queueBaseURL,
		restBaseURL:  restBaseURL,
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Upload pushes raw bytes to fal storage and returns the durable URL. The URL
// is an opaque capability token; its lifetime is owned by the remote store.
func (c *Client) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	if len(data) == 0 {
		return "", errors.New("fal: empty payload")
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "application/octet-stream"
	}

	initPayload := uploadInitiateRequest{ContentType: mimeType, FileName: "sku-upload"}
	body, err := json.Marshal(initPayload)
	if err != nil {
		return "", fmt.Errorf("fal: encode upload request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restBaseURL+"/storage/upload/initiate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("fal: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fal: initiate upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", statusError("initiate upload", resp)
	}
	var initiated uploadInitiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&initiated); err != nil {
		return "", fmt.Errorf("fal: decode upload response: %w", err)
	}
	if initiated.UploadURL == "" || initiated.FileURL == "" {
		return "", errors.New("fal: incomplete upload grant")
	}

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, initiated.UploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("fal: build put request: %w", err)
	}
	putReq.Header.Set("Content-Type", mimeType)
	putResp, err := c.httpClient.Do(putReq)
	if err != nil {
		return "", fmt.Errorf("fal: put object: %w", err)
	}
	defer putResp.Body.Close()
	if putResp.StatusCode >= 300 {
		return "", statusError("put object", putResp)
	}

	c.logger.Debug().
		Str("url", initiated.FileURL).
		Int("bytes", len(data)).
		Msg("fal: uploaded asset")
	return initiated.FileURL, nil
}

// Run submits an input payload to the named queue endpoint and blocks until
// the request reaches a terminal status, returning the raw response body.
func (c *Client) Run(ctx context.Context, endpoint string, input map[string]any) (json.RawMessage, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("fal: endpoint is required")
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("fal: encode input: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queueBaseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fal: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fal: submit request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError("submit", resp)
	}
	var submitted queueSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return nil, fmt.Errorf("fal: decode submit response: %w", err)
	}
	if submitted.StatusURL == "" || submitted.ResponseURL == "" {
		return nil, errors.New("fal: incomplete queue handle")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("request_id", submitted.RequestID).
		Msg("fal: submitted request")

	if err := c.awaitCompletion(ctx, submitted.StatusURL); err != nil {
		return nil, err
	}
	return c.fetchResponse(ctx, submitted.ResponseURL)
}

func (c *Client) awaitCompletion(ctx context.Context, statusURL string) error {
	for {
		status, err := c.fetchStatus(ctx, statusURL)
		if err != nil {
			return err
		}
		switch status.Status {
		case "COMPLETED":
			return nil
		case "IN_QUEUE", "IN_PROGRESS":
		default:
			msg := status.Error
			if msg == "" {
				msg = status.Status
			}
			return fmt.Errorf("fal: request failed: %s", msg)
		}
		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) fetchStatus(ctx context.Context, statusURL string) (*queueStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fal: build status request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fal: fetch status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError("status", resp)
	}
	var status queueStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("fal: decode status: %w", err)
	}
	return &status, nil
}

func (c *Client) fetchResponse(ctx context.Context, responseURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, responseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fal: build response request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fal: fetch response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError("response", resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fal: read response: %w", err)
	}
	return json.RawMessage(raw), nil
}

func statusError(phase string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != nil {
		return fmt.Errorf("fal: %s status %d: %v", phase, resp.StatusCode, detail.Detail)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return fmt.Errorf("fal: %s status %d: %s", phase, resp.StatusCode, text)
	}
	return fmt.Errorf("fal: %s status %d", phase, resp.StatusCode)
}
