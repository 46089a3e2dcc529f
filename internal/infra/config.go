package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Topology names for the generation pipeline.
const (
	TopologySubjectLocked = "subject_locked"
	TopologyImageToImage  = "image_to_image"
	TopologyTwoStage      = "two_stage"
)

// Stage-2 prompt modes for the two-stage topology.
const (
	Stage2PromptScene   = "scene"
	Stage2PromptMinimal = "minimal"
)

// Config represents application configuration loaded once from environment
// variables and passed by reference into every constructor. Credentials are
// optional on purpose: a missing key switches the matching component into its
// deterministic offline mode instead of failing startup.
type Config struct {
	AppEnv         string
	Port           string
	StorageBaseURL string
	StoragePath    string

	CerebrasAPIKey  string
	CerebrasModel   string
	CerebrasBaseURL string

	FalAPIKey      string
	FalQueueURL    string
	FalRESTBaseURL string

	Topology         string
	I2IStrength      float64
	Stage2PromptMode string
	MockDelay        time.Duration
	StageTimeout     time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		StoragePath:      getEnv("STORAGE_PATH", "./data/assets"),
		CerebrasAPIKey:   os.Getenv("CEREBRAS_API_KEY"),
		CerebrasModel:    getEnv("CEREBRAS_MODEL", "llama3.1-8b"),
		CerebrasBaseURL:  getEnv("CEREBRAS_BASE_URL", "https://api.cerebras.ai/v1"),
		FalAPIKey:        os.Getenv("FAL_KEY"),
		FalQueueURL:      getEnv("FAL_QUEUE_URL", "https://queue.fal.run"),
		FalRESTBaseURL:   getEnv("FAL_REST_BASE_URL", "https://rest.alpha.fal.ai"),
		Topology:         getEnv("TOPOLOGY", TopologyTwoStage),
		I2IStrength:      getEnvFloat("I2I_STRENGTH", 0.7),
		Stage2PromptMode: getEnv("STAGE2_PROMPT_MODE", Stage2PromptScene),
		MockDelay:        time.Millisecond * time.Duration(getEnvInt("MOCK_DELAY_MS", 3000)),
		StageTimeout:     time.Second * time.Duration(getEnvInt("STAGE_TIMEOUT_SECONDS", 90)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}
	cfg.StorageBaseURL = getEnv("STORAGE_BASE_URL", "http://localhost:"+cfg.Port+"/static")

	switch cfg.Topology {
	case TopologySubjectLocked, TopologyImageToImage, TopologyTwoStage:
	default:
		return nil, fmt.Errorf("TOPOLOGY must be one of %s, %s, %s", TopologySubjectLocked, TopologyImageToImage, TopologyTwoStage)
	}

	switch cfg.Stage2PromptMode {
	case Stage2PromptScene, Stage2PromptMinimal:
	default:
		return nil, fmt.Errorf("STAGE2_PROMPT_MODE must be %q or %q", Stage2PromptScene, Stage2PromptMinimal)
	}

	if cfg.I2IStrength < 0 {
		cfg.I2IStrength = 0
	}
	if cfg.I2IStrength > 1 {
		cfg.I2IStrength = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
