package aiservice

import (
	"context"
	"errors"
	"strings"

	"cliptag/internal/config"
)

// ErrUnavailable reports that no usable credential is configured.
var ErrUnavailable = errors.New("ai service unavailable")

// AudioRequest asks for a free-text description of an audio file.
type AudioRequest struct {
	Path   string
	Prompt string
}

// StructureRequest asks for a JSON object answering the user prompt.
type StructureRequest struct {
	System string
	User   string
}

// Service is the external transcription and reasoning capability.
type Service interface {
	// Available reports whether the service can be called at all.
	Available() bool
	DescribeAudio(ctx context.Context, req AudioRequest) (string, error)
	StructureDescription(ctx context.Context, req StructureRequest) (string, error)
}

// Config captures the runtime settings required to talk to the service.
type Config struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	ChatModel          string
	TimeoutSeconds     int
	MaxRetries         int
}

// ConfigFrom extracts service settings from application config.
func ConfigFrom(cfg *config.Config) Config {
	if cfg == nil {
		return Config{}
	}
	key := cfg.AI.APIKey
	if !cfg.AIConfigured() {
		key = ""
	}
	return Config{
		APIKey:             key,
		BaseURL:            cfg.AI.BaseURL,
		TranscriptionModel: cfg.AI.TranscriptionModel,
		ChatModel:          cfg.AI.ChatModel,
		TimeoutSeconds:     cfg.AI.TimeoutSeconds,
		MaxRetries:         cfg.AI.MaxRetries,
	}
}

// HasCredential reports whether key is set and is not the sample placeholder.
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != config.PlaceholderAPIKey
}
