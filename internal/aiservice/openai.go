package aiservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"cliptag/internal/services"
)

const (
	defaultTranscriptionModel = "whisper-1"
	defaultChatModel          = "gpt-3.5-turbo"
	defaultTimeout            = 60 * time.Second
)

// OpenAI implements Service against an OpenAI-compatible API.
type OpenAI struct {
	cfg        Config
	client     openai.Client
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*OpenAI)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *OpenAI) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// NewOpenAI constructs a client using the supplied configuration.
func NewOpenAI(cfg Config, opts ...Option) *OpenAI {
	o := &OpenAI{
		cfg: Config{
			APIKey:             strings.TrimSpace(cfg.APIKey),
			BaseURL:            strings.TrimSpace(cfg.BaseURL),
			TranscriptionModel: strings.TrimSpace(cfg.TranscriptionModel),
			ChatModel:          strings.TrimSpace(cfg.ChatModel),
			TimeoutSeconds:     cfg.TimeoutSeconds,
			MaxRetries:         cfg.MaxRetries,
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.TranscriptionModel == "" {
		o.cfg.TranscriptionModel = defaultTranscriptionModel
	}
	if o.cfg.ChatModel == "" {
		o.cfg.ChatModel = defaultChatModel
	}
	if o.cfg.MaxRetries < 0 {
		o.cfg.MaxRetries = 0
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(o.cfg.APIKey),
		option.WithMaxRetries(o.cfg.MaxRetries),
		option.WithRequestTimeout(o.timeout()),
	}
	if o.cfg.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(o.cfg.BaseURL))
	}
	if o.httpClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(o.httpClient))
	}
	o.client = openai.NewClient(requestOpts...)
	return o
}

func (o *OpenAI) timeout() time.Duration {
	if o.cfg.TimeoutSeconds > 0 {
		return time.Duration(o.cfg.TimeoutSeconds) * time.Second
	}
	return defaultTimeout
}

// Available implements Service.
func (o *OpenAI) Available() bool {
	return o != nil && HasCredential(o.cfg.APIKey)
}

// DescribeAudio uploads the file to the transcription endpoint with the
// prompt as context and returns the text.
func (o *OpenAI) DescribeAudio(ctx context.Context, req AudioRequest) (string, error) {
	if !o.Available() {
		return "", services.Wrap(services.ErrConfiguration, "aiservice", "describe audio", "api key not configured", ErrUnavailable)
	}
	file, err := os.Open(req.Path)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "aiservice", "describe audio", "open audio file", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModel(o.cfg.TranscriptionModel),
	}
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		params.Prompt = openai.String(prompt)
	}

	transcription, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", classify("describe audio", "transcription request failed", err)
	}
	return strings.TrimSpace(transcription.Text), nil
}

// StructureDescription issues a JSON-mode chat completion and returns the raw
// message content.
func (o *OpenAI) StructureDescription(ctx context.Context, req StructureRequest) (string, error) {
	if !o.Available() {
		return "", services.Wrap(services.ErrConfiguration, "aiservice", "structure description", "api key not configured", ErrUnavailable)
	}
	system := strings.TrimSpace(req.System)
	user := strings.TrimSpace(req.User)
	if user == "" {
		return "", services.Wrap(services.ErrValidation, "aiservice", "structure description", "user prompt required", nil)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    shared.ChatModel(o.cfg.ChatModel),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		return "", classify("structure description", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "aiservice", "structure description", "empty choices", nil)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", services.Wrap(services.ErrExternalTool, "aiservice", "structure description",
			fmt.Sprintf("empty content (finish_reason=%q)", resp.Choices[0].FinishReason), nil)
	}
	return content, nil
}

func classify(operation, message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "aiservice", operation, message, err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message = fmt.Sprintf("%s: http %d", message, apiErr.StatusCode)
	}
	return services.Wrap(services.ErrExternalTool, "aiservice", operation, message, err)
}
