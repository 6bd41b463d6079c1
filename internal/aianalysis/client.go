package aianalysis

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"cliptag/internal/aiservice"
	"cliptag/internal/config"
	"cliptag/internal/logging"
	"cliptag/internal/media/probe"
	"cliptag/internal/naming"
	"cliptag/internal/services"
	"cliptag/internal/textutil"
	"cliptag/internal/vocab"
)

// ErrUnavailable reports that the AI service cannot be called.
var ErrUnavailable = aiservice.ErrUnavailable

// DefaultMaxFileBytes is the upload ceiling of the transcription endpoint.
const DefaultMaxFileBytes int64 = 25 * 1024 * 1024

// Prober supplies container metadata used as prompt context and tag backfill.
type Prober interface {
	Probe(ctx context.Context, path string) probe.Result
}

// TagDetector supplies filename tags used as the last tag backfill.
type TagDetector interface {
	DetectTags(filename string) []string
}

// Options tunes the client.
type Options struct {
	MaxFileBytes     int64
	DefaultExtension string
}

// OptionsFrom extracts client options from application config.
func OptionsFrom(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		MaxFileBytes:     cfg.MaxFileBytes(),
		DefaultExtension: cfg.Analysis.DefaultExtension,
	}
}

// Result is the AI tier's answer. SuggestedName is empty when the model did
// not offer one.
type Result struct {
	Tags          []string
	Key           string
	SuggestedName string
}

// Client runs the two-call AI flow.
type Client struct {
	service aiservice.Service
	prober  Prober
	tags    TagDetector
	vocab   *vocab.Vocabulary
	opts    Options
	logger  *slog.Logger
}

// New constructs a Client. A nil service makes every Analyze call fail with
// ErrUnavailable.
func New(service aiservice.Service, prober Prober, tags TagDetector, v *vocab.Vocabulary, opts Options, logger *slog.Logger) *Client {
	if v == nil {
		v = vocab.Default()
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if strings.TrimSpace(opts.DefaultExtension) == "" {
		opts.DefaultExtension = ".wav"
	}
	return &Client{
		service: service,
		prober:  prober,
		tags:    tags,
		vocab:   v,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "aianalysis"),
	}
}

// Available reports whether Analyze can reach the service.
func (c *Client) Available() bool {
	return c != nil && c.service != nil && c.service.Available()
}

type structuredResponse struct {
	Key           any `json:"key"`
	Tags          any `json:"tags"`
	SuggestedName any `json:"suggestedName"`
}

// Analyze describes the clip at path and returns vocabulary-checked values.
func (c *Client) Analyze(ctx context.Context, path, originalName string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "aianalysis", "stat clip", path, err)
	}
	if info.Size() > c.opts.MaxFileBytes {
		return Result{}, services.Wrap(services.ErrValidation, "aianalysis", "check size",
			"file too large for ai analysis", nil)
	}
	if !c.Available() {
		return Result{}, services.Wrap(services.ErrConfiguration, "aianalysis", "check credential",
			"ai service not configured", ErrUnavailable)
	}

	logger := logging.WithContext(ctx, c.logger)
	meta := c.probe(ctx, path)

	description, err := c.service.DescribeAudio(ctx, aiservice.AudioRequest{
		Path:   path,
		Prompt: audioPrompt(c.vocab.Tags(), meta),
	})
	if err != nil {
		return Result{}, markExternal("describe audio", err)
	}
	logger.Debug("ai description received", logging.Int("length", len(description)))

	content, err := c.service.StructureDescription(ctx, aiservice.StructureRequest{
		System: systemPrompt(c.vocab.Keys(), c.vocab.Tags()),
		User:   userPrompt(description, originalName, meta),
	})
	if err != nil {
		return Result{}, markExternal("structure description", err)
	}

	var raw structuredResponse
	if err := aiservice.DecodeJSON(content, &raw); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "aianalysis", "decode response",
			"malformed structured response", err)
	}

	candidates := tagStrings(raw.Tags)
	key, _ := raw.Key.(string)
	key = strings.TrimSpace(key)
	tags, validKey := c.vocab.Validate(candidates, key)
	if len(tags) != len(candidates) || validKey != key {
		logger.Debug("dropped values outside vocabulary",
			logging.Any("tags", candidates),
			logging.String("key", key),
		)
	}

	if len(tags) == 0 {
		tags, _ = c.vocab.Validate(meta.Tags, "")
	}
	if len(tags) == 0 && c.tags != nil {
		tags, _ = c.vocab.Validate(c.tags.DetectTags(originalName), "")
	}

	name, _ := raw.SuggestedName.(string)
	name = textutil.SanitizeFileName(name)
	if name != "" {
		name = naming.EnsureExtension(name, naming.ExtensionFor(originalName, c.opts.DefaultExtension))
	}

	return Result{Tags: tags, Key: validKey, SuggestedName: name}, nil
}

func (c *Client) probe(ctx context.Context, path string) probe.Result {
	if c.prober == nil {
		return probe.Result{Tags: []string{}, Tempo: probe.TempoUnknown}
	}
	return c.prober.Probe(ctx, path)
}

// markExternal keeps an existing marker and tags anything else as a remote
// failure.
func markExternal(operation string, err error) error {
	if services.Kind(err) != "transient" {
		return err
	}
	return services.Wrap(services.ErrExternalTool, "aianalysis", operation, "ai service call failed", err)
}

// tagStrings accepts a JSON array of strings or a comma separated string.
func tagStrings(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Split(v, ",")
	default:
		return nil
	}
}
