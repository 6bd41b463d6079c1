package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"cliptag/internal/aianalysis"
	"cliptag/internal/logging"
	"cliptag/internal/media/probe"
	"cliptag/internal/naming"
	"cliptag/internal/services"
	"cliptag/internal/vocab"
)

// Tier names used in logs.
const (
	TierBaseline = "baseline"
	TierAI       = "ai"
	TierDegraded = "degraded"
	TierFallback = "total_failure"
)

// Result is the outcome of analysing one clip.
type Result struct {
	Tags          []string `json:"tags"`
	Key           string   `json:"key"`
	SuggestedName string   `json:"suggestedName"`
}

// Source supplies randomness for the degraded tier.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// FilenameAnalyzer derives tags and a key from a filename.
type FilenameAnalyzer interface {
	DetectTags(filename string) []string
	DetectKey(filename string) string
}

// Prober reads container metadata.
type Prober interface {
	Probe(ctx context.Context, path string) probe.Result
}

// AIAnalyzer is the AI tier.
type AIAnalyzer interface {
	Analyze(ctx context.Context, path, originalName string) (aianalysis.Result, error)
}

// NameSuggester decides on and builds replacement names.
type NameSuggester interface {
	ShouldRename(filename string) bool
	Suggest(originalName string, tags []string, key string) string
}

// Dependencies are the collaborators of an Analyzer. Only Filename and Names
// are required; a nil Prober yields empty metadata and a nil AI always fails
// the AI tier.
type Dependencies struct {
	Vocab    *vocab.Vocabulary
	Filename FilenameAnalyzer
	Prober   Prober
	AI       AIAnalyzer
	Names    NameSuggester
	Random   Source
	Logger   *slog.Logger
	Stat     func(path string) (fs.FileInfo, error)
}

// Options tunes the degraded tier.
type Options struct {
	SimulateVariability  bool
	ExtraTagProbability  float64
	RandomKeyProbability float64
	DefaultExtension     string
}

// DefaultOptions returns the stock probabilities with variability enabled.
func DefaultOptions() Options {
	return Options{
		SimulateVariability:  true,
		ExtraTagProbability:  0.3,
		RandomKeyProbability: 0.5,
		DefaultExtension:     ".wav",
	}
}

// Analyzer runs the tier cascade.
type Analyzer struct {
	deps   Dependencies
	opts   Options
	logger *slog.Logger
}

// New constructs an Analyzer.
func New(deps Dependencies, opts Options) *Analyzer {
	if deps.Vocab == nil {
		deps.Vocab = vocab.Default()
	}
	if deps.Stat == nil {
		deps.Stat = os.Stat
	}
	if strings.TrimSpace(opts.DefaultExtension) == "" {
		opts.DefaultExtension = ".wav"
	}
	return &Analyzer{
		deps:   deps,
		opts:   opts,
		logger: logging.NewComponentLogger(deps.Logger, "analysis"),
	}
}

// Analyze returns tags, key, and a suggested name for the clip at path. It
// never fails: a fault in any tier yields empty tags and key with the
// original name.
func (a *Analyzer) Analyze(ctx context.Context, path, originalName string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(logging.WithContext(services.WithTier(ctx, TierFallback), a.logger),
				"analysis failed; returning empty result", "analysis_total_failure",
				logging.String("original_name", originalName),
				logging.String("panic", fmt.Sprint(r)),
				logging.String(logging.FieldErrorHint, "inspect the clip file and metadata readers"),
			)
			result = sentinel(originalName)
		}
	}()

	baseline := a.baseline(ctx, path, originalName)

	aiCtx := services.WithTier(ctx, TierAI)
	enhanced, err := a.aiTier(aiCtx, path, originalName, baseline)
	if err == nil {
		return a.finalize(enhanced, originalName)
	}

	logger := logging.WithContext(aiCtx, a.logger)
	if errors.Is(err, aianalysis.ErrUnavailable) {
		logger.Debug("ai analysis skipped", logging.Error(err))
	} else {
		logging.WarnWithContext(logger, "ai analysis failed; using fallback analysis", "analysis_ai_failed",
			logging.String("original_name", originalName),
			logging.String("error_kind", services.Kind(err)),
			logging.Alert("ai_tier_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "tags and key come from filename and metadata heuristics"),
		)
	}

	degraded := a.degraded(baseline, originalName)
	attrs := logging.DecisionAttrs("analysis_tier", TierDegraded, services.Kind(err))
	attrs = append(attrs,
		logging.String(logging.FieldEventType, "analysis_degraded"),
		logging.Int("tag_count", len(degraded.Tags)),
		logging.Bool("has_key", degraded.Key != ""),
	)
	logging.WithContext(services.WithTier(ctx, TierDegraded), a.logger).Info("analysis degraded", logging.Args(attrs...)...)
	return a.finalize(degraded, originalName)
}

// baseline merges filename and metadata analysis.
func (a *Analyzer) baseline(ctx context.Context, path, originalName string) Result {
	tags := a.deps.Filename.DetectTags(originalName)
	key := a.deps.Filename.DetectKey(originalName)

	if a.deps.Prober != nil {
		meta := a.deps.Prober.Probe(ctx, path)
		tags = vocab.Union(tags, meta.Tags)
		if meta.Key != "" {
			key = meta.Key
		}
	} else {
		tags = vocab.Union(tags, nil)
	}
	return Result{Tags: tags, Key: key, SuggestedName: originalName}
}

func (a *Analyzer) aiTier(ctx context.Context, path, originalName string, baseline Result) (Result, error) {
	if _, err := a.deps.Stat(path); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "analysis", "ai tier", "clip file missing", err)
	}
	if a.deps.AI == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "analysis", "ai tier", "no ai analyzer", aianalysis.ErrUnavailable)
	}

	ai, err := a.deps.AI.Analyze(ctx, path, originalName)
	if err != nil {
		return Result{}, err
	}

	out := Result{Tags: baseline.Tags, Key: baseline.Key, SuggestedName: ai.SuggestedName}
	if len(ai.Tags) > 0 {
		out.Tags = ai.Tags
	}
	if ai.Key != "" {
		out.Key = ai.Key
	}
	if out.SuggestedName == "" {
		out.SuggestedName = originalName
		if a.deps.Names.ShouldRename(originalName) {
			out.SuggestedName = a.deps.Names.Suggest(originalName, ai.Tags, ai.Key)
		}
	}
	return out, nil
}

func (a *Analyzer) degraded(baseline Result, originalName string) Result {
	out := Result{
		Tags:          append([]string(nil), baseline.Tags...),
		Key:           baseline.Key,
		SuggestedName: originalName,
	}
	if a.deps.Names.ShouldRename(originalName) {
		out.SuggestedName = a.deps.Names.Suggest(originalName, out.Tags, out.Key)
	}
	if a.opts.SimulateVariability && a.deps.Random != nil {
		a.addVariability(&out)
	}
	return out
}

// addVariability mimics the uncertainty of a real classifier.
func (a *Analyzer) addVariability(r *Result) {
	rng := a.deps.Random
	if rng.Float64() < a.opts.ExtraTagProbability && len(r.Tags) < 3 {
		unused := make([]string, 0, a.deps.Vocab.TagCount())
		for _, tag := range a.deps.Vocab.Tags() {
			if !vocab.Contains(r.Tags, tag) {
				unused = append(unused, tag)
			}
		}
		if len(unused) > 0 {
			r.Tags = append(r.Tags, unused[rng.IntN(len(unused))])
		}
	}
	if r.Key == "" && a.deps.Vocab.KeyCount() > 0 && rng.Float64() < a.opts.RandomKeyProbability {
		r.Key = a.deps.Vocab.KeyAt(rng.IntN(a.deps.Vocab.KeyCount()))
	}
}

// finalize enforces the vocabulary and extension invariants on a tier's
// output.
func (a *Analyzer) finalize(r Result, originalName string) Result {
	tags, key := a.deps.Vocab.Validate(r.Tags, r.Key)
	name := strings.TrimSpace(r.SuggestedName)
	if name == "" {
		name = originalName
	}
	name = naming.EnsureExtension(name, naming.ExtensionFor(originalName, a.opts.DefaultExtension))
	return Result{Tags: tags, Key: key, SuggestedName: name}
}

func sentinel(originalName string) Result {
	return Result{Tags: []string{}, Key: "", SuggestedName: originalName}
}
