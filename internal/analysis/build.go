package analysis

import (
	"log/slog"

	"cliptag/internal/aianalysis"
	"cliptag/internal/aiservice"
	"cliptag/internal/config"
	"cliptag/internal/heuristics"
	"cliptag/internal/media/ffprobe"
	"cliptag/internal/media/probe"
	"cliptag/internal/naming"
	"cliptag/internal/vocab"
)

// BuildOptions overrides parts of the configured wiring.
type BuildOptions struct {
	// Service replaces the OpenAI client. Nil keeps the configured client.
	Service aiservice.Service
	// Random replaces the seeded source.
	Random *Random
}

// Build wires an Analyzer from application config: native and optional
// ffprobe metadata readers, filename heuristics, the OpenAI service when a
// credential is configured, and a shared seeded random source.
func Build(cfg *config.Config, logger *slog.Logger, opts BuildOptions) *Analyzer {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	v := vocab.Default()

	rng := opts.Random
	if rng == nil {
		rng = NewRandom(cfg.Analysis.Seed)
	}

	keyProbability := cfg.Analysis.FilenameRandomKeyProbability
	if !cfg.Analysis.SimulateVariability {
		keyProbability = 0
	}
	filename := heuristics.New(v, rng, heuristics.Options{RandomKeyProbability: keyProbability})

	readers := []probe.Reader{probe.NativeReader{}}
	if cfg.Probe.UseFFprobe {
		readers = append(readers, ffprobe.Reader{Binary: cfg.Probe.FFprobeBinary})
	}
	prober := probe.New(readers...).WithLogger(logger)

	service := opts.Service
	if service == nil && cfg.AIConfigured() {
		service = aiservice.NewOpenAI(aiservice.ConfigFrom(cfg))
	}
	ai := aianalysis.New(service, prober, filename, v, aianalysis.OptionsFrom(cfg), logger)

	return New(Dependencies{
		Vocab:    v,
		Filename: filename,
		Prober:   prober,
		AI:       ai,
		Names:    naming.New(rng, naming.Options{DefaultExtension: cfg.Analysis.DefaultExtension}),
		Random:   rng,
		Logger:   logger,
	}, Options{
		SimulateVariability:  cfg.Analysis.SimulateVariability,
		ExtraTagProbability:  cfg.Analysis.ExtraTagProbability,
		RandomKeyProbability: cfg.Analysis.RandomKeyProbability,
		DefaultExtension:     cfg.Analysis.DefaultExtension,
	})
}
