package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cliptag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The AI tier is disabled and the random source pinned unless an option says
// otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.UploadDir = filepath.Join(base, "data", "uploads")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.AI.Enabled = false
	cfgVal.AI.APIKey = ""
	cfgVal.Analysis.Seed = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithAPIKey enables the AI tier with the given key and base URL.
func WithAPIKey(key, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AI.Enabled = true
		b.cfg.AI.APIKey = key
		if baseURL != "" {
			b.cfg.AI.BaseURL = baseURL
		}
	}
}

// WithoutVariability turns off the probabilistic degraded-tier behaviour.
func WithoutVariability() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.SimulateVariability = false
		b.cfg.Analysis.FilenameRandomKeyProbability = 0
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. Each stub prints script to stdout. If names is
// empty, ffprobe is stubbed.
func WithStubbedBinaries(script string, names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		body := []byte("#!/bin/sh\ncat <<'JSON'\n" + script + "\nJSON\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, body, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
