package config_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cliptag/internal/config"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CLIPTAG_API_BIND", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantUploads := filepath.Join(tempHome, ".local", "share", "cliptag", "uploads")
	if cfg.Paths.UploadDir != wantUploads {
		t.Fatalf("unexpected upload dir: got %q want %q", cfg.Paths.UploadDir, wantUploads)
	}
	if cfg.Paths.APIBind != "127.0.0.1:5000" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Fatalf("expected API key from env, got %q", cfg.AI.APIKey)
	}
	if !cfg.AIConfigured() {
		t.Fatal("expected AI to be configured with env key")
	}
	if cfg.AI.TranscriptionModel != "whisper-1" {
		t.Fatalf("unexpected transcription model: %q", cfg.AI.TranscriptionModel)
	}
	if cfg.MaxFileBytes() != 25*1024*1024 {
		t.Fatalf("unexpected AI file ceiling: %d", cfg.MaxFileBytes())
	}
	if cfg.MaxUploadBytes() != 10*1024*1024 {
		t.Fatalf("unexpected upload ceiling: %d", cfg.MaxUploadBytes())
	}
	if !cfg.Analysis.SimulateVariability {
		t.Fatal("expected variability simulation enabled by default")
	}
	if cfg.Analysis.DefaultExtension != ".wav" {
		t.Fatalf("unexpected default extension: %q", cfg.Analysis.DefaultExtension)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.UploadDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CLIPTAG_API_BIND", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cliptag.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		AI struct {
			APIKey    string `toml:"api_key"`
			ChatModel string `toml:"chat_model"`
		} `toml:"ai"`
		Analysis struct {
			Seed             int64  `toml:"seed"`
			DefaultExtension string `toml:"default_extension"`
		} `toml:"analysis"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.AI.APIKey = "abc123"
	custom.AI.ChatModel = "gpt-4o-mini"
	custom.Analysis.Seed = 42
	custom.Analysis.DefaultExtension = "WAV"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.AI.APIKey != "abc123" {
		t.Fatalf("unexpected api key: %q", cfg.AI.APIKey)
	}
	if cfg.AI.ChatModel != "gpt-4o-mini" {
		t.Fatalf("unexpected chat model: %q", cfg.AI.ChatModel)
	}
	if cfg.Analysis.Seed != 42 {
		t.Fatalf("unexpected seed: %d", cfg.Analysis.Seed)
	}
	if cfg.Analysis.DefaultExtension != ".wav" {
		t.Fatalf("expected normalized extension, got %q", cfg.Analysis.DefaultExtension)
	}
	wantUploads := filepath.Join(tempDir, "data", "uploads")
	if cfg.Paths.UploadDir != wantUploads {
		t.Fatalf("expected upload dir derived from data dir, got %q", cfg.Paths.UploadDir)
	}
	wantLogs := filepath.Join(tempDir, "data", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("expected log dir derived from data dir, got %q", cfg.Paths.LogDir)
	}
}

func TestLoadKeepsExplicitUploadAndLogDirs(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	configPath := filepath.Join(tempDir, "config.toml")

	uploads := filepath.Join(tempDir, "elsewhere", "uploads")
	contents := "[paths]\n" +
		"data_dir = " + strconv.Quote(filepath.Join(tempDir, "data")) + "\n" +
		"upload_dir = " + strconv.Quote(uploads) + "\n" +
		"log_dir = \"~/cliptag-logs\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.UploadDir != uploads {
		t.Fatalf("expected explicit upload dir kept, got %q", cfg.Paths.UploadDir)
	}
	if want := filepath.Join(tempDir, "cliptag-logs"); cfg.Paths.LogDir != want {
		t.Fatalf("expected log dir expanded to %q, got %q", want, cfg.Paths.LogDir)
	}
}

func TestEnvVarOverridesAPIBind(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLIPTAG_API_BIND", "0.0.0.0:8080")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIBind != "0.0.0.0:8080" {
		t.Fatalf("expected bind from env, got %q", cfg.Paths.APIBind)
	}
}

func TestAIConfiguredRejectsPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		key     string
		want    bool
	}{
		{name: "empty", enabled: true, key: "", want: false},
		{name: "placeholder", enabled: true, key: config.PlaceholderAPIKey, want: false},
		{name: "disabled", enabled: false, key: "sk-real", want: false},
		{name: "real", enabled: true, key: "sk-real", want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.AI.Enabled = tc.enabled
			cfg.AI.APIKey = tc.key
			if got := cfg.AIConfigured(); got != tc.want {
				t.Fatalf("AIConfigured() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), config.PlaceholderAPIKey) {
		t.Fatalf("sample config missing placeholder API key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "cliptag") {
		t.Fatalf("expected data dir to contain cliptag, got %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.UploadDir != "" || cfg.Paths.LogDir != "" {
		t.Fatalf("expected upload and log dirs left to derive, got %q %q", cfg.Paths.UploadDir, cfg.Paths.LogDir)
	}
	if cfg.Analysis.RandomKeyProbability != 0.5 {
		t.Fatalf("unexpected random key probability: %v", cfg.Analysis.RandomKeyProbability)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.AI.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative retries")
	}

	cfg = config.Default()
	cfg.Analysis.ExtraTagProbability = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for probability above one")
	}

	cfg = config.Default()
	cfg.Library.MaxUploadMiB = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero upload limit")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
