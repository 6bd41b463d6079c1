package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	UploadDir string `toml:"upload_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
}

// AI contains connection settings for the OpenAI-compatible transcription and
// chat endpoints used by the AI analysis tier.
type AI struct {
	Enabled            bool   `toml:"enabled"`
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	TranscriptionModel string `toml:"transcription_model"`
	ChatModel          string `toml:"chat_model"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	MaxRetries         int    `toml:"max_retries"`
	MaxFileMiB         int    `toml:"max_file_mib"`
}

// Analysis contains knobs for the fallback pipeline.
type Analysis struct {
	// Seed pins the random source. Zero seeds from the clock.
	Seed int64 `toml:"seed"`
	// SimulateVariability enables the probabilistic tag/key injection of the
	// degraded tier.
	SimulateVariability          bool    `toml:"simulate_variability"`
	FilenameRandomKeyProbability float64 `toml:"filename_random_key_probability"`
	ExtraTagProbability          float64 `toml:"extra_tag_probability"`
	RandomKeyProbability         float64 `toml:"random_key_probability"`
	DefaultExtension             string  `toml:"default_extension"`
}

// Probe contains configuration for container metadata readers.
type Probe struct {
	UseFFprobe    bool   `toml:"use_ffprobe"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Library contains configuration for the clip library.
type Library struct {
	MaxUploadMiB    int  `toml:"max_upload_mib"`
	ValidateOnStart bool `toml:"validate_on_start"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cliptag.
//
// Configuration sections by subsystem:
//   - Paths: data, upload and log directories plus the API bind address
//   - AI: OpenAI-compatible service used by the AI tier
//   - Analysis: random source and fallback probabilities
//   - Probe: container metadata readers
//   - Library: upload limits and startup validation
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	AI       AI       `toml:"ai"`
	Analysis Analysis `toml:"analysis"`
	Probe    Probe    `toml:"probe"`
	Library  Library  `toml:"library"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cliptag/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cliptag.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, upload and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.UploadDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the clip database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "clips.db")
}

// LockPath returns the lock file guarding the upload directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "cliptag.lock")
}

// MaxFileBytes returns the AI tier file size ceiling in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.AI.MaxFileMiB) * 1024 * 1024
}

// MaxUploadBytes returns the per-file upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Library.MaxUploadMiB) * 1024 * 1024
}

// AIConfigured reports whether the AI tier has a usable credential.
// A missing key or the sample placeholder both count as unconfigured.
func (c *Config) AIConfigured() bool {
	if !c.AI.Enabled {
		return false
	}
	key := strings.TrimSpace(c.AI.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
