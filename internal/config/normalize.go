package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAI()
	c.normalizeAnalysis()
	c.normalizeProbe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.UploadDir) == "" {
		c.Paths.UploadDir = filepath.Join(c.Paths.DataDir, "uploads")
	}
	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if value, ok := os.LookupEnv("CLIPTAG_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = value
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAI() {
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	if c.AI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.AI.APIKey = strings.TrimSpace(value)
		}
	}
	c.AI.BaseURL = strings.TrimSpace(c.AI.BaseURL)
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = defaultAIBaseURL
	}
	c.AI.TranscriptionModel = strings.TrimSpace(c.AI.TranscriptionModel)
	if c.AI.TranscriptionModel == "" {
		c.AI.TranscriptionModel = defaultTranscriptionModel
	}
	c.AI.ChatModel = strings.TrimSpace(c.AI.ChatModel)
	if c.AI.ChatModel == "" {
		c.AI.ChatModel = defaultChatModel
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeoutSeconds
	}
	if c.AI.MaxFileMiB <= 0 {
		c.AI.MaxFileMiB = defaultAIMaxFileMiB
	}
}

func (c *Config) normalizeAnalysis() {
	ext := strings.ToLower(strings.TrimSpace(c.Analysis.DefaultExtension))
	if ext == "" {
		ext = defaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Analysis.DefaultExtension = ext
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
