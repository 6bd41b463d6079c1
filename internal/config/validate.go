package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAI(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAI() error {
	if c.AI.MaxRetries < 0 {
		return errors.New("ai.max_retries must not be negative")
	}
	if c.AI.TimeoutSeconds <= 0 {
		return errors.New("ai.timeout_seconds must be positive")
	}
	if c.AI.MaxFileMiB <= 0 {
		return errors.New("ai.max_file_mib must be positive")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	for name, value := range map[string]float64{
		"analysis.filename_random_key_probability": c.Analysis.FilenameRandomKeyProbability,
		"analysis.extra_tag_probability":           c.Analysis.ExtraTagProbability,
		"analysis.random_key_probability":          c.Analysis.RandomKeyProbability,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MaxUploadMiB <= 0 {
		return errors.New("library.max_upload_mib must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
