package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAlignment()
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAlignment() {
	c.Alignment.InterpolateMethod = strings.ToLower(strings.TrimSpace(c.Alignment.InterpolateMethod))
	if c.Alignment.InterpolateMethod == "" {
		c.Alignment.InterpolateMethod = defaultInterpolateMethod
	}
	c.Alignment.LanguagesWithoutSpaces = normalizeList(c.Alignment.LanguagesWithoutSpaces)
	if c.Alignment.LanguagesWithoutSpaces == nil {
		c.Alignment.LanguagesWithoutSpaces = defaultLanguagesWithoutSpaces()
	}
	abbrevs := make([]string, 0, len(c.Alignment.Abbreviations))
	for _, abbrev := range c.Alignment.Abbreviations {
		abbrevs = append(abbrevs, strings.TrimSuffix(strings.TrimSpace(abbrev), "."))
	}
	c.Alignment.Abbreviations = normalizeList(abbrevs)
	c.Alignment.BlankToken = strings.ToLower(strings.TrimSpace(c.Alignment.BlankToken))
	if c.Alignment.WordSeparator == "" {
		c.Alignment.WordSeparator = defaultWordSeparator
	}
	if c.Alignment.Workers <= 0 {
		c.Alignment.Workers = defaultWorkers
	}
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	if c.API.BodyLimitMiB <= 0 {
		c.API.BodyLimitMiB = defaultAPIBodyLimitMiB
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("FORCEALIGN_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeList lowercases, trims, and de-duplicates entries. A nil input stays
// nil so callers can tell "unset" apart from "explicitly empty".
func normalizeList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
