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

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Alignment contains the forced-alignment policy.
type Alignment struct {
	// InterpolateMethod fills sentence timestamps that could not be aligned.
	// One of nearest, linear, previous, next, akima, pchip.
	InterpolateMethod string `toml:"interpolate_method"`
	// ReturnCharAlignments adds per-character timing to every sentence.
	ReturnCharAlignments bool `toml:"return_char_alignments"`
	// LanguagesWithoutSpaces lists ISO 639-1 codes aligned one word per character.
	LanguagesWithoutSpaces []string `toml:"languages_without_spaces"`
	// Abbreviations never terminate a sentence (matched lowercase, without the period).
	Abbreviations []string `toml:"abbreviations"`
	// BlankToken overrides blank detection; empty means "[pad]" or "<pad>".
	BlankToken string `toml:"blank_token"`
	// WordSeparator is the vocabulary symbol that stands in for a space.
	WordSeparator string `toml:"word_separator"`
	// Workers bounds how many segments are aligned in parallel.
	Workers int `toml:"workers"`
	// SampleRate converts sample offsets to seconds for SRT export; 0 means
	// segment offsets are already seconds.
	SampleRate int `toml:"sample_rate"`
}

// API contains configuration for the HTTP server.
type API struct {
	Bind         string `toml:"bind"`
	BodyLimitMiB int    `toml:"body_limit_mib"`
	// Token, when set, is required as "Authorization: Bearer <token>".
	Token string `toml:"token"`
}

// Store contains configuration for the run history database.
type Store struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for forcealign.
//
// Configuration sections by subsystem:
//   - Paths: state (run store) and log directories
//   - Alignment: interpolation, char detail, language and sentence policy
//   - API: HTTP bind address and request limits
//   - Store: run history persistence
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Alignment Alignment `toml:"alignment"`
	API       API       `toml:"api"`
	Store     Store     `toml:"store"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/forcealign/config.toml")
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
		decoder.DisallowUnknownFields()
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

	projectPath, err := filepath.Abs("forcealign.toml")
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

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the run history database.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.StateDir, "runs.db")
}

// IsSpaceless reports whether the ISO 639-1 code is configured for per-character words.
func (c *Config) IsSpaceless(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, code := range c.Alignment.LanguagesWithoutSpaces {
		if code == lang {
			return true
		}
	}
	return false
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
