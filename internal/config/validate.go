package config

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// InterpolationMethods lists the accepted alignment.interpolate_method values.
var InterpolationMethods = []string{"nearest", "linear", "previous", "next", "akima", "pchip"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if !slices.Contains(InterpolationMethods, c.Alignment.InterpolateMethod) {
		return fmt.Errorf("alignment.interpolate_method %q is not supported (use one of %v)", c.Alignment.InterpolateMethod, InterpolationMethods)
	}
	if utf8.RuneCountInString(c.Alignment.WordSeparator) != 1 {
		return errors.New("alignment.word_separator must be exactly one character")
	}
	if c.Alignment.Workers <= 0 {
		return errors.New("alignment.workers must be positive")
	}
	if c.Alignment.SampleRate < 0 {
		return errors.New("alignment.sample_rate must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
