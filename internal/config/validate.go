package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"unparen/internal/parens"
)

// Validate checks every value that has a closed set of choices.
func (c *Config) Validate() error {
	for _, p := range []struct{ key, val string }{
		{"style.arithmetic", c.Style.Arithmetic},
		{"style.other_binary", c.Style.OtherBinary},
		{"style.patterns", c.Style.Patterns},
	} {
		if _, err := parens.ParsePolicy(p.val); err != nil {
			return fmt.Errorf("%s: %w", p.key, err)
		}
	}
	for _, g := range append(append([]string(nil), c.Files.Include...), c.Files.Exclude...) {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("files: invalid glob %q", g)
		}
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("run.jobs: must not be negative, got %d", c.Run.Jobs)
	}
	return nil
}

// Options converts the style and analysis sections into engine options.
func (c *Config) Options() (parens.Options, error) {
	var opts parens.Options
	var err error
	if opts.Arithmetic, err = parens.ParsePolicy(c.Style.Arithmetic); err != nil {
		return opts, fmt.Errorf("style.arithmetic: %w", err)
	}
	if opts.OtherBinary, err = parens.ParsePolicy(c.Style.OtherBinary); err != nil {
		return opts, fmt.Errorf("style.other_binary: %w", err)
	}
	if opts.Patterns, err = parens.ParsePolicy(c.Style.Patterns); err != nil {
		return opts, fmt.Errorf("style.patterns: %w", err)
	}
	opts.Ignore = c.Style.Ignore
	opts.CheckOverflow = c.Analysis.CheckOverflow
	return opts, nil
}

// CacheEnabled reports whether the result cache is on; it defaults to true.
func (c *Config) CacheEnabled() bool {
	return c.Run.Cache == nil || *c.Run.Cache
}
