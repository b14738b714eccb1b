package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"unparen/internal/config"
	"unparen/internal/driver"
	"unparen/internal/observ"
	"unparen/internal/parens"
)

// addStyleFlags registers the flags that override the [style] and
// [analysis] sections of the configuration.
func addStyleFlags(cmd *cobra.Command) {
	cmd.Flags().String("arithmetic", "", "policy for + - * / % parents (always|require|ignore)")
	cmd.Flags().String("other-binary", "", "policy for the other binary parents (always|require|ignore)")
	cmd.Flags().String("patterns", "", "policy for or/and/not pattern parents (always|require|ignore)")
	cmd.Flags().Bool("ignore", false, "keep every parenthesis")
	cmd.Flags().Bool("check-overflow", false, "treat arithmetic as if it ran in a checked context")
}

// runSettings is everything a check or fix run needs.
type runSettings struct {
	target string
	isDir  bool
	cfg    config.Config
	opts   driver.Options
	quiet  bool
}

// loadSettings resolves the configuration for target and applies the
// command-line overrides on top of it.
func loadSettings(cmd *cobra.Command, target string) (*runSettings, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	s := &runSettings{target: target, isDir: info.IsDir()}

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		s.cfg, err = config.Load(configPath)
	} else {
		s.cfg, err = config.Discover(target)
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := applyStyleFlags(cmd, &s.cfg); err != nil {
		return nil, err
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configName(&s.cfg), err)
	}

	style, err := s.cfg.Options()
	if err != nil {
		return nil, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	s.opts = driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           s.cfg.Run.Jobs,
		Style:          style,
	}
	if showTimings {
		s.opts.Timer = observ.NewTimer()
	}
	if s.cfg.CacheEnabled() {
		cache, err := driver.OpenDiskCache("unparen")
		if err != nil {
			// без кэша работаем дальше, просто медленнее
			if !s.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: result cache disabled: %v\n", err)
			}
		} else {
			s.opts.Cache = cache
		}
	}
	return s, nil
}

// applyStyleFlags copies the explicitly set flags into cfg.
func applyStyleFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	for _, p := range []struct {
		flag string
		dst  *string
	}{
		{"arithmetic", &cfg.Style.Arithmetic},
		{"other-binary", &cfg.Style.OtherBinary},
		{"patterns", &cfg.Style.Patterns},
	} {
		if flags.Lookup(p.flag) == nil || !flags.Changed(p.flag) {
			continue
		}
		value, err := flags.GetString(p.flag)
		if err != nil {
			return err
		}
		if _, err := parens.ParsePolicy(value); err != nil {
			return fmt.Errorf("--%s: %w", p.flag, err)
		}
		*p.dst = value
	}
	for _, p := range []struct {
		flag string
		dst  *bool
	}{
		{"ignore", &cfg.Style.Ignore},
		{"check-overflow", &cfg.Analysis.CheckOverflow},
	} {
		if flags.Lookup(p.flag) == nil || !flags.Changed(p.flag) {
			continue
		}
		value, err := flags.GetBool(p.flag)
		if err != nil {
			return err
		}
		*p.dst = value
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return err
		}
		cfg.Run.Jobs = jobs
	}
	if flags.Lookup("no-cache") != nil && flags.Changed("no-cache") {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return err
		}
		enabled := !noCache
		cfg.Run.Cache = &enabled
	}
	return nil
}

func configName(cfg *config.Config) string {
	if cfg.Path == "" {
		return "configuration"
	}
	return cfg.Path
}

// baseDir is the directory paths of the run are shown relative to.
func (s *runSettings) baseDir() string {
	if s.isDir {
		return s.target
	}
	return filepath.Dir(s.target)
}
