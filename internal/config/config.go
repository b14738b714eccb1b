// Package config loads unparen.toml or .unparen.yaml and turns it into
// analysis options and file filters.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"unparen/internal/parens"
)

// ErrNotFound is returned when no configuration file exists on the way up.
var ErrNotFound = errors.New("no unparen configuration found")

// Names lists the file names Find looks for, in priority order.
var Names = []string{"unparen.toml", ".unparen.yaml", ".unparen.yml"}

// Config mirrors the configuration file.
type Config struct {
	// Path is the file the values came from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
	// Root is the directory include and exclude globs are relative to.
	Root string `toml:"-" yaml:"-"`

	Style    StyleConfig    `toml:"style" yaml:"style"`
	Analysis AnalysisConfig `toml:"analysis" yaml:"analysis"`
	Files    FilesConfig    `toml:"files" yaml:"files"`
	Run      RunConfig      `toml:"run" yaml:"run"`
}

// StyleConfig holds the clarity policies. Each is always, require or ignore.
type StyleConfig struct {
	Arithmetic  string `toml:"arithmetic" yaml:"arithmetic"`
	OtherBinary string `toml:"other_binary" yaml:"other_binary"`
	Patterns    string `toml:"patterns" yaml:"patterns"`
	Ignore      bool   `toml:"ignore" yaml:"ignore"`
}

type AnalysisConfig struct {
	CheckOverflow bool `toml:"check_overflow" yaml:"check_overflow"`
}

type FilesConfig struct {
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

type RunConfig struct {
	Jobs  int   `toml:"jobs" yaml:"jobs"`
	Cache *bool `toml:"cache" yaml:"cache"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	cache := true
	return Config{
		Style: StyleConfig{
			Arithmetic:  parens.PolicyRequire.String(),
			OtherBinary: parens.PolicyRequire.String(),
			Patterns:    parens.PolicyRequire.String(),
		},
		Files: FilesConfig{Include: []string{"**/*.cs"}},
		Run:   RunConfig{Jobs: runtime.GOMAXPROCS(0), Cache: &cache},
	}
}

// Find walks up from startDir and returns the first configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range Names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for startDir.
// It returns ErrNotFound together with Default() when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Default(), err
	}
	if !ok {
		cfg := Default()
		if abs, absErr := filepath.Abs(startDir); absErr == nil {
			cfg.Root = abs
		}
		return cfg, ErrNotFound
	}
	return Load(path)
}

// Load reads path on top of Default(). The format follows the extension.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
		}
	case ".yaml", ".yml":
		// #nosec G304 -- path is provided by the caller
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%s: unsupported configuration format", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
