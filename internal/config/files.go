package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether rel, a slash-separated path relative to Root, is
// selected by the include globs and not removed by the exclude globs.
func (c *Config) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	included := len(c.Files.Include) == 0
	for _, g := range c.Files.Include {
		if ok, _ := doublestar.Match(g, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, g := range c.Files.Exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return false
		}
	}
	return true
}

// Collect walks dir and returns the matching files in lexical order.
// Paths are matched relative to Root when dir is inside it, else to dir.
func (c *Config) Collect(dir string) ([]string, error) {
	base := c.Root
	if base == "" {
		base = dir
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", dir, err)
	}
	files := make([]string, 0, 16)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absBase, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel, err = filepath.Rel(dir, path)
			if err != nil {
				return err
			}
		}
		if d.IsDir() {
			// исключённые каталоги не обходим
			if rel != "." && c.excludedDir(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (c *Config) excludedDir(rel string) bool {
	for _, g := range c.Files.Exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, rel+"/"); ok {
			return true
		}
	}
	return false
}
