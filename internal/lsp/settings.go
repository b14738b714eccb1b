package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"unparen/internal/config"
	"unparen/internal/parens"
)

type lspSettings struct {
	Unparen unparenSettings `json:"unparen"`
}

// unparenSettings is the "unparen" section of the client configuration.
// Set fields override the project configuration of every document.
type unparenSettings struct {
	Arithmetic    *string `json:"arithmetic,omitempty"`
	OtherBinary   *string `json:"otherBinary,omitempty"`
	Patterns      *string `json:"patterns,omitempty"`
	Ignore        *bool   `json:"ignore,omitempty"`
	CheckOverflow *bool   `json:"checkOverflow,omitempty"`
	Trace         *bool   `json:"trace,omitempty"`
}

// overlay applies the set fields of u on top of opts.
func (u unparenSettings) overlay(opts parens.Options) (parens.Options, error) {
	for _, p := range []struct {
		name  string
		value *string
		dst   *parens.Policy
	}{
		{"arithmetic", u.Arithmetic, &opts.Arithmetic},
		{"otherBinary", u.OtherBinary, &opts.OtherBinary},
		{"patterns", u.Patterns, &opts.Patterns},
	} {
		if p.value == nil {
			continue
		}
		policy, err := parens.ParsePolicy(*p.value)
		if err != nil {
			return opts, fmt.Errorf("unparen.%s: %w", p.name, err)
		}
		*p.dst = policy
	}
	if u.Ignore != nil {
		opts.Ignore = *u.Ignore
	}
	if u.CheckOverflow != nil {
		opts.CheckOverflow = *u.CheckOverflow
	}
	return opts, nil
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logf("invalid configuration: %v", err)
		return nil
	}
	if err := s.applySettings(params.Settings); err != nil {
		s.logf("%v", err)
		return nil
	}
	s.scheduleDiagnostics()
	return nil
}

// applySettings validates raw and replaces the client settings. Invalid
// settings leave the previous ones in place.
func (s *Server) applySettings(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return fmt.Errorf("invalid unparen settings: %w", err)
	}
	if _, err := settings.Unparen.overlay(parens.DefaultOptions()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Unparen
	// прежние результаты посчитаны с другим стилем
	clear(s.analyses)
	if settings.Unparen.Trace != nil {
		s.traceLSP = *settings.Unparen.Trace
	}
	return nil
}

// styleFor resolves the engine options of the document at path: the fixed
// style of the server or the nearest project configuration, then the client
// settings.
func (s *Server) styleFor(path string) (parens.Options, error) {
	s.mu.Lock()
	settings := s.settings
	fixed := s.fixedStyle
	s.mu.Unlock()

	base := parens.DefaultOptions()
	switch {
	case fixed != nil:
		base = *fixed
	default:
		var err error
		if base, err = s.projectStyle(filepath.Dir(path)); err != nil {
			return base, err
		}
	}
	return settings.overlay(base)
}

// projectStyle returns the configured options for documents in dir. Results
// are cached until a configuration file is saved.
func (s *Server) projectStyle(dir string) (parens.Options, error) {
	s.mu.Lock()
	opts, ok := s.styles[dir]
	s.mu.Unlock()
	if ok {
		return opts, nil
	}
	cfg, err := config.Discover(dir)
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		return parens.DefaultOptions(), err
	}
	if err := cfg.Validate(); err != nil {
		return parens.DefaultOptions(), err
	}
	if opts, err = cfg.Options(); err != nil {
		return parens.DefaultOptions(), err
	}
	s.mu.Lock()
	s.styles[dir] = opts
	s.mu.Unlock()
	return opts, nil
}

func isConfigFile(path string) bool {
	return slices.Contains(config.Names, filepath.Base(path))
}
