package main

import (
	"context"

	"unparen/internal/driver"
)

// analyze runs the driver over the target of s, with the progress view
// when view allows it for the number of files selected.
func analyze(ctx context.Context, s *runSettings, view progressView, opts driver.Options) (*driver.Result, error) {
	if !s.isDir {
		return driver.AnalyzeFile(ctx, s.target, opts)
	}
	if view.mode == uiModeOff {
		return driver.AnalyzeDir(ctx, s.target, &s.cfg, opts)
	}
	files, err := s.cfg.Collect(s.target)
	if err != nil {
		return nil, err
	}
	if !view.enabled(len(files)) {
		return driver.AnalyzeFiles(ctx, s.target, files, opts)
	}
	return runAnalyzeWithUI(ctx, "unparen "+s.target, s.target, files, opts)
}
