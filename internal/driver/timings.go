package driver

import (
	"encoding/json"
	"io"

	"unparen/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
	Stats   *Stats               `json:"stats,omitempty"`
}

// WriteTimings writes the timer report of a run as one JSON object.
func WriteTimings(w io.Writer, kind, path string, timer *observ.Timer, stats *Stats) error {
	if kind == "" {
		kind = "pipeline"
	}
	report := timer.Report()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(timingPayload{
		Kind:    kind,
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
		Stats:   stats,
	})
}
