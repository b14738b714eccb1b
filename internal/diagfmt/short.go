package diagfmt

import (
	"fmt"
	"io"

	"unparen/internal/diag"
	"unparen/internal/source"
)

// Short prints one line per diagnostic: path:line:col: severity code message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s %s\n",
			displayPath(fs, d.Primary.File, mode), start.Line, start.Col,
			SeverityName(d.Severity), d.Code.ID(), d.Message); err != nil {
			return err
		}
	}
	return nil
}

// SeverityName returns the lower-case severity used by short and SARIF output.
func SeverityName(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	case diag.SevInfo:
		return "info"
	default:
		return "hidden"
	}
}
