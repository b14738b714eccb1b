package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevHidden diagnostics are never shown as squiggles; hosts fade their
	// locations and offer the attached fixes.
	SevHidden Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHidden:
		return "HIDDEN"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the lower-case names used in configuration files.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "hidden":
		return SevHidden, true
	case "info":
		return SevInfo, true
	case "warning":
		return SevWarning, true
	case "error":
		return SevError, true
	}
	return SevHidden, false
}
