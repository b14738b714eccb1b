// Package diag defines the diagnostic model shared by the lexer, parser and
// analyzer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Hidden, Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – short human text.
//   - Category – coarse grouping used by SARIF and JSON output ("syntax", "style").
//   - Primary – the span the host highlights.
//   - Additional – extra locations in a fixed, diagnostic-specific order. For
//     unnecessary parentheses these are [expression, open paren, close paren].
//   - Properties – string key/value pairs; "Unnecessary" lists which
//     additional locations are faded, e.g. "[1,2]".
//   - Notes and Fixes.
//
// Fixes are data only. internal/fix validates and applies their edits;
// internal/diagfmt renders everything. Nothing here performs IO.
package diag
