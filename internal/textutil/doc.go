// Package textutil provides text sanitization helpers for engine output.
//
// Conversion engine diagnostics may reference local filesystem paths and can
// be arbitrarily long. Before any engine text is surfaced to an HTTP client it
// is passed through ScrubPaths (known temp locations become stable labels,
// remaining absolute paths are masked) and TruncateExcerpt (bounded length on
// a rune boundary).
package textutil
