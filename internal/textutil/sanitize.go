package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// absPathPattern matches absolute filesystem paths with at least one
// separator beyond the root, which is what engine diagnostics emit for
// temp files and configuration locations.
var absPathPattern = regexp.MustCompile(`/[A-Za-z0-9_.+-]+(?:/[A-Za-z0-9_.+-]+)+`)

// ScrubPaths removes local filesystem detail from engine output. Known paths
// are replaced with their stable labels first (for example the per-request
// input file becomes "<input>"), then any remaining absolute path is masked
// as "<path>".
func ScrubPaths(text string, known map[string]string) string {
	for path, label := range known {
		if strings.TrimSpace(path) == "" {
			continue
		}
		text = strings.ReplaceAll(text, path, label)
	}
	return absPathPattern.ReplaceAllString(text, "<path>")
}

// TruncateExcerpt trims surrounding whitespace and caps the text at max
// bytes without splitting a multi-byte rune. Truncated text ends with an
// ellipsis so readers know detail was dropped.
func TruncateExcerpt(text string, max int) string {
	text = strings.TrimSpace(text)
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := text[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimSpace(cut) + "..."
}
