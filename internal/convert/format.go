package convert

import (
	"fmt"
	"strings"
)

// Format identifies a supported output document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
	FormatCho  Format = "cho"
	FormatHTML Format = "html"
)

// DefaultFormat is used when a request omits output_format.
const DefaultFormat = FormatPDF

// Formats returns the supported formats in documentation order.
func Formats() []Format {
	return []Format{FormatPDF, FormatText, FormatCho, FormatHTML}
}

// ParseFormat maps a client-supplied format value to a Format. Unrecognized
// values are an error, never a silent fallback.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatText:
		return FormatText, nil
	case FormatCho:
		return FormatCho, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", value)
	}
}

// ContentType returns the response media type for documents in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html"
	default:
		return "text/plain"
	}
}

// Extension returns the output file extension (without dot).
func (f Format) Extension() string {
	return string(f)
}

// generateFlag returns the engine's format-selection flag. Exactly one is
// emitted per invocation.
func (f Format) generateFlag() string {
	switch f {
	case FormatPDF:
		return "--generate=PDF"
	case FormatText:
		return "--generate=Text"
	case FormatCho:
		return "--generate=ChordPro"
	case FormatHTML:
		return "--generate=HTML"
	default:
		return "--generate=PDF"
	}
}
