package convert

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransposeLimit bounds options.transpose in semitones (four octaves).
const TransposeLimit = 48

// Limits carries the request constraints configured at startup.
type Limits struct {
	MaxContentBytes int64
}

// ValidationError reports a request that failed validation. The reason is
// safe to return to clients verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// rawRequest stages the body fields so each can be type-checked with a
// specific reason instead of a generic decode error.
type rawRequest struct {
	Content      json.RawMessage `json:"content"`
	OutputFormat json.RawMessage `json:"output_format"`
	Options      json.RawMessage `json:"options"`
}

type rawOptions struct {
	Transpose json.RawMessage `json:"transpose"`
	Meta      json.RawMessage `json:"meta"`
	Diagrams  json.RawMessage `json:"diagrams"`
	Config    json.RawMessage `json:"config"`
}

// ParseRequest validates a raw JSON body against the configured limits and
// preset catalog and returns a normalized Request. Checks run in a fixed
// order and fail fast with a client-safe reason. The function performs no
// network or filesystem access.
func ParseRequest(body []byte, limits Limits, presets *PresetCatalog) (*Request, error) {
	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, validationf("request body must be a JSON object")
	}

	content, err := parseContent(raw.Content, limits)
	if err != nil {
		return nil, err
	}

	format := DefaultFormat
	if raw.OutputFormat != nil {
		var value string
		if err := json.Unmarshal(raw.OutputFormat, &value); err != nil {
			return nil, validationf("output_format must be a string")
		}
		format, err = ParseFormat(value)
		if err != nil {
			return nil, validationf("unsupported output_format %q (supported: pdf, text, cho, html)", value)
		}
	}

	options, err := parseOptions(raw.Options, presets)
	if err != nil {
		return nil, err
	}

	return &Request{Content: content, Format: format, Options: options}, nil
}

func parseContent(raw json.RawMessage, limits Limits) (string, error) {
	if raw == nil {
		return "", validationf("content is required")
	}
	var content string
	if err := json.Unmarshal(raw, &content); err != nil {
		return "", validationf("content must be a string")
	}
	if strings.TrimSpace(content) == "" {
		return "", validationf("content must not be empty")
	}
	if limits.MaxContentBytes > 0 && int64(len(content)) > limits.MaxContentBytes {
		return "", validationf("content exceeds the maximum size of %d bytes", limits.MaxContentBytes)
	}
	return content, nil
}

func parseOptions(raw json.RawMessage, presets *PresetCatalog) (Options, error) {
	options := Options{Diagrams: true}
	if raw == nil {
		return options, nil
	}

	var staged rawOptions
	if err := json.Unmarshal(raw, &staged); err != nil {
		return Options{}, validationf("options must be an object")
	}

	if staged.Transpose != nil {
		var semitones int
		if err := json.Unmarshal(staged.Transpose, &semitones); err != nil {
			return Options{}, validationf("options.transpose must be an integer")
		}
		if semitones < -TransposeLimit || semitones > TransposeLimit {
			return Options{}, validationf("options.transpose must be between -%d and %d", TransposeLimit, TransposeLimit)
		}
		options.Transpose = &semitones
	}

	if staged.Meta != nil {
		var meta map[string]string
		if err := json.Unmarshal(staged.Meta, &meta); err != nil {
			return Options{}, validationf("options.meta must be a flat object of string values")
		}
		options.Meta = meta
	}

	if staged.Diagrams != nil {
		var diagrams bool
		if err := json.Unmarshal(staged.Diagrams, &diagrams); err != nil {
			return Options{}, validationf("options.diagrams must be a boolean")
		}
		options.Diagrams = diagrams
	}

	if staged.Config != nil {
		names, err := parseConfigList(staged.Config)
		if err != nil {
			return Options{}, err
		}
		refs := make([]string, 0, len(names))
		for _, name := range names {
			ref, ok := presets.Resolve(name)
			if !ok {
				return Options{}, validationf("unknown config preset %q", name)
			}
			refs = append(refs, ref)
		}
		options.Configs = refs
	}

	return options, nil
}

// parseConfigList accepts both client shapes for options.config (a
// comma-separated string, or an array of strings) and normalizes them to the
// same ordered name sequence.
func parseConfigList(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return splitConfigNames(single), nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		names := make([]string, 0, len(many))
		for _, name := range many {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				names = append(names, trimmed)
			}
		}
		return names, nil
	}
	return nil, validationf("options.config must be a string or an array of strings")
}

func splitConfigNames(value string) []string {
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
