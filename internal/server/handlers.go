package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"chordserve/internal/auth"
	"chordserve/internal/convert"
	"chordserve/internal/deps"
	"chordserve/internal/logging"
)

// bodyOverheadBytes is the JSON envelope allowance on top of the configured
// content limit when bounding the request body reader.
const bodyOverheadBytes = 64 << 10

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": "chordserve",
		"endpoints": map[string]string{
			"GET /health":   "service and engine availability",
			"GET /formats":  "supported output formats",
			"GET /options":  "conversion options and configuration presets",
			"POST /convert": "convert a chord sheet (requires " + auth.Header + ")",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	statuses := deps.CheckBinaries([]deps.Requirement{deps.Engine(s.cfg.Convert.Engine)})
	engine := statuses[0]

	status := "healthy"
	httpStatus := http.StatusOK
	if !engine.Available {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	s.writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"engine": map[string]any{
			"command":   engine.Command,
			"available": engine.Available,
			"detail":    engine.Detail,
		},
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	formats := convert.Formats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"supported_formats": names,
		"default_format":    string(convert.DefaultFormat),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"options": map[string]any{
			"transpose": map[string]any{
				"type":    "integer",
				"minimum": -convert.TransposeLimit,
				"maximum": convert.TransposeLimit,
			},
			"meta": map[string]any{
				"type":        "object",
				"description": "string-valued metadata directives applied to the sheet",
			},
			"diagrams": map[string]any{
				"type":    "boolean",
				"default": true,
			},
			"config": map[string]any{
				"type":    "string or array of strings",
				"presets": s.presets.Names(),
			},
		},
		"max_content_bytes": s.cfg.Convert.MaxContentBytes,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	maxBody := s.cfg.Convert.MaxContentBytes + bodyOverheadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeResult(w, convert.Failure(convert.FailureValidation,
				fmt.Sprintf("request body exceeds the maximum size of %d bytes", maxBody)),
				convert.DefaultFormat)
			return
		}
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := convert.ParseRequest(body, convert.Limits{
		MaxContentBytes: s.cfg.Convert.MaxContentBytes,
	}, s.presets)
	if err != nil {
		var vErr *convert.ValidationError
		if errors.As(err, &vErr) {
			log := logging.WithContext(r.Context(), s.logger)
			log.Info("rejected invalid request", logging.String("reason", vErr.Reason))
			s.writeResult(w, convert.Failure(convert.FailureValidation, vErr.Reason),
				convert.DefaultFormat)
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.converter.Run(r.Context(), req)
	s.writeResult(w, result, req.Format)
}
