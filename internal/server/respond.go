package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"chordserve/internal/convert"
	"chordserve/internal/logging"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeResult maps a conversion outcome onto the wire: document bytes for
// success, a JSON error with the kind-specific status otherwise.
func (s *Server) writeResult(w http.ResponseWriter, result convert.Result, format convert.Format) {
	if !result.OK {
		s.writeError(w, s.statusForFailure(result.Kind), result.Message)
		return
	}
	header := w.Header()
	header.Set("Content-Type", result.ContentType)
	header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "output."+format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Bytes); err != nil {
		s.logger.Error("failed to write document", logging.Error(err))
	}
}

func (s *Server) statusForFailure(kind convert.FailureKind) int {
	switch kind {
	case convert.FailureValidation:
		return http.StatusBadRequest
	case convert.FailureAuth:
		return http.StatusUnauthorized
	case convert.FailureTimeout:
		if s.cfg.Convert.TimeoutStatus == http.StatusInternalServerError {
			return http.StatusInternalServerError
		}
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
