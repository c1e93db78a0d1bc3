package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"chordserve/internal/auth"
	"chordserve/internal/logging"
)

// securityHeaders stamps every response with the baseline browser-hardening
// headers before any handler runs.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-XSS-Protection", "1; mode=block")
		header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// withRequestID assigns each request a correlation ID, propagates it through
// the context for downstream log lines, and emits one access log entry per
// request.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r.WithContext(ctx))

		s.logger.Info("request handled",
			logging.String(logging.FieldRequestID, id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("elapsed", time.Since(start)))
	})
}

// requireKey admits a request only when the key header matches a configured
// key (or open mode is on). Rejections are logged without the presented key.
func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.keys.Authenticate(r.Header.Get(auth.Header)) {
			log := logging.WithContext(r.Context(), s.logger)
			log.Warn("rejected unauthenticated request",
				logging.String("remote", r.RemoteAddr),
				logging.String("path", r.URL.Path),
				logging.Bool("key_presented", r.Header.Get(auth.Header) != ""))
			s.writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
