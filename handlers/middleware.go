package handlers

import (
	"net/http"
	"time"

	"github.com/ferreirogomes/propfolio/logging"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"

// LoggerMiddleware coloca no contexto um logger com o trace_id da requisição
// e registra início e fim de cada requisição.
func LoggerMiddleware(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceIDHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}

			// Logger sem os campos HTTP para serviços e storage
			coreLogger := logger.WithFields(logging.Fields{"trace_id": traceID})
			httpLogger := coreLogger.WithFields(logging.Fields{
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ctx := logging.ContextWithLogger(r.Context(), coreLogger)
			ctx = logging.ContextWithTraceID(ctx, traceID)

			w.Header().Set(traceIDHeader, traceID)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			httpLogger.Debug("Requisição iniciada", nil)
			next.ServeHTTP(ww, r.WithContext(ctx))

			httpLogger.Info("Requisição finalizada", logging.Fields{
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(start).Milliseconds(),
			})
		})
	}
}
