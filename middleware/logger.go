package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger}
}

type wrappedResponseWriter struct {
	http.ResponseWriter
	code int
}

func (wrw *wrappedResponseWriter) WriteHeader(code int) {
	wrw.code = code
	wrw.ResponseWriter.WriteHeader(code)
}

func (l *Logger) Handle(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthcheck" {
			next.ServeHTTP(w, r)
			return
		}
		wrw := &wrappedResponseWriter{
			ResponseWriter: w,
			code:           http.StatusOK,
		}
		t0 := time.Now()
		next.ServeHTTP(wrw, r)
		msg := fmt.Sprintf("%s %s %s", r.Method, r.RequestURI, r.Proto)
		if wrw.code < 400 {
			l.logger.InfoContext(r.Context(), msg, "remote_addr", r.RemoteAddr, "code", wrw.code, "took", time.Since(t0))
		} else if wrw.code < 500 {
			l.logger.WarnContext(r.Context(), msg, "remote_addr", r.RemoteAddr, "code", wrw.code, "took", time.Since(t0))
		} else {
			l.logger.ErrorContext(r.Context(), msg, "remote_addr", r.RemoteAddr, "code", wrw.code, "took", time.Since(t0))
		}
	}
}
