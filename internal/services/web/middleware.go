package web

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// EdgeRuntimeHeader marks responses rendered by this service.
const EdgeRuntimeHeader = "x-edge-runtime"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %s req=%s", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}

// edgeRuntime tags page responses. Static assets are left untouched.
func edgeRuntime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/static/") {
			w.Header().Set(EdgeRuntimeHeader, "1")
		}
		next.ServeHTTP(w, r)
	})
}
