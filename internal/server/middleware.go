package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"
)

// instrumentedWriter injects the attribution headers just before the first
// write, when the processing duration is known, and records the status code.
type instrumentedWriter struct {
	http.ResponseWriter
	instance    string
	start       time.Time
	status      int
	wroteHeader bool
}

func (w *instrumentedWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = status
		elapsed := time.Since(w.start)
		w.Header().Set("X-Instance", w.instance)
		w.Header().Set("X-Response-Time-ms", strconv.FormatInt(elapsed.Milliseconds(), 10))
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *instrumentedWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Instrument stamps every response with the serving instance and processing
// duration, and logs the request. Behind a load balancer these headers
// attribute behavior to a specific instance.
func (s *Server) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		iw := &instrumentedWriter{
			ResponseWriter: w,
			instance:       s.cfg.Instance,
			start:          time.Now(),
			status:         http.StatusOK,
		}

		next.ServeHTTP(iw, r)

		s.logger.Info("request completed",
			"instance", s.cfg.Instance,
			"method", r.Method,
			"path", r.URL.Path,
			"status", iw.status,
			"duration", time.Since(iw.start),
			"client", r.RemoteAddr,
		)
	})
}

// Recovery catches panics in downstream handlers, logs the stack trace, and
// returns a 500 instead of crashing the server.
func (s *Server) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered in HTTP handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
