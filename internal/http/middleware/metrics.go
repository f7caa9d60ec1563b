package middleware

import (
	"net/http"
	"time"

	"github.com/davidbz/tollgate/internal/observability"
)

const unmatchedRoute = "unmatched"

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Metrics records request counts and durations, labelled by the matched
// route pattern to keep label cardinality bounded.
func Metrics(httpMetrics *observability.HTTPMetrics) Middleware {
	return func(next http.Handler) http.Handler {
		if httpMetrics == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			// The mux sets r.Pattern on the request it was handed.
			path := r.Pattern
			if path == "" {
				path = unmatchedRoute
			}

			httpMetrics.RecordRequest(r.Method, path, recorder.statusCode, time.Since(start))
		})
	}
}
