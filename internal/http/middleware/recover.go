package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/tollgate/internal/observability"
)

// Recover turns handler panics into a JSON 500 response.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				err, ok := recovered.(error)
				if !ok {
					err = fmt.Errorf("%v", recovered)
				}
				if errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				observability.FromContext(r.Context()).Error("unhandled panic",
					observability.Error(err),
					observability.String("method", r.Method),
					observability.String("path", r.URL.Path))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "Internal Server Error",
					"message": err.Error(),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
