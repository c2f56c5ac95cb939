package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover reemplaza a chi/middleware.Recoverer: el panic se loguea con
// nuestro logger (stack incluido) y el cliente recibe el 500 genérico.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]any{
					"panic":      fmt.Sprint(rec),
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": chimw.GetReqID(r.Context()),
					"stack":      string(debug.Stack()),
				})
				httpx.Message(w, http.StatusInternalServerError, "An internal server error occurred")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
