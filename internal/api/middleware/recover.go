package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

type Logger interface {
	Error(format string, v ...interface{})
}

// Recover превращает панику обработчика в 500 вместо обрыва соединения
func Recover(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("%s %s - panic recovered: request_id=%s, panic=%v",
						r.Method, r.URL.Path, RequestIDFromContext(r.Context()), p)
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
