package middleware

import (
	"net/http"
	"time"

	"tracker/src/utils"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger attaches a request-scoped logrus entry to the context and
// logs one line per request once it completes.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := logger.WithFields(logrus.Fields{
				"requestId": chimiddleware.GetReqID(r.Context()),
				"method":    r.Method,
				"path":      r.URL.Path,
			})

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(utils.WithLogger(r.Context(), entry)))

			entry.WithFields(logrus.Fields{
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}
