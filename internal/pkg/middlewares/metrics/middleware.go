package metrics

import (
	"net/http"
	"strconv"
	"time"

	"shop/internal/pkg/middlewares/route"
	"shop/pkg/logger"
)

// Middleware пишет длительность и счётчик запросов по шаблону маршрута
// и логирует каждый запрос. Ответы 5xx логируются как Warn.
func Middleware(log handlerLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			status := strconv.Itoa(rw.statusCode)
			handlerPath := route.Template(r)

			HTTPRequestDuration.WithLabelValues(r.Method, handlerPath, status).Observe(duration.Seconds())
			HTTPRequestTotal.WithLabelValues(r.Method, handlerPath, status).Inc()

			fields := []logger.Field{
				logger.NewField("method", r.Method),
				logger.NewField("route", handlerPath),
				logger.NewField("status", rw.statusCode),
				logger.NewField("bytes", rw.written),
				logger.NewField("duration", duration.String()),
			}
			if rw.statusCode >= http.StatusInternalServerError {
				log.Warn("HTTP request failed", fields...)
				return
			}
			log.Info("HTTP request", fields...)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	written     int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// Unwrap нужен http.ResponseController, через него работает http.Redirect и Flush.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
