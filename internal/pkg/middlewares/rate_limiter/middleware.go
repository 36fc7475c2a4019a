package rate_limiter

import (
	"net/http"
	"strconv"

	"shop/internal/pkg/middlewares/route"
	"shop/pkg/logger"
)

const tooManyRequestsBody = `{"error":"too many requests"}`

// Middleware общий лимит на весь сервис. Маршруты из exempt не лимитируются:
// туда относятся пробы и уведомления платёжного провайдера, чей отказ
// откладывает перевод заказа в paid до следующей попытки провайдера.
func Middleware(log handlerLogger, limiter Limiter, exempt ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		skip[path] = struct{}{}
	}
	limit := strconv.Itoa(limiter.Limit())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerPath := route.Template(r)
			if _, ok := skip[handlerPath]; ok || limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			RateLimitExceededTotal.WithLabelValues(r.Method, handlerPath).Inc()
			log.Warn("rate limit exceeded",
				logger.NewField("method", r.Method),
				logger.NewField("route", handlerPath),
				logger.NewField("remote_addr", r.RemoteAddr),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			if _, err := w.Write([]byte(tooManyRequestsBody)); err != nil {
				log.Error("failed to write rate limit response",
					logger.ErrorField(err),
					logger.NewField("route", handlerPath),
				)
			}
		})
	}
}
