package payment_notify_post

import (
	"net/http"

	"shop/internal/service/payment"
	"shop/pkg/logger"
)

// maxFormBytes уведомление провайдера занимает единицы килобайт.
const maxFormBytes = 64 << 10

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

// ServeHTTP всегда отвечает 200 с text/plain: провайдер смотрит только на тело
// и повторяет уведомление, пока не получит success.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	token := payment.NotifyFailure
	err := r.ParseForm()
	if err != nil {
		h.log.With(
			logger.NewField("remote_addr", r.RemoteAddr),
			logger.ErrorField(err),
		).Warn("payment notify: parse form")
	} else {
		token = h.service.HandleNotification(r.Context(), r.PostForm)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write([]byte(token))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("write notify response")
	}
}
