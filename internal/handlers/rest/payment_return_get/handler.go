package payment_return_get

import (
	"net/http"
)

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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := h.service.HandleReturn(r.Context(), r.URL.Query().Get("out_trade_no"))

	http.Redirect(w, r, target, http.StatusFound)
}
