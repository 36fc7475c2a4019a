package admin_orders_get

import (
	"net/http"

	"shop/internal/handlers/rest/dto"
	"shop/internal/handlers/rest/response"
	"shop/internal/pkg/middlewares/auth"
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
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, h.log)
		return
	}

	filter, err := dto.OrderFilterFromQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, h.log, err.Error())
		return
	}

	orders, err := h.service.ListOrders(r.Context(), actor, filter)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.FromOrders(orders, filter))
}
