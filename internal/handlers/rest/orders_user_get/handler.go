package orders_user_get

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
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

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		response.BadRequest(w, h.log, "invalid user id")
		return
	}

	filter, err := dto.OrderFilterFromQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, h.log, err.Error())
		return
	}

	orders, err := h.service.ListUserOrders(r.Context(), actor, userID, filter)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.FromOrders(orders, filter))
}
