package admin_order_status_patch

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"shop/internal/entities"
	"shop/internal/handlers/rest/dto"
	"shop/internal/handlers/rest/response"
	"shop/internal/pkg/middlewares/auth"
	"shop/pkg/logger"
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

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, h.log, "invalid order id")
		return
	}

	var statusDTO dto.OrderStatusUpdate
	err = json.NewDecoder(r.Body).Decode(&statusDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid request body")
		return
	}

	target, err := entities.ParseOrderStatus(statusDTO.Status)
	if err != nil {
		response.BadRequest(w, h.log, err.Error())
		return
	}

	updated, err := h.service.ChangeStatus(r.Context(), actor, id, target)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", updated.ID),
		logger.NewField("status", updated.Status.String()),
		logger.NewField("admin_id", actor.UserID),
	).Info("order status changed by admin")

	response.JSON(w, h.log, http.StatusOK, dto.FromOrder(updated))
}
