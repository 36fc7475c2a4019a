package order_post

import (
	"encoding/json"
	"net/http"

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

	var orderCreateDTO dto.OrderCreate
	err := json.NewDecoder(r.Body).Decode(&orderCreateDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid request body")
		return
	}

	created, err := h.service.CreateOrder(r.Context(), actor, orderCreateDTO.ToEntity())
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", created.ID),
		logger.NewField("user_id", actor.UserID),
	).Info("order created")

	response.JSON(w, h.log, http.StatusCreated, dto.FromOrder(created))
}
