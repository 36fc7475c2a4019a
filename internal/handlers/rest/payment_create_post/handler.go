package payment_create_post

import (
	"encoding/json"
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

	var paymentDTO dto.PaymentRequest
	err := json.NewDecoder(r.Body).Decode(&paymentDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid request body")
		return
	}

	intent, err := h.service.CreatePayment(r.Context(), actor, paymentDTO.OrderID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.PaymentCreateResponse{
		OrderID: intent.OrderID,
		PayURL:  intent.PayURL,
	})
}
