package payment_query_get

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

	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		response.BadRequest(w, h.log, "invalid order id")
		return
	}

	result, err := h.service.QueryPayment(r.Context(), actor, orderID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.PaymentQueryResponse{
		OrderID: result.OrderID,
		Status:  result.Status.String(),
		TradeNo: result.TradeNo,
	})
}
