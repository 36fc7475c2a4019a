package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"shop/internal/handlers/rest/dto"
	"shop/internal/pkg/middlewares/auth"
	"shop/internal/service/order"
	"shop/internal/service/payment"
	"shop/pkg/logger"
)

const internalErrorMessage = "internal server error"

func JSON(w http.ResponseWriter, log handlerLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

// BadRequest для ошибок разбора запроса до вызова сервиса.
func BadRequest(w http.ResponseWriter, log handlerLogger, msg string) {
	JSON(w, log, http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func Unauthorized(w http.ResponseWriter, log handlerLogger) {
	JSON(w, log, http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
}

// Error переводит ошибку сервиса в статус. Текст 500 наружу не отдаётся.
func Error(w http.ResponseWriter, log handlerLogger, err error) {
	status := StatusOf(err)

	msg := err.Error()
	switch {
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		log.With(logger.ErrorField(err)).Error("request failed")
		msg = internalErrorMessage
	case status == http.StatusBadGateway:
		log.With(logger.ErrorField(err)).Warn("payment gateway failure")
	}

	JSON(w, log, status, dto.ErrorResponse{Error: msg})
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, order.ErrInvalidRequest),
		errors.Is(err, order.ErrInvalidOrderID),
		errors.Is(err, order.ErrInvalidUserID),
		errors.Is(err, order.ErrInvalidProductID),
		errors.Is(err, payment.ErrInvalidNotification):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, order.ErrOrderExpired),
		errors.Is(err, payment.ErrTradeNotClosable),
		errors.Is(err, payment.ErrAmountMismatch):
		return http.StatusConflict
	case errors.Is(err, payment.ErrGatewayUnavailable),
		errors.Is(err, payment.ErrRefundRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
