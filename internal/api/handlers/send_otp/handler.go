package send_otp

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnknownChannel     = "unknown channel, expected email or mobile"
	msgInvalidTarget      = "invalid email address or mobile number"
	msgRateLimited        = "please wait before requesting a new code"
)

type Handler struct {
	service OTPService
	logger  Logger
}

func NewHandler(service OTPService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/otp/{channel}/send
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	channel, err := domain.ParseChannel(mux.Vars(r)["channel"])
	if err != nil {
		h.logger.Warn("POST /otp/{channel}/send - %v", err)
		handlers.RespondBadRequest(w, msgUnknownChannel)
		return
	}

	var req SendOTPRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /otp/{channel}/send - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Send(r.Context(), channel, req.Target)
	if err != nil {
		var rateErr *otp.RateLimitError
		switch {
		case errors.As(err, &rateErr):
			h.logger.Warn("POST /otp/{channel}/send - Rate limited: channel=%s, retry_after=%ds", channel, rateErr.RetrySeconds())
			handlers.RespondRetryAfter(w, msgRateLimited, rateErr.RetrySeconds())

		case errors.Is(err, otp.ErrInvalidTarget):
			h.logger.Warn("POST /otp/{channel}/send - Invalid target: channel=%s", channel)
			handlers.RespondBadRequest(w, msgInvalidTarget)

		default:
			h.logger.Error("POST /otp/{channel}/send - Failed to send code: channel=%s, error=%v", channel, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Недоставленный код не ошибка: клиент видит delivered=false и может запросить повтор
	h.logger.Info("POST /otp/{channel}/send - Code issued: channel=%s, delivered=%t", channel, result.Delivered)
	handlers.RespondJSON(w, http.StatusOK, FromSendResult(result))
}
