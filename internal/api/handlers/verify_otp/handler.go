package verify_otp

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
	msgInvalidCode        = "invalid or expired code"
	msgTooManyAttempts    = "too many failed attempts, request a new code"
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

// Handle POST /api/v1/otp/{channel}/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	channel, err := domain.ParseChannel(mux.Vars(r)["channel"])
	if err != nil {
		h.logger.Warn("POST /otp/{channel}/verify - %v", err)
		handlers.RespondBadRequest(w, msgUnknownChannel)
		return
	}

	var req VerifyOTPRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /otp/{channel}/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Verify(r.Context(), channel, req.Target, req.Code); err != nil {
		switch {
		case errors.Is(err, otp.ErrTooManyAttempts):
			h.logger.Warn("POST /otp/{channel}/verify - Too many attempts: channel=%s", channel)
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyAttempts)

		case errors.Is(err, otp.ErrInvalidCode):
			h.logger.Warn("POST /otp/{channel}/verify - Invalid code: channel=%s", channel)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidCode)

		case errors.Is(err, otp.ErrInvalidTarget):
			h.logger.Warn("POST /otp/{channel}/verify - Invalid target: channel=%s", channel)
			handlers.RespondBadRequest(w, msgInvalidTarget)

		default:
			h.logger.Error("POST /otp/{channel}/verify - Failed to verify code: channel=%s, error=%v", channel, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /otp/{channel}/verify - Code verified: channel=%s", channel)
	handlers.RespondJSON(w, http.StatusOK, &VerifyOTPResponse{Channel: string(channel), Verified: true})
}
