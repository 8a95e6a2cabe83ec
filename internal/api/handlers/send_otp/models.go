package send_otp

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/service/otp"
)

// SendOTPRequest HTTP request model
type SendOTPRequest struct {
	Target string `json:"target"` // email или номер телефона
}

// SendOTPResponse HTTP response model
type SendOTPResponse struct {
	Channel         string `json:"channel"`
	Target          string `json:"target"`
	Delivered       bool   `json:"delivered"`
	CooldownSeconds int    `json:"cooldownSeconds"`
	ExpiresAt       string `json:"expiresAt"`
	DevCode         string `json:"devCode,omitempty"`
}

// FromSendResult конвертирует результат сервиса в HTTP response
func FromSendResult(res *otp.SendResult) *SendOTPResponse {
	return &SendOTPResponse{
		Channel:         string(res.Channel),
		Target:          res.Target,
		Delivered:       res.Delivered,
		CooldownSeconds: res.CooldownSeconds,
		ExpiresAt:       res.ExpiresAt.Format(time.RFC3339),
		DevCode:         res.DevCode,
	}
}
