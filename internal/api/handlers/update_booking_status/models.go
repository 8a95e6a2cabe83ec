package update_booking_status

import (
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model. Можно передать одно поле или оба
type UpdateStatusRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(adminID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID:        adminID,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
	}
}
