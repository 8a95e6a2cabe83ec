package create_booking

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	VenueID   int64  `validate:"gt=0"`
	ServiceID *int64 `validate:"omitempty,gt=0"`
	EventType string `validate:"max=100"`
	UserID    *int64 // nil для гостевого бронирования

	CustomerName   string `validate:"required,max=200"`
	CustomerEmail  string `validate:"required,email"`
	CustomerMobile string `validate:"required"`

	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	GuestCount int `validate:"gt=0"`

	AddonCodes     []string `validate:"dive,required"`
	AdvancePercent int      `validate:"gte=0,lte=100"`

	ExpectedTotal  *int64  // цена, показанная клиенту (опционально)
	IdempotencyKey *string `validate:"omitempty,max=128"`
}

// Response созданное (или ранее созданное с тем же ключом) бронирование
type Response struct {
	Booking         *domain.Booking
	AdvanceAmount   int64
	CapacityWarning bool
	Replayed        bool // true, если вернули бронирование по повторному idempotency key
}
