package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid booking date")
	errInvalidTime = errors.New("invalid time")
)

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UserID         *int64          `json:"userId,omitempty"` // аккаунт клиента, если есть
	VenueID        int64           `json:"venueId"`
	ServiceID      *int64          `json:"serviceId,omitempty"`
	EventType      string          `json:"eventType,omitempty"`
	Customer       CustomerRequest `json:"customer"`
	BookingDate    string          `json:"bookingDate"` // "2026-10-15"
	StartTime      string          `json:"startTime"`   // "10:00"
	EndTime        string          `json:"endTime"`
	GuestCount     int             `json:"guestCount"`
	AddonCodes     []string        `json:"addonCodes,omitempty"`
	AdvancePercent int             `json:"advancePercent"`
	ExpectedTotal  *int64          `json:"expectedTotal,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	models.BookingResponse
	AdvanceAmount   int64 `json:"advanceAmount"`
	CapacityWarning bool  `json:"capacityWarning"`
	Replayed        bool  `json:"replayed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(idempotencyKey string) (*createBooking.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", errInvalidTime, err)
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", errInvalidTime, err)
	}

	req := &createBooking.Request{
		VenueID:        r.VenueID,
		ServiceID:      r.ServiceID,
		EventType:      r.EventType,
		UserID:         r.UserID,
		CustomerName:   r.Customer.Name,
		CustomerEmail:  r.Customer.Email,
		CustomerMobile: r.Customer.Mobile,
		Date:           bookingDate,
		StartTime:      startTime,
		EndTime:        endTime,
		GuestCount:     r.GuestCount,
		AddonCodes:     r.AddonCodes,
		AdvancePercent: r.AdvancePercent,
		ExpectedTotal:  r.ExpectedTotal,
	}

	if key := strings.TrimSpace(idempotencyKey); key != "" {
		req.IdempotencyKey = &key
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingResponse: *models.FromDomainBooking(resp.Booking),
		AdvanceAmount:   resp.AdvanceAmount,
		CapacityWarning: resp.CapacityWarning,
		Replayed:        resp.Replayed,
	}
}
