package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDateRange возвращается, когда начало периода позже конца
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Request модели

// UpdateStatusRequest запрос администратора на изменение статусов.
// Поля независимы, можно передать одно из них или оба
type UpdateStatusRequest struct {
	UserID        int64   `json:"userId"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

// ToDomainUpdate конвертирует request в domain.StatusUpdate от имени администратора
func (r *UpdateStatusRequest) ToDomainUpdate() (domain.StatusUpdate, error) {
	update := domain.StatusUpdate{Actor: domain.ActorAdmin}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return update, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		update.Status = &status
	}

	if r.PaymentStatus != nil {
		paymentStatus, err := domain.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			return update, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		update.PaymentStatus = &paymentStatus
	}

	return update, nil
}

// ListBookingsRequest запрос списка бронирований для админки
type ListBookingsRequest struct {
	UserID        int64      `json:"userId"`
	Status        *string    `json:"status,omitempty"`        // Фильтр по статусу (опционально)
	PaymentStatus *string    `json:"paymentStatus,omitempty"` // Фильтр по статусу оплаты (опционально)
	VenueID       *int64     `json:"venueId,omitempty"`       // Фильтр по площадке (опционально)
	StartDate     *time.Time `json:"startDate,omitempty"`     // Начало периода (опционально)
	EndDate       *time.Time `json:"endDate,omitempty"`       // Конец периода (опционально)
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		VenueID:   r.VenueID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidDateRange
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		filter.Status = &status
	}

	if r.PaymentStatus != nil {
		paymentStatus, err := domain.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		filter.PaymentStatus = &paymentStatus
	}

	return filter, nil
}

// Response модели

// CustomerResponse данные клиента на момент бронирования
type CustomerResponse struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// PricingResponse слепок цены
type PricingResponse struct {
	BasePrice   int64 `json:"basePrice"`
	SlotPrice   int64 `json:"slotPrice"`
	AddonsTotal int64 `json:"addonsTotal"`
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	TotalAmount int64 `json:"totalAmount"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64            `json:"id"`
	InvoiceNumber string           `json:"invoiceNumber"`
	VenueID       int64            `json:"venueId"`
	ServiceID     *int64           `json:"serviceId,omitempty"`
	EventType     string           `json:"eventType"`
	UserID        *int64           `json:"userId,omitempty"`
	Customer      CustomerResponse `json:"customer"`
	BookingDate   string           `json:"bookingDate"` // "2026-10-15"
	StartTime     string           `json:"startTime"`   // "10:00"
	EndTime       string           `json:"endTime"`
	GuestCount    int              `json:"guestCount"`

	Pricing           PricingResponse `json:"pricing"`
	PaidAmount        int64           `json:"paidAmount"`
	OutstandingAmount int64           `json:"outstandingAmount"`
	AdvancePercent    int             `json:"advancePercent"`

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Invoice PDF счет
type Invoice struct {
	FileName string
	Content  []byte
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:            b.ID,
		InvoiceNumber: b.InvoiceNumber,
		VenueID:       b.VenueID,
		ServiceID:     b.ServiceID,
		EventType:     b.EventType,
		UserID:        b.UserID,
		Customer: CustomerResponse{
			Name:   b.Customer.Name,
			Email:  b.Customer.Email,
			Mobile: b.Customer.Mobile,
		},
		BookingDate: b.Date.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		GuestCount:  b.GuestCount,
		Pricing: PricingResponse{
			BasePrice:   b.Pricing.BasePrice,
			SlotPrice:   b.Pricing.SlotPrice,
			AddonsTotal: b.Pricing.AddonsTotal,
			Subtotal:    b.Pricing.Subtotal(),
			Tax:         b.Pricing.Tax,
			TotalAmount: b.Pricing.TotalAmount,
		},
		PaidAmount:        b.PaidAmount,
		OutstandingAmount: b.OutstandingAmount(),
		AdvancePercent:    b.AdvancePercent,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
