package domain

import (
	"time"

	"github.com/m04kA/VenueBookingService/pkg/types"
)

// Customer is the identity captured inline at booking time.
// Mobile is stored normalized to exactly 10 digits.
type Customer struct {
	Name   string
	Email  string
	Mobile string
}

// PricingSnapshot is the price breakdown captured once when a booking is created.
// It is authoritative and never recomputed from the venue afterwards.
type PricingSnapshot struct {
	BasePrice   int64
	SlotPrice   int64
	AddonsTotal int64
	Tax         int64
	TotalAmount int64
}

// Subtotal returns the pre-tax amount of the snapshot
func (p PricingSnapshot) Subtotal() int64 {
	return p.BasePrice + p.SlotPrice + p.AddonsTotal
}

// Booking represents a reservation of a venue for a date and time range
type Booking struct {
	ID            int64
	InvoiceNumber string

	VenueID   int64
	ServiceID *int64
	EventType string // category of the selected service
	UserID    *int64 // nil for guest bookings
	Customer  Customer

	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	GuestCount int

	Pricing        PricingSnapshot
	PaidAmount     int64
	AdvancePercent int

	Status        BookingStatus
	PaymentStatus PaymentStatus

	IdempotencyKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OutstandingAmount returns what is still to be paid
func (b *Booking) OutstandingAmount() int64 {
	if b.PaidAmount >= b.Pricing.TotalAmount {
		return 0
	}
	return b.Pricing.TotalAmount - b.PaidAmount
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsFullyPaid returns true if the paid amount covers the total
func (b *Booking) IsFullyPaid() bool {
	return b.PaidAmount >= b.Pricing.TotalAmount
}

// BookingsFilter фильтр для списка бронирований в админке
type BookingsFilter struct {
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	VenueID       *int64
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
	Offset        int
}
