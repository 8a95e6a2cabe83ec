package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned for a value outside the BookingStatus set
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrInvalidPaymentStatus is returned for a value outside the PaymentStatus set
	ErrInvalidPaymentStatus = errors.New("domain: invalid payment status")

	// ErrEmptyStatusUpdate is returned when an update changes nothing
	ErrEmptyStatusUpdate = errors.New("domain: status update has no fields")

	// ErrActorNotAllowed is returned when an actor may not change the requested field
	ErrActorNotAllowed = errors.New("domain: actor is not allowed to change this status")
)

// BookingStatus is the operational state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Valid reports membership in the closed status set
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ParseBookingStatus converts a raw string to BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// PaymentStatus is the financial state of a booking, orthogonal to BookingStatus
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports membership in the closed payment status set
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// ParsePaymentStatus converts a raw string to PaymentStatus
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
	}
	return status, nil
}

// PaymentStatusFor derives the payment status reached after a verified payment
func PaymentStatusFor(paidAmount, totalAmount int64) PaymentStatus {
	if paidAmount >= totalAmount {
		return PaymentPaid
	}
	if paidAmount > 0 {
		return PaymentPartial
	}
	return PaymentPending
}

// Actor identifies who mutates booking statuses
type Actor string

const (
	ActorAdmin   Actor = "admin"
	ActorGateway Actor = "payment_gateway"
)

// StatusUpdate is a request to change Status and/or PaymentStatus of a booking.
// Validate is the single place where the mutation rules are enforced:
// Status may be changed only by an administrator, PaymentStatus by an administrator
// or the payment gateway adapter.
type StatusUpdate struct {
	Actor         Actor
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
}

func (u StatusUpdate) Validate() error {
	if u.Status == nil && u.PaymentStatus == nil {
		return ErrEmptyStatusUpdate
	}

	if u.Status != nil {
		if !u.Status.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, *u.Status)
		}
		if u.Actor != ActorAdmin {
			return fmt.Errorf("%w: %s cannot change status", ErrActorNotAllowed, u.Actor)
		}
	}

	if u.PaymentStatus != nil {
		if !u.PaymentStatus.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, *u.PaymentStatus)
		}
		if u.Actor != ActorAdmin && u.Actor != ActorGateway {
			return fmt.Errorf("%w: %s cannot change payment status", ErrActorNotAllowed, u.Actor)
		}
	}

	return nil
}
