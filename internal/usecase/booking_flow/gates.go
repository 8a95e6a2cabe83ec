package booking_flow

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

var validate = validator.New()

// validateCustomer проверка шага customer_details
func validateCustomer(c CustomerDetails) error {
	verr := &ValidationError{}

	if c.Name == "" {
		verr.add("name", "name is required")
	} else if len(c.Name) > domain.MaxCustomerNameLen {
		verr.add("name", "name is too long")
	}

	if c.Email == "" {
		verr.add("email", "email is required")
	} else if err := validate.Var(c.Email, "email"); err != nil {
		verr.add("email", "email is not valid")
	}

	if c.Mobile == "" {
		verr.add("mobile", "mobile is required")
	} else if !domain.IsValidMobile(c.Mobile) {
		verr.add("mobile", "mobile must have exactly 10 digits")
	}

	if c.GuestCount <= 0 {
		verr.add("guestCount", "guest count must be positive")
	}

	return verr.orNil()
}

// validateSchedule проверка шага service_datetime (без цены)
func validateSchedule(s Schedule, now time.Time) error {
	verr := &ValidationError{}

	if s.VenueID <= 0 {
		verr.add("venueId", "venue is required")
	}
	if s.ServiceID == nil && s.EventType == "" {
		verr.add("service", "service is required")
	}

	switch {
	case s.Date.IsZero():
		verr.add("date", "date is required")
	case domain.IsDateInPast(s.Date, now):
		verr.add("date", "date cannot be in the past")
	}

	switch {
	case s.StartTime.IsZero() || s.EndTime.IsZero():
		verr.add("time", "time slot is required")
	case s.StartTime.Validate() != nil || s.EndTime.Validate() != nil:
		verr.add("time", "time must be in HH:MM format")
	case !s.StartTime.IsBefore(s.EndTime):
		verr.add("time", "start time must be before end time")
	}

	return verr.orNil()
}

// canQuote достаточно ли данных для предварительного расчета цены
func canQuote(s Schedule) bool {
	if s.VenueID <= 0 || (s.ServiceID == nil && s.EventType == "") {
		return false
	}
	if s.StartTime.Validate() != nil || s.EndTime.Validate() != nil {
		return false
	}
	return s.StartTime.IsBefore(s.EndTime)
}

// validatePayment проверка шага checkout
func validatePayment(option domain.PaymentOption, advancePercent int) error {
	verr := &ValidationError{}

	switch {
	case option == "":
		verr.add("paymentOption", "choose a payment option")
	case !option.Valid():
		verr.add("paymentOption", "unknown payment option")
	case option == domain.PaymentOptionWithPayment &&
		(advancePercent <= domain.MinAdvancePercent || advancePercent > domain.MaxAdvancePercent):
		verr.add("advancePercent", "advance percent must be between 1 and 100")
	}

	return verr.orNil()
}
