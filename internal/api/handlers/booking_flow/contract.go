package booking_flow

import (
	bookingFlow "github.com/m04kA/VenueBookingService/internal/usecase/booking_flow"
)

// FlowRegistry хранилище активных сценариев бронирования
type FlowRegistry interface {
	Create() *bookingFlow.Controller
	Get(id string) (*bookingFlow.Controller, error)
	Delete(id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
