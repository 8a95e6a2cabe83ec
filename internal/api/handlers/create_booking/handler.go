package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
)

// HeaderIdempotencyKey повторный запрос с тем же ключом вернет уже созданное бронирование
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid booking date format, expected YYYY-MM-DD"
	msgInvalidTime        = "invalid time format, expected HH:MM"
	msgInvalidInput       = "invalid booking details"
	msgDateInPast         = "booking date cannot be in the past"
	msgVenueNotFound      = "venue not found"
	msgServiceNotFound    = "service not found"
	msgPriceUnavailable   = "price is not available for the selected options"
	msgPriceChanged       = "price has changed, please review the updated total"
	msgCatalogUnavailable = "venue catalog is temporarily unavailable"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings (администратор, клиенты бронируют через /flows)
// Заголовок Idempotency-Key опционален
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(r.Header.Get(HeaderIdempotencyKey))
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in the past: venue_id=%d, date=%s", req.VenueID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrVenueNotFound):
			h.logger.Warn("POST /bookings - Venue not found: venue_id=%d", req.VenueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: venue_id=%d", req.VenueID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrPriceUnavailable):
			h.logger.Warn("POST /bookings - Price unavailable: venue_id=%d", req.VenueID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPriceUnavailable)

		case errors.Is(err, createBooking.ErrPriceChanged):
			h.logger.Warn("POST /bookings - Price changed: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondConflict(w, msgPriceChanged)

		case errors.Is(err, createBooking.ErrCatalogUnavailable):
			h.logger.Error("POST /bookings - Catalog unavailable: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	if result.Replayed {
		h.logger.Info("POST /bookings - Idempotent replay: booking_id=%d", result.Booking.ID)
		handlers.RespondJSON(w, http.StatusOK, response)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, invoice=%s, venue_id=%d",
		result.Booking.ID, result.Booking.InvoiceNumber, req.VenueID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
