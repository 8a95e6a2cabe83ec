package get_invoice

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/service/bookings"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID     = "invalid booking ID"
	msgInvalidInvoiceNumber = "invalid invoice number"
	msgNotFound             = "booking not found"
	msgInvoiceUnavailable   = "invoice is not available for this booking"
)

type Handler struct {
	service InvoiceService
	logger  Logger
}

func NewHandler(service InvoiceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/invoice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.ParseIDParam(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/invoice - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	invoice, err := h.service.Invoice(r.Context(), bookingID)
	h.respond(w, "GET /bookings/{id}/invoice", invoice, err)
}

// HandleByNumber GET /api/v1/invoices/{invoiceNumber}
func (h *Handler) HandleByNumber(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.service.InvoiceByNumber(r.Context(), mux.Vars(r)["invoiceNumber"])
	h.respond(w, "GET /invoices/{number}", invoice, err)
}

func (h *Handler) respond(w http.ResponseWriter, route string, invoice *models.Invoice, err error) {
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found", route)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInvoiceNumber)

		case errors.Is(err, bookings.ErrInvoiceUnavailable):
			h.logger.Error("%s - Invoice unavailable: %v", route, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvoiceUnavailable)

		default:
			h.logger.Error("%s - Failed to render invoice: %v", route, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Invoice rendered: file=%s, size=%d", route, invoice.FileName, len(invoice.Content))
	handlers.RespondPDF(w, invoice.FileName, invoice.Content)
}
