package get_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidVenueID     = "venueId must be positive"
	msgInvalidTime        = "invalid time format, expected HH:MM"
	msgInvalidSelection   = "invalid selection: check service, time range and guest count"
	msgUnknownAddon       = "unknown add-on"
	msgVenueNotFound      = "venue not found"
	msgServiceNotFound    = "service not found"
	msgCatalogUnavailable = "venue catalog is temporarily unavailable"
)

type Handler struct {
	quoter Quoter
	logger Logger
}

func NewHandler(quoter Quoter, logger Logger) *Handler {
	return &Handler{
		quoter: quoter,
		logger: logger,
	}
}

// Handle POST /api/v1/quotes
// Нулевая цена не ошибка: в ответе priceAvailable=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.VenueID <= 0 {
		h.logger.Warn("POST /quotes - Invalid venue ID: %d", req.VenueID)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	quoteReq, err := req.ToQuoteRequest()
	if err != nil {
		h.logger.Warn("POST /quotes - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	quote, err := h.quoter.Quote(r.Context(), quoteReq)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidSelection):
			h.logger.Warn("POST /quotes - Invalid selection: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondBadRequest(w, msgInvalidSelection)

		case errors.Is(err, pricing.ErrUnknownAddon):
			h.logger.Warn("POST /quotes - Unknown addon: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondBadRequest(w, msgUnknownAddon)

		case errors.Is(err, pricing.ErrVenueNotFound):
			h.logger.Warn("POST /quotes - Venue not found: venue_id=%d", req.VenueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, pricing.ErrServiceNotFound):
			h.logger.Warn("POST /quotes - Service not found: venue_id=%d", req.VenueID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, pricing.ErrCatalogUnavailable):
			h.logger.Error("POST /quotes - Catalog unavailable: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		default:
			h.logger.Error("POST /quotes - Failed to quote: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotes - Quote calculated: venue_id=%d, total=%d", req.VenueID, quote.Total)
	handlers.RespondJSON(w, http.StatusOK, FromQuote(quote))
}
