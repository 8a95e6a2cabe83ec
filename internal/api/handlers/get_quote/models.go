package get_quote

import (
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	VenueID    int64    `json:"venueId"`
	ServiceID  *int64   `json:"serviceId,omitempty"`
	EventType  string   `json:"eventType,omitempty"`
	StartTime  string   `json:"startTime"` // "10:00"
	EndTime    string   `json:"endTime"`
	GuestCount int      `json:"guestCount"`
	AddonCodes []string `json:"addonCodes,omitempty"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	VenueID         int64  `json:"venueId"`
	VenueName       string `json:"venueName"`
	Category        string `json:"category"`
	Capacity        int    `json:"capacity"`
	CapacityWarning bool   `json:"capacityWarning"`
	SlotLabel       string `json:"slotLabel,omitempty"`
	BasePrice       int64  `json:"basePrice"`
	SlotPrice       int64  `json:"slotPrice"`
	AddonsTotal     int64  `json:"addonsTotal"`
	Subtotal        int64  `json:"subtotal"`
	Tax             int64  `json:"tax"`
	TotalAmount     int64  `json:"totalAmount"`
	PriceAvailable  bool   `json:"priceAvailable"`
}

// ToQuoteRequest конвертирует HTTP запрос в запрос к калькулятору
func (r *QuoteRequest) ToQuoteRequest() (pricing.QuoteRequest, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return pricing.QuoteRequest{}, fmt.Errorf("start time: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return pricing.QuoteRequest{}, fmt.Errorf("end time: %w", err)
	}

	return pricing.QuoteRequest{
		VenueID:    r.VenueID,
		ServiceID:  r.ServiceID,
		EventType:  r.EventType,
		Start:      start,
		End:        end,
		GuestCount: r.GuestCount,
		AddonCodes: r.AddonCodes,
	}, nil
}

// FromQuote конвертирует расчет в HTTP response
func FromQuote(q *pricing.Quote) *QuoteResponse {
	return &QuoteResponse{
		VenueID:         q.VenueID,
		VenueName:       q.VenueName,
		Category:        q.Category,
		Capacity:        q.Capacity,
		CapacityWarning: q.CapacityWarning,
		SlotLabel:       q.SlotLabel,
		BasePrice:       q.BasePrice,
		SlotPrice:       q.SlotPrice,
		AddonsTotal:     q.AddonsTotal,
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		TotalAmount:     q.Total,
		PriceAvailable:  q.Validate() == nil,
	}
}
