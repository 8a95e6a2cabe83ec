package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/integrations/catalogservice"
)

// Quoter получает данные площадки из каталога и считает стоимость на сервере
type Quoter struct {
	catalog    CatalogClient
	calculator *Calculator
	logger     Logger
}

// NewQuoter создает новый экземпляр Quoter
func NewQuoter(catalog CatalogClient, calculator *Calculator, logger Logger) *Quoter {
	return &Quoter{
		catalog:    catalog,
		calculator: calculator,
		logger:     logger,
	}
}

// Quote считает стоимость. Превышение вместимости дает только предупреждение
func (q *Quoter) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.VenueID <= 0 {
		return nil, fmt.Errorf("%w: venueID must be positive", ErrInvalidSelection)
	}
	if err := validateTimes(req); err != nil {
		return nil, err
	}

	venue, err := q.catalog.GetVenue(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		q.logger.Error("Quote: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	category := req.EventType
	if req.ServiceID != nil {
		service, err := q.catalog.GetService(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogservice.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			q.logger.Error("Quote: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		category = service.Category
	}

	if err := checkAddons(venue, req.AddonCodes); err != nil {
		return nil, err
	}

	breakdown := q.calculator.Calculate(venue, Selection{
		Category:   category,
		Start:      req.Start,
		End:        req.End,
		AddonCodes: req.AddonCodes,
	})

	quote := &Quote{
		Breakdown:       breakdown,
		VenueID:         venue.ID,
		VenueName:       venue.Name,
		Category:        category,
		Capacity:        venue.Capacity,
		CapacityWarning: venue.ExceedsCapacity(req.GuestCount),
	}

	if quote.CapacityWarning {
		q.logger.Warn("Quote: venue id=%d guest count %d exceeds capacity %d", venue.ID, req.GuestCount, venue.Capacity)
	}

	return quote, nil
}

func validateTimes(req QuoteRequest) error {
	if err := req.Start.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidSelection, err)
	}
	if err := req.End.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidSelection, err)
	}
	if !req.Start.IsBefore(req.End) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidSelection)
	}
	return nil
}

func checkAddons(venue *domain.Venue, codes []string) error {
	for _, code := range codes {
		found := false
		for _, addon := range venue.Addons {
			if addon.Code == code {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownAddon, code)
		}
	}
	return nil
}
