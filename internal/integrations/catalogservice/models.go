package catalogservice

import (
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

// Venue модель площадки из каталога
type Venue struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Capacity      int              `json:"capacity"`
	BasePrice     *int64           `json:"base_price"`
	ServicePrices map[string]int64 `json:"service_prices"` // категория услуги -> цена
	PriceSlots    []PriceSlot      `json:"price_slots"`
	Addons        []Addon          `json:"addons"`
}

type PriceSlot struct {
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Price     int64  `json:"price"`
}

type Addon struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Service модель услуги из каталога
type Service struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

// ToDomain конвертирует площадку каталога в доменную модель
func (v *Venue) ToDomain() (*domain.Venue, error) {
	slots := make([]domain.PriceSlot, 0, len(v.PriceSlots))
	for _, s := range v.PriceSlots {
		start, err := types.NewTimeStringFromString(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("price slot %q start: %w", s.Label, err)
		}
		end, err := types.NewTimeStringFromString(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("price slot %q end: %w", s.Label, err)
		}
		slots = append(slots, domain.PriceSlot{Label: s.Label, Start: start, End: end, Price: s.Price})
	}

	addons := make([]domain.Addon, 0, len(v.Addons))
	for _, a := range v.Addons {
		addons = append(addons, domain.Addon{Code: a.Code, Name: a.Name, Price: a.Price})
	}

	return &domain.Venue{
		ID:            v.ID,
		Name:          v.Name,
		Capacity:      v.Capacity,
		BasePrice:     v.BasePrice,
		ServicePrices: v.ServicePrices,
		PriceSlots:    slots,
		Addons:        addons,
	}, nil
}

func (s *Service) ToDomain() *domain.Service {
	return &domain.Service{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Price:    s.Price,
	}
}
