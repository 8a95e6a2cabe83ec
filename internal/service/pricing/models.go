package pricing

import (
	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

// Selection выбор клиента, влияющий на цену
type Selection struct {
	Category   string // категория услуги, ключ в ServicePrices
	Start      types.TimeString
	End        types.TimeString
	AddonCodes []string
}

// Breakdown расчет стоимости
type Breakdown struct {
	BasePrice   int64
	SlotPrice   int64
	AddonsTotal int64
	Subtotal    int64
	Tax         int64
	Total       int64
	SlotLabel   string // пусто, если слот не найден
}

// Validate блокирует переход к оплате/созданию бронирования при нулевой цене
func (b Breakdown) Validate() error {
	if b.Total <= 0 {
		return ErrPriceUnavailable
	}
	return nil
}

// Snapshot возвращает слепок цены для сохранения в бронировании
func (b Breakdown) Snapshot() domain.PricingSnapshot {
	return domain.PricingSnapshot{
		BasePrice:   b.BasePrice,
		SlotPrice:   b.SlotPrice,
		AddonsTotal: b.AddonsTotal,
		Tax:         b.Tax,
		TotalAmount: b.Total,
	}
}

// QuoteRequest запрос расчета цены по данным каталога
type QuoteRequest struct {
	VenueID    int64
	ServiceID  *int64
	EventType  string // используется, если ServiceID не задан
	Start      types.TimeString
	End        types.TimeString
	GuestCount int
	AddonCodes []string
}

// Quote результат расчета
type Quote struct {
	Breakdown
	VenueID         int64
	VenueName       string
	Category        string
	Capacity        int
	CapacityWarning bool
}
