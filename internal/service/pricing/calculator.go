package pricing

import (
	"math"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

const basisPoints = 10000

// Config настройки калькулятора
type Config struct {
	TaxRate float64 // доля, например 0.18
}

// Calculator чистый расчет стоимости бронирования
type Calculator struct {
	taxBasisPoints int64
}

// NewCalculator создает калькулятор. Ставка хранится в базисных пунктах,
// чтобы налог считался в целых числах
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{
		taxBasisPoints: int64(math.Round(cfg.TaxRate * basisPoints)),
	}
}

// Calculate считает стоимость:
// base (по категории, иначе базовая цена площадки, иначе 0) + slot (первый подходящий слот, иначе 0)
// + addons, налог округляется до рубля половиной вверх
func (c *Calculator) Calculate(venue *domain.Venue, sel Selection) Breakdown {
	var b Breakdown

	b.BasePrice = resolveBasePrice(venue, sel.Category)
	if slot, ok := findSlot(venue.PriceSlots, sel); ok {
		b.SlotPrice = slot.Price
		b.SlotLabel = slot.Label
	}
	b.AddonsTotal = sumAddons(venue.Addons, sel.AddonCodes)

	b.Subtotal = b.BasePrice + b.SlotPrice + b.AddonsTotal
	b.Tax = c.Tax(b.Subtotal)
	b.Total = b.Subtotal + b.Tax

	return b
}

// Tax налог с суммы, округление half-up
func (c *Calculator) Tax(subtotal int64) int64 {
	return roundDiv(subtotal*c.taxBasisPoints, basisPoints)
}

// AdvanceAmount сумма предоплаты: round(total * percent / 100)
func AdvanceAmount(total int64, percent int) int64 {
	if percent <= 0 || total <= 0 {
		return 0
	}
	if percent >= 100 {
		return total
	}
	return roundDiv(total*int64(percent), 100)
}

func resolveBasePrice(venue *domain.Venue, category string) int64 {
	if price, ok := venue.ServicePrices[category]; ok && category != "" {
		return price
	}
	if venue.BasePrice != nil {
		return *venue.BasePrice
	}
	return 0
}

func findSlot(slots []domain.PriceSlot, sel Selection) (domain.PriceSlot, bool) {
	if sel.Start.IsZero() || sel.End.IsZero() {
		return domain.PriceSlot{}, false
	}
	for _, slot := range slots {
		if slot.Contains(sel.Start, sel.End) {
			return slot, true
		}
	}
	return domain.PriceSlot{}, false
}

func sumAddons(addons []domain.Addon, codes []string) int64 {
	if len(codes) == 0 {
		return 0
	}

	selected := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		selected[code] = struct{}{}
	}

	var total int64
	for _, addon := range addons {
		if _, ok := selected[addon.Code]; ok {
			total += addon.Price
		}
	}
	return total
}

// roundDiv делит с округлением половины от нуля
func roundDiv(num, den int64) int64 {
	if num < 0 {
		return -((-num + den/2) / den)
	}
	return (num + den/2) / den
}
