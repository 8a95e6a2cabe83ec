package pricing

import "errors"

var (
	// ErrPriceUnavailable возвращается, когда итоговая сумма <= 0 (ошибка конфигурации каталога)
	ErrPriceUnavailable = errors.New("pricing: price unavailable")

	// ErrVenueNotFound возвращается, когда площадка не найдена в каталоге
	ErrVenueNotFound = errors.New("pricing: venue not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("pricing: service not found")

	// ErrUnknownAddon возвращается, когда выбрана несуществующая у площадки доп. опция
	ErrUnknownAddon = errors.New("pricing: unknown addon")

	// ErrInvalidSelection возвращается при некорректном выборе времени
	ErrInvalidSelection = errors.New("pricing: invalid selection")

	// ErrCatalogUnavailable возвращается, когда каталог не отвечает
	ErrCatalogUnavailable = errors.New("pricing: catalog unavailable")
)
