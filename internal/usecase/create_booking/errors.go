package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: booking date is in the past")

	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("create_booking: venue not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrPriceUnavailable возвращается, когда итоговая цена <= 0
	ErrPriceUnavailable = errors.New("create_booking: price unavailable")

	// ErrPriceChanged возвращается, когда цена на сервере отличается от показанной клиенту
	ErrPriceChanged = errors.New("create_booking: price has changed")

	// ErrCatalogUnavailable возвращается, когда каталог площадок недоступен
	ErrCatalogUnavailable = errors.New("create_booking: catalog unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
