package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	quoter       Quoter
	events       EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	quoter Quoter,
	events EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		quoter:       quoter,
		events:       events,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает бронирование со статусами pending/pending и слепком цены.
// Цена считается на сервере. Повторный запрос с тем же idempotency key
// возвращает ранее созданное бронирование без нового INSERT
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: venue=%d, date=%s, time=%s-%s, guests=%d, advance=%d%%",
		req.VenueID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.GuestCount, req.AdvancePercent)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не раньше сегодняшнего дня (время суток не учитывается)
	now := uc.timeProvider.Now()
	if domain.IsDateInPast(req.Date, now) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Повтор по idempotency key
	if req.IdempotencyKey != nil {
		existing, err := uc.bookingRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
		if err == nil {
			uc.logger.Info("CreateBooking: idempotency key replay, returning booking id=%d", existing.ID)
			return uc.replay(existing), nil
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateBooking: failed to check idempotency key: %v", err)
			return nil, fmt.Errorf("%w: failed to check idempotency key: %v", ErrInternal, err)
		}
	}

	// 4. Расчет цены
	quote, err := uc.quoter.Quote(ctx, pricing.QuoteRequest{
		VenueID:    req.VenueID,
		ServiceID:  req.ServiceID,
		EventType:  req.EventType,
		Start:      req.StartTime,
		End:        req.EndTime,
		GuestCount: req.GuestCount,
		AddonCodes: req.AddonCodes,
	})
	if err != nil {
		return nil, uc.mapQuoteError(err)
	}

	if err := quote.Validate(); err != nil {
		uc.logger.Warn("CreateBooking: venue id=%d produced total %d", req.VenueID, quote.Total)
		return nil, ErrPriceUnavailable
	}

	// 5. Цена не должна отличаться от показанной клиенту
	if req.ExpectedTotal != nil && *req.ExpectedTotal != quote.Total {
		uc.logger.Warn("CreateBooking: price changed for venue id=%d: expected %d, actual %d",
			req.VenueID, *req.ExpectedTotal, quote.Total)
		return nil, fmt.Errorf("%w: expected %d, current total is %d", ErrPriceChanged, *req.ExpectedTotal, quote.Total)
	}

	// 6. Превышение вместимости только предупреждение
	if quote.CapacityWarning {
		uc.logger.Warn("CreateBooking: guest count %d exceeds capacity %d of venue id=%d",
			req.GuestCount, quote.Capacity, req.VenueID)
	}

	// 7. Создаем бронирование
	eventType := req.EventType
	if quote.Category != "" {
		eventType = quote.Category
	}

	booking := &domain.Booking{
		InvoiceNumber: domain.NewInvoiceNumber(now),
		VenueID:       req.VenueID,
		ServiceID:     req.ServiceID,
		EventType:     eventType,
		UserID:        req.UserID,
		Customer: domain.Customer{
			Name:   req.CustomerName,
			Email:  req.CustomerEmail,
			Mobile: req.CustomerMobile,
		},
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		GuestCount:     req.GuestCount,
		Pricing:        quote.Snapshot(),
		PaidAmount:     0,
		AdvancePercent: req.AdvancePercent,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentPending,
		IdempotencyKey: req.IdempotencyKey,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		// Параллельный запрос с тем же ключом успел раньше
		if errors.Is(err, bookingRepo.ErrDuplicateKey) && req.IdempotencyKey != nil {
			existing, getErr := uc.bookingRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
			if getErr == nil {
				uc.logger.Info("CreateBooking: concurrent idempotency key replay, booking id=%d", existing.ID)
				return uc.replay(existing), nil
			}
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d invoice=%s total=%d",
		created.ID, created.InvoiceNumber, created.Pricing.TotalAmount)

	option := domain.PaymentOptionWithoutPayment
	if created.AdvancePercent > 0 {
		option = domain.PaymentOptionWithPayment
	}
	uc.metrics.BookingCreated(string(option))
	uc.events.BookingCreated(ctx, created)

	return &Response{
		Booking:         created,
		AdvanceAmount:   pricing.AdvanceAmount(created.Pricing.TotalAmount, created.AdvancePercent),
		CapacityWarning: quote.CapacityWarning,
	}, nil
}

func (uc *UseCase) replay(existing *domain.Booking) *Response {
	return &Response{
		Booking:       existing,
		AdvanceAmount: pricing.AdvanceAmount(existing.Pricing.TotalAmount, existing.AdvancePercent),
		Replayed:      true,
	}
}

func (uc *UseCase) mapQuoteError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrVenueNotFound):
		return ErrVenueNotFound
	case errors.Is(err, pricing.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, pricing.ErrUnknownAddon), errors.Is(err, pricing.ErrInvalidSelection):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, pricing.ErrCatalogUnavailable):
		uc.logger.Error("CreateBooking: catalog unavailable: %v", err)
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	default:
		uc.logger.Error("CreateBooking: failed to quote: %v", err)
		return fmt.Errorf("%w: failed to quote: %v", ErrInternal, err)
	}
}
