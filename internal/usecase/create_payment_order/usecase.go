package create_payment_order

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
)

// UseCase use case для создания заказа в платежном шлюзе
type UseCase struct {
	bookingRepo BookingRepository
	orderRepo   PaymentOrderRepository
	gateway     Gateway
	currency    string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orderRepo PaymentOrderRepository,
	gateway Gateway,
	currency string,
	logger Logger,
) *UseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		currency:    currency,
		logger:      logger,
	}
}

// Execute создает заказ на аванс (или указанную сумму) и сохраняет его.
// Бронирование при ошибке шлюза не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePaymentOrder: booking id=%d", req.BookingID)

	// 1. Проверяем существование бронирования
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreatePaymentOrder: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreatePaymentOrder: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.IsCancelled() {
		uc.logger.Warn("CreatePaymentOrder: booking id=%d is cancelled", booking.ID)
		return nil, ErrBookingNotPayable
	}

	// 2. Определяем и проверяем сумму. Пока аванс не оплачен, принимается только сумма аванса
	amount := resolveAmount(booking, req.Amount)
	if advance, due := advanceDue(booking); due && amount != advance {
		uc.logger.Warn("CreatePaymentOrder: amount %d for booking id=%d, advance %d is due first",
			amount, booking.ID, advance)
		return nil, fmt.Errorf("%w: amount %d, advance due %d", ErrInvalidAmount, amount, advance)
	}
	outstanding := booking.OutstandingAmount()
	if amount <= 0 || amount > outstanding {
		uc.logger.Warn("CreatePaymentOrder: invalid amount %d for booking id=%d (outstanding %d)",
			amount, booking.ID, outstanding)
		return nil, fmt.Errorf("%w: amount %d, outstanding %d", ErrInvalidAmount, amount, outstanding)
	}

	// 3. Создаем заказ в шлюзе
	amountMinor := domain.ToMinorUnits(amount)
	receipt := newReceipt(booking)
	notes := map[string]string{
		"booking_id":     strconv.FormatInt(booking.ID, 10),
		"invoice_number": booking.InvoiceNumber,
	}

	order, err := uc.gateway.CreateOrder(ctx, amountMinor, uc.currency, receipt, notes)
	if err != nil {
		uc.logger.Error("CreatePaymentOrder: gateway failed for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	// 4. Сохраняем заказ, чтобы при верификации связать его с бронированием
	saved, err := uc.orderRepo.Create(ctx, &domain.PaymentOrder{
		OrderID:     order.ID,
		BookingID:   booking.ID,
		Amount:      amount,
		AmountMinor: amountMinor,
		Currency:    uc.currency,
		Receipt:     receipt,
		Status:      domain.OrderCreated,
	})
	if err != nil {
		uc.logger.Error("CreatePaymentOrder: failed to save order %s: %v", order.ID, err)
		return nil, fmt.Errorf("%w: failed to save order: %v", ErrInternal, err)
	}

	uc.logger.Info("CreatePaymentOrder: order %s created for booking id=%d, amount=%d", saved.OrderID, booking.ID, amount)

	return &Response{
		OrderID:     saved.OrderID,
		BookingID:   booking.ID,
		Amount:      saved.Amount,
		AmountMinor: saved.AmountMinor,
		Currency:    saved.Currency,
		KeyID:       uc.gateway.KeyID(),
	}, nil
}

func resolveAmount(booking *domain.Booking, requested *int64) int64 {
	if requested != nil {
		return *requested
	}
	if advance, due := advanceDue(booking); due {
		return advance
	}
	return booking.OutstandingAmount()
}

// advanceDue сумма аванса, если бронирование с авансом еще ничего не оплатило
func advanceDue(booking *domain.Booking) (int64, bool) {
	if booking.AdvancePercent > 0 && booking.PaidAmount == 0 {
		return pricing.AdvanceAmount(booking.Pricing.TotalAmount, booking.AdvancePercent), true
	}
	return 0, false
}

// newReceipt уникальная квитанция на каждый заказ (шлюз ограничивает длину 40 символами)
func newReceipt(booking *domain.Booking) string {
	return booking.InvoiceNumber + "-" + uuid.NewString()[:8]
}
