package verify_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/payment"
)

// UseCase use case для верификации платежа
type UseCase struct {
	bookingRepo BookingRepository
	orderRepo   PaymentOrderRepository
	verifier    SignatureVerifier
	txManager   TransactionManager
	events      EventPublisher
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orderRepo PaymentOrderRepository,
	verifier SignatureVerifier,
	txManager TransactionManager,
	events EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		orderRepo:   orderRepo,
		verifier:    verifier,
		txManager:   txManager,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute проверяет подпись и зачисляет сумму заказа на бронирование.
// Повторный вызов с тем же paymentID возвращает текущее бронирование без повторного зачисления
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VerifyPayment: booking id=%d, order=%s, payment=%s", req.BookingID, req.OrderID, req.PaymentID)

	// 1. Валидация входных данных
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	req.Signature = strings.TrimSpace(req.Signature)
	if req.BookingID <= 0 || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, ErrInvalidInput
	}

	// 2. Подпись проверяется до любых обращений к БД
	if !uc.verifier.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		uc.logger.Warn("VerifyPayment: invalid signature for order=%s payment=%s", req.OrderID, req.PaymentID)
		uc.metrics.PaymentVerified(resultFailed)
		return nil, fmt.Errorf("%w: invalid signature", ErrVerificationFailed)
	}

	// 3. В одной транзакции: блокируем заказ, зачисляем платеж
	resp := &Response{}
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		order, err := uc.orderRepo.GetByOrderID(txCtx, req.OrderID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrOrderNotFound) {
				return fmt.Errorf("%w: unknown order %s", ErrVerificationFailed, req.OrderID)
			}
			return fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
		}

		if order.BookingID != req.BookingID {
			return fmt.Errorf("%w: order %s belongs to booking %d", ErrVerificationFailed, order.OrderID, order.BookingID)
		}

		// Повторная верификация
		if order.PaymentID != nil {
			if *order.PaymentID != req.PaymentID {
				return fmt.Errorf("%w: order %s already paid by another payment", ErrVerificationFailed, order.OrderID)
			}
			booking, err := uc.bookingRepo.GetByID(txCtx, order.BookingID)
			if err != nil {
				return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
			}
			resp.Booking = booking
			resp.Replayed = true
			return nil
		}

		if err := uc.orderRepo.MarkPaid(txCtx, order.OrderID, req.PaymentID); err != nil {
			if errors.Is(err, paymentRepo.ErrAlreadyPaid) {
				return fmt.Errorf("%w: order %s already paid", ErrVerificationFailed, order.OrderID)
			}
			return fmt.Errorf("%w: failed to mark order paid: %v", ErrInternal, err)
		}

		booking, err := uc.bookingRepo.ApplyPayment(txCtx, order.BookingID, order.Amount)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: booking %d not found", ErrVerificationFailed, order.BookingID)
			}
			return fmt.Errorf("%w: failed to apply payment: %v", ErrInternal, err)
		}
		resp.Booking = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrVerificationFailed) {
			uc.logger.Warn("VerifyPayment: %v", err)
			uc.metrics.PaymentVerified(resultFailed)
			return nil, err
		}
		uc.logger.Error("VerifyPayment: %v", err)
		if !errors.Is(err, ErrInternal) {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	if resp.Replayed {
		uc.logger.Info("VerifyPayment: payment %s already applied to booking id=%d", req.PaymentID, resp.Booking.ID)
		uc.metrics.PaymentVerified(resultDuplicate)
		return resp, nil
	}

	uc.logger.Info("VerifyPayment: booking id=%d paid=%d/%d, payment status=%s",
		resp.Booking.ID, resp.Booking.PaidAmount, resp.Booking.Pricing.TotalAmount, resp.Booking.PaymentStatus)
	uc.metrics.PaymentVerified(resultSuccess)
	uc.events.PaymentVerified(ctx, resp.Booking, req.OrderID, req.PaymentID)

	return resp, nil
}
