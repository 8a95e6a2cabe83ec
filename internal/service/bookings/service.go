package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

// Service сервис администрирования бронирований
type Service struct {
	bookingRepo  BookingRepository
	invoices     InvoiceRenderer
	events       EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	invoices InvoiceRenderer,
	events EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		invoices:     invoices,
		events:       events,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с фильтрацией по статусу, статусу оплаты, площадке и периоду
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("List: fetching bookings for admin=%d", req.UserID)
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.PaymentStatus != nil {
		logMsg += fmt.Sprintf(", paymentStatus=%s", *req.PaymentStatus)
	}
	if req.VenueID != nil {
		logMsg += fmt.Sprintf(", venue=%d", *req.VenueID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет status и/или paymentStatus без проверки переходов.
// Ручная установка paid принимается независимо от paidAmount
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d status=%v paymentStatus=%v by admin=%d",
		bookingID, derefOrNil(req.Status), derefOrNil(req.PaymentStatus), req.UserID)

	if req.Status == nil && req.PaymentStatus == nil {
		return nil, fmt.Errorf("%w: status or paymentStatus is required", ErrInvalidInput)
	}

	// Валидируем и конвертируем статусы
	update, err := req.ToDomainUpdate()
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	booking, err := s.bookingRepo.UpdateStatuses(ctx, bookingID, update)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidPaymentStatus):
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		case errors.Is(err, domain.ErrEmptyStatusUpdate), errors.Is(err, domain.ErrActorNotAllowed):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if booking.PaymentStatus == domain.PaymentPaid && !booking.IsFullyPaid() {
		s.logger.Warn("UpdateStatus: booking id=%d marked paid manually with paid=%d of total=%d",
			booking.ID, booking.PaidAmount, booking.Pricing.TotalAmount)
	}

	s.logger.Info("UpdateStatus: booking id=%d now status=%s paymentStatus=%s",
		booking.ID, booking.Status, booking.PaymentStatus)
	s.events.BookingStatusChanged(ctx, booking, domain.ActorAdmin)

	return models.FromDomainBooking(booking), nil
}

// Invoice формирует PDF счет по ID бронирования
func (s *Service) Invoice(ctx context.Context, bookingID int64) (*models.Invoice, error) {
	s.logger.Info("Invoice: rendering invoice for booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, "Invoice", bookingID)
	if err != nil {
		return nil, err
	}

	return s.render(booking)
}

// InvoiceByNumber формирует PDF счет по номеру счета
func (s *Service) InvoiceByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	s.logger.Info("InvoiceByNumber: rendering invoice %s", invoiceNumber)

	if invoiceNumber == "" {
		return nil, fmt.Errorf("%w: invoice number is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("InvoiceByNumber: invoice %s not found", invoiceNumber)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("InvoiceByNumber: repository error for invoice %s: %v", invoiceNumber, err)
		return nil, fmt.Errorf("%w: InvoiceByNumber - repository error: %v", ErrInternal, err)
	}

	return s.render(booking)
}

func (s *Service) render(booking *domain.Booking) (*models.Invoice, error) {
	if booking.InvoiceNumber == "" {
		s.logger.Warn("Invoice: booking id=%d has no invoice number", booking.ID)
		return nil, ErrInvoiceUnavailable
	}

	content, err := s.invoices.Render(booking, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Invoice: failed to render invoice %s: %v", booking.InvoiceNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrInvoiceUnavailable, err)
	}

	s.logger.Info("Invoice: rendered %s (%d bytes)", booking.InvoiceNumber, len(content))
	return &models.Invoice{
		FileName: booking.InvoiceNumber + ".pdf",
		Content:  content,
	}, nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func derefOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
