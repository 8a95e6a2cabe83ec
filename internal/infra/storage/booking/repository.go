package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/VenueBookingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"invoice_number",
	"venue_id",
	"service_id",
	"event_type",
	"user_id",
	"customer_name",
	"customer_email",
	"customer_mobile",
	"booking_date",
	"start_time",
	"end_time",
	"guest_count",
	"base_price",
	"slot_price",
	"addons_total",
	"tax",
	"total_amount",
	"paid_amount",
	"advance_percent",
	"status",
	"payment_status",
	"idempotency_key",
	"created_at",
	"updated_at",
}

func returningAll() string {
	return "RETURNING " + strings.Join(bookingColumns, ", ")
}

// Repository репозиторий для работы с бронированиями.
// Бронирования не удаляются: отмена это значение статуса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование вместе со слепком цены.
// Повтор idempotency key или номера счета возвращает ErrDuplicateKey
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"invoice_number",
			"venue_id",
			"service_id",
			"event_type",
			"user_id",
			"customer_name",
			"customer_email",
			"customer_mobile",
			"booking_date",
			"start_time",
			"end_time",
			"guest_count",
			"base_price",
			"slot_price",
			"addons_total",
			"tax",
			"total_amount",
			"paid_amount",
			"advance_percent",
			"status",
			"payment_status",
			"idempotency_key",
		).
		Values(
			booking.InvoiceNumber,
			booking.VenueID,
			booking.ServiceID,
			booking.EventType,
			booking.UserID,
			booking.Customer.Name,
			booking.Customer.Email,
			booking.Customer.Mobile,
			booking.Date,
			booking.StartTime,
			booking.EndTime,
			booking.GuestCount,
			booking.Pricing.BasePrice,
			booking.Pricing.SlotPrice,
			booking.Pricing.AddonsTotal,
			booking.Pricing.Tax,
			booking.Pricing.TotalAmount,
			booking.PaidAmount,
			booking.AdvancePercent,
			booking.Status,
			booking.PaymentStatus,
			booking.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrDuplicateKey, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByInvoiceNumber получает бронирование по номеру счета
func (r *Repository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByInvoiceNumber", squirrel.Eq{"invoice_number": invoiceNumber})
}

// GetByIdempotencyKey получает бронирование, созданное с указанным ключом
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByIdempotencyKey", squirrel.Eq{"idempotency_key": key})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// List получает бронирования для админки с фильтрацией:
// по статусу, статусу оплаты, площадке и периоду. Сначала новые
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.PaymentStatus != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.VenueID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"venue_id": *filter.VenueID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	selectBuilder = selectBuilder.OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatuses меняет status и/или payment_status одним UPDATE.
// Права актора проверяются в domain.StatusUpdate.Validate
func (r *Repository) UpdateStatuses(ctx context.Context, id int64, update domain.StatusUpdate) (*domain.Booking, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningAll())

	if update.Status != nil {
		updateBuilder = updateBuilder.Set("status", *update.Status)
	}
	if update.PaymentStatus != nil {
		updateBuilder = updateBuilder.Set("payment_status", *update.PaymentStatus)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatuses - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatuses - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// ApplyPayment зачисляет подтвержденный платеж одним атомарным UPDATE.
// paid_amount никогда не превышает total_amount, payment_status становится
// paid при полной оплате, иначе partial
func (r *Repository) ApplyPayment(ctx context.Context, id int64, amount int64) (*domain.Booking, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("paid_amount", squirrel.Expr("LEAST(paid_amount + ?, total_amount)", amount)).
		Set("payment_status", squirrel.Expr(
			"CASE WHEN paid_amount + ? >= total_amount THEN ? ELSE ? END",
			amount, domain.PaymentPaid, domain.PaymentPartial,
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningAll()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ApplyPayment - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ApplyPayment - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// scanBooking сканирует строку в порядке bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.InvoiceNumber,
		&booking.VenueID,
		&booking.ServiceID,
		&booking.EventType,
		&booking.UserID,
		&booking.Customer.Name,
		&booking.Customer.Email,
		&booking.Customer.Mobile,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.GuestCount,
		&booking.Pricing.BasePrice,
		&booking.Pricing.SlotPrice,
		&booking.Pricing.AddonsTotal,
		&booking.Pricing.Tax,
		&booking.Pricing.TotalAmount,
		&booking.PaidAmount,
		&booking.AdvancePercent,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.IdempotencyKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
