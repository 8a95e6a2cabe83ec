package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/VenueBookingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

// Repository репозиторий заказов платежного шлюза
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заказ, созданный в шлюзе
func (r *Repository) Create(ctx context.Context, order *domain.PaymentOrder) (*domain.PaymentOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_orders").
		Columns("order_id", "booking_id", "amount", "amount_minor", "currency", "receipt", "status").
		Values(order.OrderID, order.BookingID, order.Amount, order.AmountMinor, order.Currency, order.Receipt, order.Status).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrDuplicateKey, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	order.CreatedAt = createdAt.Time

	return order, nil
}

// GetByOrderID получает заказ по id шлюза.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы повторная верификация ждала первую
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"order_id",
		"booking_id",
		"amount",
		"amount_minor",
		"currency",
		"receipt",
		"status",
		"payment_id",
		"paid_at",
		"created_at",
	).
		From("payment_orders").
		Where(squirrel.Eq{"order_id": orderID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	var order domain.PaymentOrder
	var paidAt, createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&order.OrderID,
		&order.BookingID,
		&order.Amount,
		&order.AmountMinor,
		&order.Currency,
		&order.Receipt,
		&order.Status,
		&order.PaymentID,
		&paidAt,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - scan order: %v", ErrScanRow, err)
	}

	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	order.CreatedAt = createdAt.Time

	return &order, nil
}

// MarkPaid привязывает payment id к заказу. Срабатывает только один раз:
// повторный вызов возвращает ErrAlreadyPaid
func (r *Repository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_orders").
		Set("status", domain.OrderPaid).
		Set("payment_id", paymentID).
		Set("paid_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"order_id": orderID}).
		Where(squirrel.Eq{"payment_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: MarkPaid: %v", ErrDuplicateKey, err)
		}
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyPaid
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
