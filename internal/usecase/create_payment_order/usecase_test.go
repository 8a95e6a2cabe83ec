package create_payment_order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

type fakeBookings struct {
	booking *domain.Booking
	err     error
}

func (f *fakeBookings) GetByID(context.Context, int64) (*domain.Booking, error) {
	return f.booking, f.err
}

type fakeOrders struct {
	saved []*domain.PaymentOrder
	err   error
}

func (f *fakeOrders) Create(_ context.Context, o *domain.PaymentOrder) (*domain.PaymentOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.saved = append(f.saved, o)
	return o, nil
}

type fakeGateway struct {
	amounts []int64
	receipt string
	err     error
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string, _ map[string]string) (*paymentgateway.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.amounts = append(f.amounts, amountMinor)
	f.receipt = receipt
	return &paymentgateway.Order{ID: "order_1", Amount: amountMinor, Currency: currency, Receipt: receipt}, nil
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:             11,
		InvoiceNumber:  "INV-20261019-ABCDEF12",
		Pricing:        domain.PricingSnapshot{BasePrice: 50000, Tax: 9000, TotalAmount: 59000},
		AdvancePercent: 10,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentPending,
	}
}

func TestExecute_AdvanceAmount(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{}
	uc := NewUseCase(&fakeBookings{booking: pendingBooking()}, orders, gw, "INR", nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 11})
	require.NoError(t, err)

	assert.Equal(t, "order_1", resp.OrderID)
	assert.Equal(t, int64(5900), resp.Amount)
	assert.Equal(t, int64(590000), resp.AmountMinor)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Equal(t, []int64{590000}, gw.amounts)
	assert.Contains(t, gw.receipt, "INV-20261019-ABCDEF12-")
	assert.LessOrEqual(t, len(gw.receipt), 40)

	require.Len(t, orders.saved, 1)
	assert.Equal(t, int64(11), orders.saved[0].BookingID)
	assert.Equal(t, domain.OrderCreated, orders.saved[0].Status)
}

func TestExecute_OutstandingWhenNoAdvance(t *testing.T) {
	b := pendingBooking()
	b.AdvancePercent = 0
	b.PaidAmount = 9000
	gw := &fakeGateway{}
	uc := NewUseCase(&fakeBookings{booking: b}, &fakeOrders{}, gw, "", nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 11})
	require.NoError(t, err)

	assert.Equal(t, int64(50000), resp.Amount)
	assert.Equal(t, domain.DefaultCurrency, resp.Currency)
}

func TestExecute_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
	}{
		{name: "zero", amount: 0},
		{name: "negative", amount: -10},
		{name: "over outstanding", amount: 59001},
		{name: "full total while advance is due", amount: 59000},
		{name: "less than advance", amount: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			uc := NewUseCase(&fakeBookings{booking: pendingBooking()}, &fakeOrders{}, gw, "INR", nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{BookingID: 11, Amount: ptr.Ptr(tt.amount)})

			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.Empty(t, gw.amounts)
		})
	}
}

func TestExecute_FullyPaidBookingRejected(t *testing.T) {
	b := pendingBooking()
	b.PaidAmount = 59000
	uc := NewUseCase(&fakeBookings{booking: b}, &fakeOrders{}, &fakeGateway{}, "INR", nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 11})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestExecute_Errors(t *testing.T) {
	cancelled := pendingBooking()
	cancelled.Status = domain.StatusCancelled

	tests := []struct {
		name     string
		bookings *fakeBookings
		gateway  *fakeGateway
		orders   *fakeOrders
		wantErr  error
	}{
		{
			name:     "booking not found",
			bookings: &fakeBookings{err: bookingRepo.ErrBookingNotFound},
			gateway:  &fakeGateway{}, orders: &fakeOrders{},
			wantErr: ErrBookingNotFound,
		},
		{
			name:     "repository failure",
			bookings: &fakeBookings{err: errors.New("db down")},
			gateway:  &fakeGateway{}, orders: &fakeOrders{},
			wantErr: ErrInternal,
		},
		{
			name:     "cancelled",
			bookings: &fakeBookings{booking: cancelled},
			gateway:  &fakeGateway{}, orders: &fakeOrders{},
			wantErr: ErrBookingNotPayable,
		},
		{
			name:     "gateway failure",
			bookings: &fakeBookings{booking: pendingBooking()},
			gateway:  &fakeGateway{err: paymentgateway.ErrRejected}, orders: &fakeOrders{},
			wantErr: ErrGatewayUnavailable,
		},
		{
			name:     "save failure",
			bookings: &fakeBookings{booking: pendingBooking()},
			gateway:  &fakeGateway{}, orders: &fakeOrders{err: errors.New("db down")},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(tt.bookings, tt.orders, tt.gateway, "INR", nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{BookingID: 11})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ExplicitAmountMatchingAdvance(t *testing.T) {
	gw := &fakeGateway{}
	uc := NewUseCase(&fakeBookings{booking: pendingBooking()}, &fakeOrders{}, gw, "INR", nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 11, Amount: ptr.Ptr(int64(5900))})
	require.NoError(t, err)
	assert.Equal(t, int64(5900), resp.Amount)
}

func TestExecute_ExplicitAmountAfterAdvancePaid(t *testing.T) {
	b := pendingBooking()
	b.PaidAmount = 5900
	b.PaymentStatus = domain.PaymentPartial
	gw := &fakeGateway{}
	uc := NewUseCase(&fakeBookings{booking: b}, &fakeOrders{}, gw, "INR", nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 11, Amount: ptr.Ptr(int64(20000))})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), resp.Amount)
	assert.Equal(t, []int64{2000000}, gw.amounts)
}
