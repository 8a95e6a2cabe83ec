package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

type fakeRepo struct {
	byKey     map[string]*domain.Booking
	created   []*domain.Booking
	createErr error
	nextID    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byKey: map[string]*domain.Booking{}, nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *b
	cp.ID = r.nextID
	r.nextID++
	r.created = append(r.created, &cp)
	if cp.IdempotencyKey != nil {
		r.byKey[*cp.IdempotencyKey] = &cp
	}
	return &cp, nil
}

func (r *fakeRepo) GetByIdempotencyKey(_ context.Context, key string) (*domain.Booking, error) {
	if b, ok := r.byKey[key]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

type fakeQuoter struct {
	quote *pricing.Quote
	err   error
	calls int
}

func (q *fakeQuoter) Quote(context.Context, pricing.QuoteRequest) (*pricing.Quote, error) {
	q.calls++
	return q.quote, q.err
}

type fakeEvents struct{ created []*domain.Booking }

func (e *fakeEvents) BookingCreated(_ context.Context, b *domain.Booking) { e.created = append(e.created, b) }

type fakeMetrics struct{ options []string }

func (m *fakeMetrics) BookingCreated(option string) { m.options = append(m.options, option) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var today = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func scenarioQuote() *pricing.Quote {
	return &pricing.Quote{
		Breakdown: pricing.Breakdown{BasePrice: 50000, Subtotal: 50000, Tax: 9000, Total: 59000},
		VenueID:   7,
		VenueName: "Lake View Hall",
		Category:  "wedding",
		Capacity:  200,
	}
}

func validRequest() *Request {
	return &Request{
		VenueID:        7,
		ServiceID:      ptr.Ptr(int64(3)),
		CustomerName:   "  Asha Rao ",
		CustomerEmail:  "Asha@Example.com",
		CustomerMobile: "98765 43210",
		Date:           today.AddDate(0, 0, 30),
		StartTime:      "10:00",
		EndTime:        "14:00",
		GuestCount:     150,
		AdvancePercent: 10,
	}
}

type fixture struct {
	uc      *UseCase
	repo    *fakeRepo
	quoter  *fakeQuoter
	events  *fakeEvents
	metrics *fakeMetrics
}

func newFixture() *fixture {
	f := &fixture{
		repo:    newFakeRepo(),
		quoter:  &fakeQuoter{quote: scenarioQuote()},
		events:  &fakeEvents{},
		metrics: &fakeMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.quoter, f.events, f.metrics, nopLogger{})
	f.uc.timeProvider = fixedTime{now: today}
	return f
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, int64(0), b.PaidAmount)
	assert.Equal(t, int64(59000), b.Pricing.TotalAmount)
	assert.Equal(t, int64(9000), b.Pricing.Tax)
	assert.Equal(t, "Asha Rao", b.Customer.Name)
	assert.Equal(t, "asha@example.com", b.Customer.Email)
	assert.Equal(t, "9876543210", b.Customer.Mobile)
	assert.Equal(t, "wedding", b.EventType)
	assert.Regexp(t, `^INV-20261019-`, b.InvoiceNumber)
	assert.Equal(t, int64(5900), resp.AdvanceAmount)
	assert.False(t, resp.Replayed)

	assert.Len(t, f.events.created, 1)
	assert.Equal(t, []string{"with_payment"}, f.metrics.options)
}

func TestExecute_WithoutPaymentOption(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.AdvancePercent = 0

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.AdvanceAmount)
	assert.Equal(t, []string{"without_payment"}, f.metrics.options)
}

func TestExecute_RejectsPastDate(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Date = today.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, f.repo.created)
}

func TestExecute_TodayIsAllowed(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Date = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "not an email", mutate: func(r *Request) { r.CustomerEmail = "not-an-email" }},
		{name: "short mobile", mutate: func(r *Request) { r.CustomerMobile = "12345" }},
		{name: "empty name", mutate: func(r *Request) { r.CustomerName = "   " }},
		{name: "zero guests", mutate: func(r *Request) { r.GuestCount = 0 }},
		{name: "advance over 100", mutate: func(r *Request) { r.AdvancePercent = 101 }},
		{name: "end before start", mutate: func(r *Request) { r.StartTime, r.EndTime = "14:00", "10:00" }},
		{name: "bad time", mutate: func(r *Request) { r.StartTime = "25:00" }},
		{name: "no service and no event type", mutate: func(r *Request) { r.ServiceID = nil }},
		{name: "missing date", mutate: func(r *Request) { r.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.quoter.calls)
		})
	}
}

func TestExecute_PriceChanged(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.ExpectedTotal = ptr.Ptr(int64(55000))

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrPriceChanged)
	assert.Empty(t, f.repo.created)
}

func TestExecute_ZeroPriceBlocked(t *testing.T) {
	f := newFixture()
	f.quoter.quote = &pricing.Quote{VenueID: 7}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestExecute_CapacityIsWarningOnly(t *testing.T) {
	f := newFixture()
	q := scenarioQuote()
	q.CapacityWarning = true
	f.quoter.quote = q

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.CapacityWarning)
}

func TestExecute_QuoteErrors(t *testing.T) {
	tests := []struct {
		name     string
		quoteErr error
		wantErr  error
	}{
		{name: "venue", quoteErr: pricing.ErrVenueNotFound, wantErr: ErrVenueNotFound},
		{name: "service", quoteErr: pricing.ErrServiceNotFound, wantErr: ErrServiceNotFound},
		{name: "addon", quoteErr: pricing.ErrUnknownAddon, wantErr: ErrInvalidInput},
		{name: "catalog", quoteErr: pricing.ErrCatalogUnavailable, wantErr: ErrCatalogUnavailable},
		{name: "other", quoteErr: errors.New("boom"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.quoter.quote, f.quoter.err = nil, tt.quoteErr

			_, err := f.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_IdempotencyKeyReplay(t *testing.T) {
	f := newFixture()

	first := validRequest()
	first.IdempotencyKey = ptr.Ptr("req-1")
	resp1, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	second := validRequest()
	second.IdempotencyKey = ptr.Ptr("req-1")
	resp2, err := f.uc.Execute(context.Background(), second)
	require.NoError(t, err)

	assert.True(t, resp2.Replayed)
	assert.Equal(t, resp1.Booking.ID, resp2.Booking.ID)
	assert.Len(t, f.repo.created, 1)
	assert.Len(t, f.events.created, 1)
}

func TestExecute_DuplicateKeyRaceReturnsExisting(t *testing.T) {
	f := newFixture()
	existing := &domain.Booking{ID: 42, Pricing: domain.PricingSnapshot{TotalAmount: 59000}, AdvancePercent: 10}
	f.repo.createErr = bookingRepo.ErrDuplicateKey

	req := validRequest()
	req.IdempotencyKey = ptr.Ptr("req-2")

	// ключ появляется между проверкой и INSERT
	f.uc.bookingRepo = &raceRepo{fakeRepo: f.repo, existing: existing}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Replayed)
	assert.Equal(t, int64(42), resp.Booking.ID)
}

type raceRepo struct {
	*fakeRepo
	existing *domain.Booking
	inserted bool
}

func (r *raceRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.inserted = true
	return r.fakeRepo.Create(ctx, b)
}

func (r *raceRepo) GetByIdempotencyKey(_ context.Context, _ string) (*domain.Booking, error) {
	if !r.inserted {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return r.existing, nil
}

func TestExecute_RepositoryError(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.events.created)
	assert.Empty(t, f.metrics.options)
}
