package booking_flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_payment_order"
	"github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

// Config настройки сценария
type Config struct {
	DefaultAdvancePercent int
}

// Dependencies сервисы, которые использует сценарий
type Dependencies struct {
	Quoter   Quoter
	OTP      OTPService
	Bookings BookingCreator
	Orders   OrderCreator
	Payments PaymentVerifier
	Logger   Logger
}

// Controller конечный автомат клиентского сценария бронирования.
// Одновременно выполняется не больше одного действия (ErrRequestInFlight),
// Snapshot доступен всегда
type Controller struct {
	id           string
	cfg          Config
	deps         Dependencies
	timeProvider TimeProvider

	inFlight atomic.Bool

	mu    sync.RWMutex
	step  Step
	draft Draft
}

// NewController создает сценарий на шаге customer_details
func NewController(id string, cfg Config, deps Dependencies) *Controller {
	if cfg.DefaultAdvancePercent <= 0 {
		cfg.DefaultAdvancePercent = domain.DefaultAdvancePercent
	}
	return &Controller{
		id:           id,
		cfg:          cfg,
		deps:         deps,
		timeProvider: &RealTimeProvider{},
		step:         StepCustomerDetails,
		draft:        newDraft(),
	}
}

// ID идентификатор сценария
func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) begin() error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrRequestInFlight
	}
	return nil
}

func (c *Controller) end() {
	c.inFlight.Store(false)
}

// moveTo вызывается под c.mu
func (c *Controller) moveTo(event Event) error {
	to, ok := transition(c.step, event)
	if !ok {
		return wrongStep(c.step, string(event))
	}
	c.deps.Logger.Info("BookingFlow %s: %s --%s--> %s", c.id, c.step, event, to)
	c.step = to
	return nil
}

// UpdateCustomer сохраняет данные клиента. Проверка выполняется в Next
func (c *Controller) UpdateCustomer(details CustomerDetails) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepCustomerDetails {
		return wrongStep(c.step, "update customer details")
	}

	c.draft.Customer = CustomerDetails{
		Name:       strings.TrimSpace(details.Name),
		Email:      domain.NormalizeEmail(details.Email),
		Mobile:     domain.NormalizeMobile(details.Mobile),
		GuestCount: details.GuestCount,
	}
	c.draft.resetStaleVerification()
	return nil
}

// UpdateSchedule сохраняет выбор и пересчитывает цену, если данных достаточно
func (c *Controller) UpdateSchedule(ctx context.Context, schedule Schedule) (*pricing.Quote, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	if c.step != StepServiceDateTime {
		return nil, wrongStep(c.step, "update schedule")
	}

	schedule.EventType = strings.TrimSpace(schedule.EventType)
	schedule.AddonCodes = append([]string(nil), schedule.AddonCodes...)

	c.mu.Lock()
	c.draft.Schedule = schedule
	c.draft.Quote = nil
	c.mu.Unlock()

	if !canQuote(schedule) {
		return nil, nil
	}

	return c.requote(ctx)
}

// requote считает цену по текущему черновику и сохраняет результат
func (c *Controller) requote(ctx context.Context) (*pricing.Quote, error) {
	s := c.draft.Schedule
	quote, err := c.deps.Quoter.Quote(ctx, pricing.QuoteRequest{
		VenueID:    s.VenueID,
		ServiceID:  s.ServiceID,
		EventType:  s.EventType,
		Start:      s.StartTime,
		End:        s.EndTime,
		GuestCount: c.draft.Customer.GuestCount,
		AddonCodes: s.AddonCodes,
	})
	if err != nil {
		c.deps.Logger.Warn("BookingFlow %s: quote failed: %v", c.id, err)
		return nil, err
	}

	c.mu.Lock()
	c.draft.Quote = quote
	c.mu.Unlock()

	if err := quote.Validate(); err != nil {
		return quote, err
	}
	return quote, nil
}

// ChoosePayment выбор способа оплаты на шаге checkout.
// advancePercent == nil означает процент по умолчанию
func (c *Controller) ChoosePayment(option domain.PaymentOption, advancePercent *int) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if c.step != StepCheckout {
		return wrongStep(c.step, "choose payment option")
	}

	percent := 0
	if option == domain.PaymentOptionWithPayment {
		percent = c.cfg.DefaultAdvancePercent
		if advancePercent != nil {
			percent = *advancePercent
		}
	}

	if err := validatePayment(option, percent); err != nil {
		return err
	}

	c.mu.Lock()
	c.draft.PaymentOption = option
	c.draft.AdvancePercent = percent
	c.mu.Unlock()
	return nil
}

// Next проверяет текущий шаг и переходит к следующему.
// На checkout (без оплаты) и verification создает бронирование
func (c *Controller) Next(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	switch c.step {
	case StepCustomerDetails:
		if err := validateCustomer(c.draft.Customer); err != nil {
			return err
		}
		return c.locked(func() error { return c.moveTo(EventNext) })

	case StepServiceDateTime:
		if err := validateSchedule(c.draft.Schedule, c.timeProvider.Now()); err != nil {
			return err
		}
		// Цена пересчитывается при каждом переходе, предварительный расчет не используется
		if _, err := c.requote(ctx); err != nil {
			return err
		}
		return c.locked(func() error { return c.moveTo(EventNext) })

	case StepCheckout:
		if err := validatePayment(c.draft.PaymentOption, c.draft.AdvancePercent); err != nil {
			return err
		}
		if c.draft.PaymentOption == domain.PaymentOptionWithPayment {
			return c.locked(func() error { return c.moveTo(EventNext) })
		}
		if err := c.book(ctx); err != nil {
			return err
		}
		return c.locked(func() error { return c.moveTo(EventBooked) })

	case StepVerification:
		if !c.draft.allVerified() {
			return ErrVerificationRequired
		}
		if err := c.book(ctx); err != nil {
			return err
		}
		if err := c.locked(func() error { return c.moveTo(EventBooked) }); err != nil {
			return err
		}
		return c.initiatePayment(ctx)

	default:
		return wrongStep(c.step, "advance")
	}
}

// Back возвращает на предыдущий шаг. После создания бронирования недоступно
func (c *Controller) Back() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	return c.locked(func() error { return c.moveTo(EventBack) })
}

// book создает бронирование не более одного раза за сценарий
func (c *Controller) book(ctx context.Context) error {
	if c.draft.Booking != nil {
		return nil
	}

	d := c.draft
	req := &create_booking.Request{
		VenueID:        d.Schedule.VenueID,
		ServiceID:      d.Schedule.ServiceID,
		EventType:      d.Schedule.EventType,
		CustomerName:   d.Customer.Name,
		CustomerEmail:  d.Customer.Email,
		CustomerMobile: d.Customer.Mobile,
		Date:           d.Schedule.Date,
		StartTime:      d.Schedule.StartTime,
		EndTime:        d.Schedule.EndTime,
		GuestCount:     d.Customer.GuestCount,
		AddonCodes:     d.Schedule.AddonCodes,
		AdvancePercent: d.AdvancePercent,
		IdempotencyKey: ptr.Ptr("flow-" + c.id),
	}
	if d.Quote != nil {
		req.ExpectedTotal = &d.Quote.Total
	}

	resp, err := c.deps.Bookings.Execute(ctx, req)
	if err != nil {
		c.deps.Logger.Warn("BookingFlow %s: booking creation failed: %v", c.id, err)
		return &BookingCreationError{Message: bookingFailureMessage(err), Err: err}
	}

	c.mu.Lock()
	c.draft.Booking = resp.Booking
	c.mu.Unlock()

	c.deps.Logger.Info("BookingFlow %s: booking id=%d created, option=%s", c.id, resp.Booking.ID, d.PaymentOption)
	return nil
}

// initiatePayment создает новый заказ для уже созданного бронирования
func (c *Controller) initiatePayment(ctx context.Context) error {
	resp, err := c.deps.Orders.Execute(ctx, &create_payment_order.Request{BookingID: c.draft.Booking.ID})
	if err != nil {
		c.deps.Logger.Warn("BookingFlow %s: payment initiation failed for booking id=%d: %v", c.id, c.draft.Booking.ID, err)
		c.mu.Lock()
		c.draft.Payment = &PaymentState{Status: PaymentFailed, Error: err.Error()}
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrPaymentInitiationFailed, err)
	}

	c.mu.Lock()
	c.draft.Payment = &PaymentState{
		Status:      PaymentAwaiting,
		OrderID:     resp.OrderID,
		Amount:      resp.Amount,
		AmountMinor: resp.AmountMinor,
		Currency:    resp.Currency,
		KeyID:       resp.KeyID,
	}
	c.mu.Unlock()
	return nil
}

// SendCode отправляет код на email или телефон клиента
func (c *Controller) SendCode(ctx context.Context, ch domain.Channel) (ChannelSnapshot, error) {
	if err := c.begin(); err != nil {
		return ChannelSnapshot{}, err
	}
	defer c.end()

	if c.step != StepVerification {
		return ChannelSnapshot{}, wrongStep(c.step, "send code")
	}
	if !ch.Valid() {
		return ChannelSnapshot{}, &ValidationError{Fields: map[string]string{"channel": "unknown channel"}}
	}

	state := c.draft.Verification[ch]
	if state.Verified {
		return c.channelSnapshot(ch), nil
	}

	now := c.timeProvider.Now()
	res, err := c.deps.OTP.Send(ctx, ch, c.draft.target(ch))
	if err != nil {
		var rl *otp.RateLimitError
		if errors.As(err, &rl) {
			c.mu.Lock()
			state.CooldownUntil = now.Add(rl.RetryAfter)
			c.mu.Unlock()
		}
		return c.channelSnapshot(ch), err
	}

	c.mu.Lock()
	c.draft.Verification[ch] = &ChannelState{
		Target:        res.Target,
		Sent:          true,
		Delivered:     res.Delivered,
		CooldownUntil: now.Add(secondsToDuration(res.CooldownSeconds)),
		ExpiresAt:     res.ExpiresAt,
		DevCode:       res.DevCode,
	}
	c.mu.Unlock()

	return c.channelSnapshot(ch), nil
}

// EnterCode принимает ввод цифр. Ровно 6 цифр проверяются автоматически,
// код, который только что отклонил сервер, повторно не отправляется
func (c *Controller) EnterCode(ctx context.Context, ch domain.Channel, digits string) (ChannelSnapshot, error) {
	if err := c.begin(); err != nil {
		return ChannelSnapshot{}, err
	}
	defer c.end()

	state, err := c.channelForInput(ch)
	if err != nil {
		return ChannelSnapshot{}, err
	}
	if state.Verified {
		return c.channelSnapshot(ch), nil
	}

	code := onlyDigits(digits, domain.OTPCodeLength)
	c.mu.Lock()
	state.Code = code
	c.mu.Unlock()

	if len(code) < domain.OTPCodeLength || code == state.LastFailedCode {
		return c.channelSnapshot(ch), nil
	}

	err = c.verify(ctx, ch, state, code)
	return c.channelSnapshot(ch), err
}

// VerifyCode явная повторная проверка введенного кода
func (c *Controller) VerifyCode(ctx context.Context, ch domain.Channel) (ChannelSnapshot, error) {
	if err := c.begin(); err != nil {
		return ChannelSnapshot{}, err
	}
	defer c.end()

	state, err := c.channelForInput(ch)
	if err != nil {
		return ChannelSnapshot{}, err
	}
	if state.Verified {
		return c.channelSnapshot(ch), nil
	}
	if len(state.Code) != domain.OTPCodeLength {
		return c.channelSnapshot(ch), &ValidationError{Fields: map[string]string{string(ch): "enter the 6-digit code"}}
	}

	err = c.verify(ctx, ch, state, state.Code)
	return c.channelSnapshot(ch), err
}

func (c *Controller) channelForInput(ch domain.Channel) (*ChannelState, error) {
	if c.step != StepVerification {
		return nil, wrongStep(c.step, "enter code")
	}
	if !ch.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"channel": "unknown channel"}}
	}
	return c.draft.Verification[ch], nil
}

func (c *Controller) verify(ctx context.Context, ch domain.Channel, state *ChannelState, code string) error {
	target := c.draft.target(ch)
	if err := c.deps.OTP.Verify(ctx, ch, target, code); err != nil {
		c.mu.Lock()
		state.LastFailedCode = code
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	state.Target = target
	state.Verified = true
	state.LastFailedCode = ""
	state.DevCode = ""
	c.mu.Unlock()

	c.deps.Logger.Info("BookingFlow %s: %s verified", c.id, ch)
	return nil
}

// PaymentFailed виджет оплаты закрыт или вернул ошибку.
// Бронирование остается, оплату можно повторить через RetryPayment
func (c *Controller) PaymentFailed(reason string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if c.step != StepConfirm || c.draft.Booking == nil || c.draft.Payment == nil || c.draft.Payment.Status == PaymentDone {
		return wrongStep(c.step, "report payment failure")
	}

	c.mu.Lock()
	c.draft.Payment.Status = PaymentFailed
	c.draft.Payment.Error = reason
	c.mu.Unlock()

	c.deps.Logger.Warn("BookingFlow %s: payment widget failed for booking id=%d: %s", c.id, c.draft.Booking.ID, reason)
	return nil
}

// RetryPayment создает новый заказ для того же бронирования
func (c *Controller) RetryPayment(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if c.step != StepConfirm || c.draft.Booking == nil {
		return wrongStep(c.step, "retry payment")
	}
	if c.draft.Booking.IsFullyPaid() || (c.draft.Payment != nil && c.draft.Payment.Status == PaymentDone) {
		return wrongStep(c.step, "retry a completed payment")
	}

	return c.initiatePayment(ctx)
}

// CompletePayment передает callback виджета на проверку
func (c *Controller) CompletePayment(ctx context.Context, paymentID, orderID, signature string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if c.step != StepConfirm || c.draft.Booking == nil {
		return wrongStep(c.step, "complete payment")
	}

	resp, err := c.deps.Payments.Execute(ctx, &verify_payment.Request{
		BookingID: c.draft.Booking.ID,
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signature,
	})
	if err != nil {
		if errors.Is(err, verify_payment.ErrVerificationFailed) {
			c.deps.Logger.Warn("BookingFlow %s: payment verification failed for booking id=%d: %v", c.id, c.draft.Booking.ID, err)
			c.mu.Lock()
			if c.draft.Payment == nil {
				c.draft.Payment = &PaymentState{}
			}
			c.draft.Payment.Status = PaymentRejected
			c.draft.Payment.Error = err.Error()
			c.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		return err
	}

	c.mu.Lock()
	c.draft.Booking = resp.Booking
	if c.draft.Payment == nil {
		c.draft.Payment = &PaymentState{OrderID: orderID}
	}
	c.draft.Payment.Status = PaymentDone
	c.draft.Payment.PaymentID = paymentID
	c.draft.Payment.Error = ""
	c.mu.Unlock()

	return nil
}

func (c *Controller) locked(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}

// onlyDigits оставляет только цифры, не больше limit
func onlyDigits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
