package booking_flow

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
)

// ChannelSnapshot состояние канала для клиента
type ChannelSnapshot struct {
	Channel         domain.Channel
	Target          string
	Sent            bool
	Delivered       bool
	Verified        bool
	CooldownSeconds int // сколько ждать до повторной отправки
	DigitsEntered   int
	ExpiresAt       time.Time
	DevCode         string
}

// FlowSnapshot копия состояния сценария
type FlowSnapshot struct {
	ID             string
	Step           Step
	InFlight       bool
	CanGoBack      bool
	Customer       CustomerDetails
	Schedule       Schedule
	Quote          *pricing.Quote
	PaymentOption  domain.PaymentOption
	AdvancePercent int
	AdvanceAmount  int64
	Verification   []ChannelSnapshot
	Booking        *domain.Booking
	Payment        *PaymentState
}

// Snapshot возвращает копию состояния; безопасен во время выполняющегося запроса
func (c *Controller) Snapshot() FlowSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.timeProvider.Now()
	_, canBack := transition(c.step, EventBack)

	snap := FlowSnapshot{
		ID:             c.id,
		Step:           c.step,
		InFlight:       c.inFlight.Load(),
		CanGoBack:      canBack,
		Customer:       c.draft.Customer,
		Schedule:       c.draft.Schedule,
		PaymentOption:  c.draft.PaymentOption,
		AdvancePercent: c.draft.AdvancePercent,
		Verification:   make([]ChannelSnapshot, 0, len(domain.Channels)),
	}
	snap.Schedule.AddonCodes = append([]string(nil), c.draft.Schedule.AddonCodes...)

	if c.draft.Quote != nil {
		q := *c.draft.Quote
		snap.Quote = &q
		snap.AdvanceAmount = pricing.AdvanceAmount(q.Total, c.draft.AdvancePercent)
	}
	if c.draft.Booking != nil {
		b := *c.draft.Booking
		snap.Booking = &b
		snap.AdvanceAmount = pricing.AdvanceAmount(b.Pricing.TotalAmount, b.AdvancePercent)
	}
	if c.draft.Payment != nil {
		p := *c.draft.Payment
		snap.Payment = &p
	}

	for _, ch := range domain.Channels {
		snap.Verification = append(snap.Verification, channelSnapshotOf(ch, c.draft.Verification[ch], now))
	}

	return snap
}

func (c *Controller) channelSnapshot(ch domain.Channel) ChannelSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return channelSnapshotOf(ch, c.draft.Verification[ch], c.timeProvider.Now())
}

func channelSnapshotOf(ch domain.Channel, state *ChannelState, now time.Time) ChannelSnapshot {
	if state == nil {
		return ChannelSnapshot{Channel: ch}
	}
	return ChannelSnapshot{
		Channel:         ch,
		Target:          state.Target,
		Sent:            state.Sent,
		Delivered:       state.Delivered,
		Verified:        state.Verified,
		CooldownSeconds: remainingSeconds(state.CooldownUntil, now),
		DigitsEntered:   len(state.Code),
		ExpiresAt:       state.ExpiresAt,
		DevCode:         state.DevCode,
	}
}

func remainingSeconds(until, now time.Time) int {
	left := until.Sub(now)
	if left <= 0 {
		return 0
	}
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

func secondsToDuration(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}
