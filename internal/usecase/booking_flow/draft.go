package booking_flow

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

// CustomerDetails данные первого шага
type CustomerDetails struct {
	Name       string
	Email      string
	Mobile     string
	GuestCount int
}

// Schedule выбор площадки, услуги, даты и времени
type Schedule struct {
	VenueID    int64
	ServiceID  *int64
	EventType  string
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	AddonCodes []string
}

// ChannelState состояние подтверждения одного канала
type ChannelState struct {
	Target         string
	Sent           bool
	Delivered      bool
	Verified       bool
	CooldownUntil  time.Time
	ExpiresAt      time.Time
	Code           string // введенные цифры
	LastFailedCode string // код, уже отклоненный сервером; повторно автоматически не отправляется
	DevCode        string
}

// PaymentStatus состояние оплаты на стороне сценария
type PaymentStatus string

const (
	PaymentAwaiting PaymentStatus = "awaiting"
	PaymentFailed   PaymentStatus = "failed"
	PaymentDone     PaymentStatus = "paid"
	PaymentRejected PaymentStatus = "verification_failed"
)

// PaymentState текущий заказ в шлюзе
type PaymentState struct {
	Status      PaymentStatus
	OrderID     string
	Amount      int64
	AmountMinor int64
	Currency    string
	KeyID       string
	PaymentID   string
	Error       string
}

// Draft все состояние сценария до и после создания бронирования
type Draft struct {
	Customer       CustomerDetails
	Schedule       Schedule
	Quote          *pricing.Quote
	PaymentOption  domain.PaymentOption
	AdvancePercent int
	Verification   map[domain.Channel]*ChannelState
	Booking        *domain.Booking
	Payment        *PaymentState
}

func newDraft() Draft {
	verification := make(map[domain.Channel]*ChannelState, len(domain.Channels))
	for _, ch := range domain.Channels {
		verification[ch] = &ChannelState{}
	}
	return Draft{Verification: verification}
}

// target адрес, на который отправляется код для канала
func (d *Draft) target(ch domain.Channel) string {
	if ch == domain.ChannelEmail {
		return d.Customer.Email
	}
	return d.Customer.Mobile
}

// resetStaleVerification сбрасывает подтверждение, если адрес изменился после отправки кода
func (d *Draft) resetStaleVerification() {
	for ch, state := range d.Verification {
		if state.Target != "" && state.Target != d.target(ch) {
			d.Verification[ch] = &ChannelState{}
		}
	}
}

func (d *Draft) allVerified() bool {
	for _, ch := range domain.Channels {
		state := d.Verification[ch]
		if state == nil || !state.Verified || state.Target != d.target(ch) {
			return false
		}
	}
	return true
}
