package booking_flow

import (
	"strings"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	bookingFlow "github.com/m04kA/VenueBookingService/internal/usecase/booking_flow"
	"github.com/m04kA/VenueBookingService/pkg/types"
)

// Request модели

// CustomerRequest шаг customer_details
type CustomerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	GuestCount int    `json:"guestCount"`
}

func (r *CustomerRequest) ToCustomerDetails() bookingFlow.CustomerDetails {
	return bookingFlow.CustomerDetails{
		Name:       r.Name,
		Email:      r.Email,
		Mobile:     r.Mobile,
		GuestCount: r.GuestCount,
	}
}

// ScheduleRequest шаг service_datetime. Поля можно заполнять постепенно
type ScheduleRequest struct {
	VenueID    int64    `json:"venueId"`
	ServiceID  *int64   `json:"serviceId,omitempty"`
	EventType  string   `json:"eventType,omitempty"`
	Date       string   `json:"date,omitempty"` // "2026-10-15"
	StartTime  string   `json:"startTime,omitempty"`
	EndTime    string   `json:"endTime,omitempty"`
	AddonCodes []string `json:"addonCodes,omitempty"`
}

// ToSchedule разбирает дату и время. Пустые значения остаются нулевыми,
// некорректные возвращаются как ошибки полей
func (r *ScheduleRequest) ToSchedule() (bookingFlow.Schedule, error) {
	schedule := bookingFlow.Schedule{
		VenueID:    r.VenueID,
		ServiceID:  r.ServiceID,
		EventType:  r.EventType,
		AddonCodes: r.AddonCodes,
	}
	fields := make(map[string]string)

	if date := strings.TrimSpace(r.Date); date != "" {
		parsed, err := time.Parse(domain.DateFormat, date)
		if err != nil {
			fields["date"] = "expected YYYY-MM-DD"
		}
		schedule.Date = parsed
	}
	if start := strings.TrimSpace(r.StartTime); start != "" {
		parsed, err := types.NewTimeStringFromString(start)
		if err != nil {
			fields["startTime"] = "expected HH:MM"
		}
		schedule.StartTime = parsed
	}
	if end := strings.TrimSpace(r.EndTime); end != "" {
		parsed, err := types.NewTimeStringFromString(end)
		if err != nil {
			fields["endTime"] = "expected HH:MM"
		}
		schedule.EndTime = parsed
	}

	if len(fields) > 0 {
		return schedule, &bookingFlow.ValidationError{Fields: fields}
	}
	return schedule, nil
}

// CheckoutRequest шаг checkout
type CheckoutRequest struct {
	PaymentOption  string `json:"paymentOption"` // with_payment | without_payment
	AdvancePercent *int   `json:"advancePercent,omitempty"`
}

// CodeRequest ввод кода. verify=true принудительно проверяет уже введенный код
type CodeRequest struct {
	Code   string `json:"code"`
	Verify bool   `json:"verify,omitempty"`
}

// PaymentFailedRequest виджет оплаты вернул ошибку
type PaymentFailedRequest struct {
	Reason string `json:"reason"`
}

// CompletePaymentRequest callback виджета оплаты
type CompletePaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// Response модели

type CustomerResponse struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	GuestCount int    `json:"guestCount"`
}

type ScheduleResponse struct {
	VenueID    int64    `json:"venueId,omitempty"`
	ServiceID  *int64   `json:"serviceId,omitempty"`
	EventType  string   `json:"eventType,omitempty"`
	Date       string   `json:"date,omitempty"`
	StartTime  string   `json:"startTime,omitempty"`
	EndTime    string   `json:"endTime,omitempty"`
	AddonCodes []string `json:"addonCodes"`
}

type QuoteResponse struct {
	VenueName       string `json:"venueName"`
	Category        string `json:"category"`
	CapacityWarning bool   `json:"capacityWarning"`
	SlotLabel       string `json:"slotLabel,omitempty"`
	BasePrice       int64  `json:"basePrice"`
	SlotPrice       int64  `json:"slotPrice"`
	AddonsTotal     int64  `json:"addonsTotal"`
	Subtotal        int64  `json:"subtotal"`
	Tax             int64  `json:"tax"`
	TotalAmount     int64  `json:"totalAmount"`
}

type ChannelResponse struct {
	Channel         string `json:"channel"`
	Target          string `json:"target,omitempty"`
	Sent            bool   `json:"sent"`
	Delivered       bool   `json:"delivered"`
	Verified        bool   `json:"verified"`
	CooldownSeconds int    `json:"cooldownSeconds"`
	DigitsEntered   int    `json:"digitsEntered"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
	DevCode         string `json:"devCode,omitempty"`
}

type PaymentResponse struct {
	Status      string `json:"status"`
	OrderID     string `json:"orderId,omitempty"`
	Amount      int64  `json:"amount"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency,omitempty"`
	KeyID       string `json:"keyId,omitempty"`
	PaymentID   string `json:"paymentId,omitempty"`
	Error       string `json:"error,omitempty"`
}

// FlowResponse состояние сценария для клиента
type FlowResponse struct {
	ID             string                  `json:"id"`
	Step           string                  `json:"step"`
	InFlight       bool                    `json:"inFlight"`
	CanGoBack      bool                    `json:"canGoBack"`
	Customer       CustomerResponse        `json:"customer"`
	Schedule       ScheduleResponse        `json:"schedule"`
	Quote          *QuoteResponse          `json:"quote,omitempty"`
	PaymentOption  string                  `json:"paymentOption,omitempty"`
	AdvancePercent int                     `json:"advancePercent"`
	AdvanceAmount  int64                   `json:"advanceAmount"`
	Verification   []ChannelResponse       `json:"verification"`
	Booking        *models.BookingResponse `json:"booking,omitempty"`
	Payment        *PaymentResponse        `json:"payment,omitempty"`
}

// ErrorResponse ошибка шага вместе с текущим состоянием сценария
type ErrorResponse struct {
	Error             string            `json:"error"`
	Level             string            `json:"level"`
	Fields            map[string]string `json:"fields,omitempty"`
	RetryAfterSeconds int               `json:"retryAfterSeconds,omitempty"`
	Retryable         bool              `json:"retryable"`
	Flow              *FlowResponse     `json:"flow,omitempty"`
}

// Методы конвертации

// FromSnapshot конвертирует снимок сценария в HTTP response
func FromSnapshot(s bookingFlow.FlowSnapshot) *FlowResponse {
	resp := &FlowResponse{
		ID:        s.ID,
		Step:      string(s.Step),
		InFlight:  s.InFlight,
		CanGoBack: s.CanGoBack,
		Customer: CustomerResponse{
			Name:       s.Customer.Name,
			Email:      s.Customer.Email,
			Mobile:     s.Customer.Mobile,
			GuestCount: s.Customer.GuestCount,
		},
		Schedule:       fromSchedule(s.Schedule),
		Quote:          fromQuote(s.Quote),
		PaymentOption:  string(s.PaymentOption),
		AdvancePercent: s.AdvancePercent,
		AdvanceAmount:  s.AdvanceAmount,
		Verification:   make([]ChannelResponse, 0, len(s.Verification)),
		Booking:        models.FromDomainBooking(s.Booking),
	}

	for _, ch := range s.Verification {
		resp.Verification = append(resp.Verification, fromChannel(ch))
	}

	if s.Payment != nil {
		resp.Payment = &PaymentResponse{
			Status:      string(s.Payment.Status),
			OrderID:     s.Payment.OrderID,
			Amount:      s.Payment.Amount,
			AmountMinor: s.Payment.AmountMinor,
			Currency:    s.Payment.Currency,
			KeyID:       s.Payment.KeyID,
			PaymentID:   s.Payment.PaymentID,
			Error:       s.Payment.Error,
		}
	}

	return resp
}

// FromNotification ошибка для клиента
func FromNotification(n bookingFlow.Notification, flow *FlowResponse) *ErrorResponse {
	return &ErrorResponse{
		Error:             n.Message,
		Level:             string(n.Level),
		Fields:            n.Fields,
		RetryAfterSeconds: n.RetryAfterSeconds,
		Retryable:         n.Retryable,
		Flow:              flow,
	}
}

func fromSchedule(s bookingFlow.Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		VenueID:    s.VenueID,
		ServiceID:  s.ServiceID,
		EventType:  s.EventType,
		AddonCodes: s.AddonCodes,
	}
	if resp.AddonCodes == nil {
		resp.AddonCodes = []string{}
	}
	if !s.Date.IsZero() {
		resp.Date = s.Date.Format(domain.DateFormat)
	}
	if !s.StartTime.IsZero() {
		resp.StartTime = s.StartTime.String()
	}
	if !s.EndTime.IsZero() {
		resp.EndTime = s.EndTime.String()
	}
	return resp
}

func fromQuote(q *pricing.Quote) *QuoteResponse {
	if q == nil {
		return nil
	}
	return &QuoteResponse{
		VenueName:       q.VenueName,
		Category:        q.Category,
		CapacityWarning: q.CapacityWarning,
		SlotLabel:       q.SlotLabel,
		BasePrice:       q.BasePrice,
		SlotPrice:       q.SlotPrice,
		AddonsTotal:     q.AddonsTotal,
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		TotalAmount:     q.Total,
	}
}

func fromChannel(ch bookingFlow.ChannelSnapshot) ChannelResponse {
	resp := ChannelResponse{
		Channel:         string(ch.Channel),
		Target:          ch.Target,
		Sent:            ch.Sent,
		Delivered:       ch.Delivered,
		Verified:        ch.Verified,
		CooldownSeconds: ch.CooldownSeconds,
		DigitsEntered:   ch.DigitsEntered,
		DevCode:         ch.DevCode,
	}
	if !ch.ExpiresAt.IsZero() {
		resp.ExpiresAt = ch.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}
