package domain

import "time"

// PaymentOrderStatus is the state of a gateway order on our side
type PaymentOrderStatus string

const (
	OrderCreated PaymentOrderStatus = "created"
	OrderPaid    PaymentOrderStatus = "paid"
)

// PaymentOrder is an order created at the external gateway for a booking
type PaymentOrder struct {
	OrderID     string
	BookingID   int64
	Amount      int64 // rupees
	AmountMinor int64 // paise, as sent to the gateway
	Currency    string
	Receipt     string
	Status      PaymentOrderStatus
	PaymentID   *string
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// ToMinorUnits converts whole rupees to paise
func ToMinorUnits(amount int64) int64 {
	return amount * 100
}
