package domain

// Default configuration values
const (
	DefaultTaxRate         = 0.18
	DefaultAdvancePercent  = 10
	DefaultCurrency        = "INR"
	DefaultOTPCooldownSecs = 60
	DefaultOTPTTLSecs      = 300
	DefaultOTPMaxAttempts  = 5
	OTPCodeLength          = 6
	MobileDigits           = 10
)

// Business validation constants
const (
	MinAdvancePercent  = 0
	MaxAdvancePercent  = 100
	MaxCustomerNameLen = 200
	MaxEventTypeLen    = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// PaymentOption выбор клиента на шаге оформления
type PaymentOption string

const (
	PaymentOptionWithPayment    PaymentOption = "with_payment"
	PaymentOptionWithoutPayment PaymentOption = "without_payment"
)

// Valid reports whether the option is one of the known values
func (o PaymentOption) Valid() bool {
	return o == PaymentOptionWithPayment || o == PaymentOptionWithoutPayment
}
