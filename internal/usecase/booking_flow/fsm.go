package booking_flow

// Step шаг сценария бронирования
type Step string

const (
	StepCustomerDetails Step = "customer_details"
	StepServiceDateTime Step = "service_datetime"
	StepCheckout        Step = "checkout"
	StepVerification    Step = "verification"
	StepConfirm         Step = "confirm"
)

// Event событие, переводящее сценарий между шагами
type Event string

const (
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventBooked Event = "booked"
)

type transitionKey struct {
	from  Step
	event Event
}

// transitions полная таблица переходов; все, чего в ней нет, запрещено.
// Из confirm выхода нет: после создания бронирования вернуться назад нельзя
var transitions = map[transitionKey]Step{
	{StepCustomerDetails, EventNext}: StepServiceDateTime,

	{StepServiceDateTime, EventNext}: StepCheckout,
	{StepServiceDateTime, EventBack}: StepCustomerDetails,

	{StepCheckout, EventNext}:   StepVerification,
	{StepCheckout, EventBooked}: StepConfirm,
	{StepCheckout, EventBack}:   StepServiceDateTime,

	{StepVerification, EventBooked}: StepConfirm,
	{StepVerification, EventBack}:   StepCheckout,
}

// transition возвращает целевой шаг или false, если переход запрещен
func transition(from Step, event Event) (Step, bool) {
	to, ok := transitions[transitionKey{from: from, event: event}]
	return to, ok
}
