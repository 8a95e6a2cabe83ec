package booking_flow

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrRequestInFlight возвращается, пока выполняется предыдущий запрос этого сценария
	ErrRequestInFlight = errors.New("booking_flow: request already in flight")

	// ErrWrongStep возвращается, когда действие недоступно на текущем шаге
	ErrWrongStep = errors.New("booking_flow: action not allowed at current step")

	// ErrVerificationRequired возвращается при попытке перейти к оплате без подтверждения email и телефона
	ErrVerificationRequired = errors.New("booking_flow: email and mobile must be verified")

	// ErrPaymentInitiationFailed возвращается, когда бронирование создано, а заказ в шлюзе нет.
	// Бронирование остается pending/pending
	ErrPaymentInitiationFailed = errors.New("booking_flow: payment initiation failed")

	// ErrVerificationFailed возвращается, когда платеж не прошел проверку подписи или привязки
	ErrVerificationFailed = errors.New("booking_flow: payment verification failed")

	// ErrFlowNotFound возвращается реестром для неизвестного или истекшего сценария
	ErrFlowNotFound = errors.New("booking_flow: flow not found")
)

// ValidationError ошибки полей текущего шага
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "booking_flow: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// BookingCreationError сервер отклонил создание бронирования; Message показывается пользователю как есть
type BookingCreationError struct {
	Message string
	Err     error
}

func (e *BookingCreationError) Error() string {
	return fmt.Sprintf("booking_flow: booking creation failed: %v", e.Err)
}

func (e *BookingCreationError) Unwrap() error {
	return e.Err
}

func wrongStep(step Step, action string) error {
	return fmt.Errorf("%w: cannot %s at step %s", ErrWrongStep, action, step)
}
