package otp

import "errors"

var (
	// ErrChallengeNotFound возвращается, когда активного кода нет (не отправлялся, истек или использован)
	ErrChallengeNotFound = errors.New("otp.storage: challenge not found")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("otp.storage: store error")
)
