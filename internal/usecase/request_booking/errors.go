package request_booking

import "errors"

// Причины отказа политики пробрасываются как есть из пакета policy;
// здесь только ошибки самого use case.
var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_booking: invalid input data")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("request_booking: user not found")

	// ErrFacilityNotFound возвращается, когда помещение не найдено
	ErrFacilityNotFound = errors.New("request_booking: facility not found")

	// ErrInternal возвращается при внутренних ошибках use case
	ErrInternal = errors.New("request_booking: internal error")
)
