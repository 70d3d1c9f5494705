package extend_booking

import "errors"

// Причины отказа политики продления пробрасываются как есть из пакета policy.
var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("extend_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("extend_booking: booking not found")

	// ErrNotOwner возвращается, когда бронь принадлежит другому пользователю
	ErrNotOwner = errors.New("extend_booking: booking belongs to another user")

	// ErrNotActive возвращается при попытке продлить завершённую или отменённую бронь
	ErrNotActive = errors.New("extend_booking: booking is not active")

	// ErrInternal возвращается при внутренних ошибках use case
	ErrInternal = errors.New("extend_booking: internal error")
)
