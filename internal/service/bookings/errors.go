package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyTerminal возвращается при попытке отменить завершённую
	// или уже отменённую бронь
	ErrAlreadyTerminal = errors.New("booking is already cancelled or completed")

	// ErrCancellationTooLate возвращается, когда до начала брони осталось
	// меньше минимального срока отмены
	ErrCancellationTooLate = errors.New("cancellation window has passed")

	// ErrInvalidStatus возвращается при некорректном статусе в фильтре
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
