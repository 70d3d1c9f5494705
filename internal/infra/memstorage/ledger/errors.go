package ledger

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("ledger.memstorage: booking not found")

	// ErrInvalidBooking возвращается при попытке сохранить некорректную бронь
	ErrInvalidBooking = errors.New("ledger.memstorage: invalid booking")
)
