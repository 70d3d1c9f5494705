package facilities

import "errors"

var (
	// ErrFacilityNotFound возвращается, когда помещение не найдено
	ErrFacilityNotFound = errors.New("facility not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateID возвращается при попытке добавить помещение с занятым ID
	ErrDuplicateID = errors.New("facility id already exists")

	// ErrAccessDenied возвращается, когда операция требует прав администратора
	ErrAccessDenied = errors.New("access denied")

	// ErrHasActiveBookings возвращается при попытке удалить помещение
	// с активными бронями
	ErrHasActiveBookings = errors.New("facility has active bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
