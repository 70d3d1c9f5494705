package facility

import "errors"

var (
	// ErrFacilityNotFound возвращается, когда помещение не найдено
	ErrFacilityNotFound = errors.New("facility.memstorage: facility not found")

	// ErrDuplicateID возвращается при попытке добавить помещение с занятым ID
	ErrDuplicateID = errors.New("facility.memstorage: duplicate facility id")

	// ErrInvalidFacility возвращается при попытке сохранить некорректное помещение
	ErrInvalidFacility = errors.New("facility.memstorage: invalid facility")
)
