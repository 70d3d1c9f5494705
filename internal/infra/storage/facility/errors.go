package facility

import "errors"

var (
	// ErrFacilityNotFound возвращается, когда помещение не найдено
	ErrFacilityNotFound = errors.New("facility.repository: facility not found")

	// ErrDuplicateID возвращается при попытке добавить помещение с занятым ID
	ErrDuplicateID = errors.New("facility.repository: duplicate facility id")

	// ErrInvalidFacility возвращается при попытке сохранить некорректное помещение
	ErrInvalidFacility = errors.New("facility.repository: invalid facility")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("facility.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("facility.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("facility.repository: failed to scan row")
)
