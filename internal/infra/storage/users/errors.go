package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("users.repository: user not found")

	// ErrDuplicateID возвращается при попытке добавить пользователя с занятым ID
	ErrDuplicateID = errors.New("users.repository: duplicate user id")

	// ErrInvalidUser возвращается при попытке сохранить некорректного пользователя
	ErrInvalidUser = errors.New("users.repository: invalid user")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("users.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("users.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("users.repository: failed to scan row")
)
