package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("users.memstorage: user not found")

	// ErrDuplicateID возвращается при попытке добавить пользователя с занятым ID
	ErrDuplicateID = errors.New("users.memstorage: duplicate user id")

	// ErrInvalidUser возвращается при попытке сохранить некорректного пользователя
	ErrInvalidUser = errors.New("users.memstorage: invalid user")
)
