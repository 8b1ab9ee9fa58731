// Package storage описывает ошибки хранилища учётных записей,
// общие для всех его реализаций.
package storage

import "errors"

var (
	// ErrUserExists - пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound - пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)
