package models

import (
	"strings"
	"time"
)

// Identity представляет зарегистрированного пользователя сервиса.
type Identity struct {
	ID           string    // Уникальный идентификатор (UUID)
	Email        string    // Нормализованная (lower-case) электронная почта, уникальна
	PasswordHash string    // bcrypt-хэш пароля
	IsActive     bool      // Признак активной учётной записи
	CreatedAt    time.Time // Время регистрации (UTC)
}

// PublicIdentity - поля учётной записи, которые можно отдавать клиенту.
type PublicIdentity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Public возвращает публичное представление учётной записи.
func (i *Identity) Public() PublicIdentity {
	return PublicIdentity{
		ID:       i.ID,
		Email:    i.Email,
		IsActive: i.IsActive,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится и сравнивается.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
