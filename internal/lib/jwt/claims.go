package jwt

import "github.com/golang-jwt/jwt/v5"

// TokenTypeAccess - единственный тип токена, который выпускает сервис.
const TokenTypeAccess = "access"

// Claims описывает данные, хранящиеся в JWT.
// Subject (sub) - идентификатор пользователя.
type Claims struct {
	Email                string `json:"email"` // Email пользователя
	Type                 string `json:"type"`  // Тип токена, всегда "access"
	jwt.RegisteredClaims        // Стандартные claims (sub, iat, exp)
}

// UserID возвращает идентификатор пользователя из sub.
func (c *Claims) UserID() string {
	return c.Subject
}
