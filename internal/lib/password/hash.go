// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Hash создаёт bcrypt-хеш пароля со случайной солью для хранения.
// Verify сравнивает пароль с сохранённым хешем и никогда не возвращает ошибку:
// любой некорректный хеш считается несовпадением.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher хеширует пароли bcrypt с заданной стоимостью.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher. Стоимость вне [bcrypt.MinCost, bcrypt.MaxCost]
// заменяется на bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash принимает пароль пользователя и возвращает его bcrypt‑хэш.
// Два вызова с одним паролем дают разные хэши за счёт новой соли.
func (h *Hasher) Hash(plain string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword(prepare(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify возвращает true, только если plain соответствует digest.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prepare(plain)) == nil
}

// prepare сворачивает любой пароль в hex sha256 (64 байта), чтобы байты после
// 72-го тоже влияли на хэш. Свёртка одна для всех длин.
func prepare(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(hex.EncodeToString(sum[:]))
}
