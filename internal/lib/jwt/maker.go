// Package jwt реализует выпуск и проверку подписанных access-токенов.
//
// Maker выпускает токен с идентификатором и email пользователя и проверяет его.
// Проверка намеренно не различает причины отказа для вызывающего кода:
// просроченный, поддельный, подписанный чужим ключом или неполный токен
// одинаково считаются невалидными. Причина пишется только в лог.
package jwt

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
)

var (
	// ErrUnsupportedAlgorithm возвращается для алгоритма подписи, отличного от HS256/HS384/HS512.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	// ErrInvalidTTL возвращается, если время жизни токена меньше секунды.
	ErrInvalidTTL = errors.New("token ttl must be at least one second")
	// ErrEmptySecret возвращается при пустом секретном ключе.
	ErrEmptySecret = errors.New("secret key is empty")
)

// Token - выпущенный токен и момент его истечения.
type Token struct {
	Value     string
	ExpiresAt time.Time
	ExpiresIn int64 // Время жизни в секундах
}

// Maker описывает интерфейс для выпуска и проверки токенов.
type Maker interface {
	// Issue выпускает токен со временем жизни по умолчанию.
	Issue(userID, email string) (Token, error)
	// IssueWithTTL выпускает токен с заданным временем жизни.
	IssueWithTTL(userID, email string, ttl time.Duration) (Token, error)
	// Verify возвращает claims валидного токена или false.
	Verify(tokenStr string) (*Claims, bool)
	// TTL возвращает время жизни токена по умолчанию.
	TTL() time.Duration
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// MakerImpl реализует Maker на симметричном HMAC-ключе.
type MakerImpl struct {
	secretKey []byte
	method    jwt.SigningMethod
	tokenTTL  time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Секрет и алгоритм приходят из конфигурации.
func NewJWTMaker(secretKey, algorithm string, ttl time.Duration, log *slog.Logger, opts ...Option) (*MakerImpl, error) {
	const op = "jwt.NewJWTMaker"
	if secretKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}
	method, err := signingMethod(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ttl < time.Second {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTTL)
	}

	m := &MakerImpl{
		secretKey: []byte(secretKey),
		method:    method,
		tokenTTL:  ttl,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func signingMethod(algorithm string) (jwt.SigningMethod, error) {
	switch algorithm {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

// TTL возвращает время жизни токена по умолчанию.
func (m *MakerImpl) TTL() time.Duration {
	return m.tokenTTL
}

// Issue выпускает access-токен со временем жизни по умолчанию.
func (m *MakerImpl) Issue(userID, email string) (Token, error) {
	return m.IssueWithTTL(userID, email, m.tokenTTL)
}

// IssueWithTTL выпускает access-токен: sub, email, iat = сейчас, exp = сейчас + ttl.
func (m *MakerImpl) IssueWithTTL(userID, email string, ttl time.Duration) (Token, error) {
	const op = "jwt.IssueWithTTL"
	if userID == "" {
		return Token{}, fmt.Errorf("%s: empty user id", op)
	}
	if ttl < time.Second {
		return Token{}, fmt.Errorf("%s: %w", op, ErrInvalidTTL)
	}

	// NumericDate хранит секунды, поэтому время обрезается заранее
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl.Truncate(time.Second))

	claims := Claims{
		Email: email,
		Type:  TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secretKey)
	if err != nil {
		return Token{}, fmt.Errorf("%s: %w", op, err)
	}

	m.log.Debug("issued access token", slog.String("user_id", userID))
	return Token{
		Value:     signed,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(expiresAt.Sub(issuedAt) / time.Second),
	}, nil
}

// Verify проверяет подпись, алгоритм, срок действия и наличие sub.
// Любая проблема даёт (nil, false); причина пишется в лог.
func (m *MakerImpl) Verify(tokenStr string) (*Claims, bool) {
	const op = "jwt.Verify"
	log := m.log.With(sl.Op(op))

	if tokenStr == "" {
		log.Warn("token verification failed: empty token")
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(_ *jwt.Token) (any, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		log.Warn("token verification failed", sl.Err(err))
		return nil, false
	}
	if !token.Valid {
		log.Warn("token verification failed: token is not valid")
		return nil, false
	}
	if claims.Subject == "" {
		log.Warn("token verification failed: missing subject")
		return nil, false
	}
	if claims.Type != TokenTypeAccess {
		log.Warn("token verification failed: unexpected token type", slog.String("type", claims.Type))
		return nil, false
	}
	return claims, true
}
