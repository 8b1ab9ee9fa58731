// Package auth содержит регистрацию, вход и проверку токенов пользователей.
//
// Причины отказа при входе и при проверке токена не различаются для вызывающего
// кода: наружу уходит одна ошибка, конкретная причина пишется в лог и метрики.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/cafe-finder/internal/lib/jwt"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/metrics"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/storage"
)

var (
	// ErrEmailTaken - email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials - неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated - токен отсутствует или не принят.
	ErrUnauthenticated = errors.New("could not validate credentials")
)

// Причины отказа для метрик.
const (
	reasonUnknownEmail   = "unknown_email"
	reasonWrongPassword  = "wrong_password"
	reasonInactive       = "inactive"
	reasonInvalidToken   = "invalid_token"
	reasonUnknownSubject = "unknown_subject"
)

// UserStore описывает хранилище пользователей.
type UserStore interface {
	// Create сохраняет пользователя; при повторном email возвращает storage.ErrUserExists.
	Create(ctx context.Context, email, passwordHash string) (*models.Identity, error)
	// FindByEmail возвращает пользователя или storage.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	// FindByID возвращает пользователя или storage.ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*models.Identity, error)
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// Service отвечает за регистрацию, вход и проверку токенов.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens jwt.Maker
	log    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService создаёт сервис аутентификации.
func NewService(users UserStore, hasher PasswordHasher, tokens jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

// Register создаёт пользователя с нормализованным email.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (*models.Identity, error) {
	const op = "auth.Service.Register"
	log := s.log.With(sl.Op(op))

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	identity, err := s.users.Create(ctx, models.NormalizeEmail(email), hashed)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("registration with taken email rejected")
			return nil, fmt.Errorf("%s: %w: %w", op, ErrEmailTaken, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", identity.ID))
	return identity, nil
}

// Login проверяет пароль и выпускает access-токен. Неизвестный email,
// неактивная учётная запись и неверный пароль дают одну ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (jwt.Token, error) {
	const op = "auth.Service.Login"
	log := s.log.With(sl.Op(op))

	identity, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return jwt.Token{}, fmt.Errorf("%s: %w", op, err)
		}
		// выравниваем время ответа с веткой проверки пароля
		s.hasher.Verify(rawPassword, s.dummy())
		return jwt.Token{}, s.reject(log, reasonUnknownEmail, ErrInvalidCredentials)
	}

	passwordOK := s.hasher.Verify(rawPassword, identity.PasswordHash)
	if !identity.IsActive {
		return jwt.Token{}, s.reject(log, reasonInactive, ErrInvalidCredentials)
	}
	if !passwordOK {
		return jwt.Token{}, s.reject(log, reasonWrongPassword, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(identity.ID, identity.Email)
	if err != nil {
		return jwt.Token{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("user logged in", slog.String("user_id", identity.ID))
	return token, nil
}

// Authenticate проверяет токен и возвращает активного пользователя.
// Любая причина отказа даёт ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	const op = "auth.Service.Authenticate"
	log := s.log.With(sl.Op(op))

	claims, ok := s.tokens.Verify(token)
	if !ok {
		return nil, s.reject(log, reasonInvalidToken, ErrUnauthenticated)
	}

	identity, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, s.reject(log.With(slog.String("user_id", claims.UserID())), reasonUnknownSubject, ErrUnauthenticated)
	}
	if !identity.IsActive {
		return nil, s.reject(log.With(slog.String("user_id", identity.ID)), reasonInactive, ErrUnauthenticated)
	}
	return identity, nil
}

func (s *Service) reject(log *slog.Logger, reason string, err error) error {
	metrics.RecordAuthFailure(reason)
	log.Warn("authentication rejected", slog.String("reason", reason))
	return err
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("timing-equalization-placeholder")
		if err != nil {
			s.log.Error("failed to prepare dummy hash", sl.Err(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
