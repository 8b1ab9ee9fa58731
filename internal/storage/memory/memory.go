// Package memory реализует хранилище учётных записей в памяти процесса.
//
// Storage создаётся один раз при старте приложения и передаётся потребителям
// по указателю. Индексы id→Identity и email→id защищены одним мьютексом,
// поэтому проверка уникальности email и вставка атомарны.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/storage"
)

// Storage - потокобезопасное хранилище учётных записей.
type Storage struct {
	mu      sync.RWMutex
	users   map[string]*models.Identity // id -> учётная запись
	byEmail map[string]string           // нормализованный email -> id
	now     func() time.Time
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:   make(map[string]*models.Identity),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

// Create сохраняет нового активного пользователя. Email нормализуется;
// при повторе возвращается storage.ErrUserExists.
func (s *Storage) Create(ctx context.Context, email, passwordHash string) (*models.Identity, error) {
	const op = "storage.memory.Create"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	normalized := models.NormalizeEmail(email)
	identity := &models.Identity{
		ID:           uuid.New().String(),
		Email:        normalized,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[normalized]; exists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}
	s.users[identity.ID] = identity
	s.byEmail[normalized] = identity.ID

	c := *identity
	return &c, nil
}

// FindByEmail возвращает пользователя по email без учёта регистра.
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	const op = "storage.memory.FindByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	c := *s.users[id]
	return &c, nil
}

// FindByID возвращает пользователя по идентификатору.
func (s *Storage) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	const op = "storage.memory.FindByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	c := *u
	return &c, nil
}

// Deactivate снимает признак активности учётной записи.
func (s *Storage) Deactivate(ctx context.Context, id string) error {
	const op = "storage.memory.Deactivate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	u.IsActive = false
	return nil
}
