package user

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("user already exists")
	ErrMalformedInput     = errors.New("invalid or empty JSON")
	ErrValidation         = errors.New("missing required field")
)

// MissingFieldError reports the first required credential field that was
// absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "The " + e.Field + " is missing"
}

func (e *MissingFieldError) Unwrap() error {
	return ErrValidation
}

// Repository is the persistence boundary of the credential service. Insert
// must reject a second user whose email matches case-insensitively with
// ErrEmailExists.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	Insert(ctx context.Context, user User) (User, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[int64]User
	byEmail map[string]int64
	nextID  int64
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed ...User) *InMemoryRepository {
	repo := &InMemoryRepository{
		byID:    make(map[int64]User, len(seed)),
		byEmail: make(map[string]int64, len(seed)),
		nextID:  1,
	}

	for _, user := range seed {
		repo.byID[user.ID] = user
		repo.byEmail[strings.ToLower(user.Email)] = user.ID
		if user.ID >= repo.nextID {
			repo.nextID = user.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *InMemoryRepository) FindByID(_ context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) Insert(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return User{}, ErrEmailExists
	}

	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = user
	r.byEmail[key] = user.ID
	return user, nil
}

// Delete removes a user. Signup is the only write path of the service, so
// this exists for operators and tests.
func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, strings.ToLower(user.Email))
	return nil
}

func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
