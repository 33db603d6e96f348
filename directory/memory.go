package directory

import (
	"context"
	"sync"
)

// Memory is an in-process directory. IDs start at 1 like a serial column.
type Memory struct {
	mu      sync.RWMutex
	byEmail map[string]User
	nextID  int64
}

// NewMemory returns an empty Memory directory.
func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]User), nextID: 1}
}

// FindByEmail returns the user stored under email.
func (m *Memory) FindByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// Create inserts a user, failing with ErrDuplicateEmail if the email is taken.
func (m *Memory) Create(_ context.Context, in NewUser) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[in.Email]; ok {
		return User{}, ErrDuplicateEmail
	}
	u := User{
		ID:           m.nextID,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Name:         in.Name,
		PersonalInfo: in.PersonalInfo,
	}
	m.byEmail[in.Email] = u
	m.nextID++
	return u, nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }
