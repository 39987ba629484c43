package memory

import (
	"context"
	"sync"

	"news_portal/internal/domain"
)

type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return &domain.ValidationError{Fields: []string{"email"}, Reason: "already registered"}
	}
	s.byEmail[user.Email] = *user
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "user", ID: email}
	}
	return &u, nil
}
