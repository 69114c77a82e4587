// Package memory is an in-process implementation of the passcode store.
// It backs tests and single-node deployments without Postgres.
package memory

import (
	"context"
	"sync"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
)

type activeKey struct {
	userID  int64
	method  entity.Method
	purpose entity.Purpose
}

type Store struct {
	mu     sync.RWMutex
	byID   map[int64]*entity.Passcode
	active map[activeKey]int64
	users  map[int64]entity.UserContactInfo
}

func NewStore() *Store {
	return &Store{
		byID:   make(map[int64]*entity.Passcode),
		active: make(map[activeKey]int64),
		users:  make(map[int64]entity.UserContactInfo),
	}
}

// SeedUser registers a user so lookups succeed. Intended for tests and
// bootstrap fixtures.
func (s *Store) SeedUser(u entity.UserContactInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
}

func (s *Store) GetUserContactInfo(_ context.Context, id int64) (*entity.UserContactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &u, nil
}

func (s *Store) GetActivePasscode(_ context.Context, userID int64, m entity.Method, p entity.Purpose) (*entity.Passcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.active[activeKey{userID: userID, method: m, purpose: p}]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	pc := *s.byID[id]
	return &pc, nil
}

func (s *Store) CreatePasscode(_ context.Context, data entity.NewPasscode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := activeKey{userID: data.UserID, method: data.Method, purpose: data.Purpose}
	if _, exists := s.active[key]; exists {
		return goerror.ErrConflict
	}

	if _, exists := s.byID[data.ID]; exists {
		return goerror.ErrConflict
	}

	s.byID[data.ID] = &entity.Passcode{
		ID:        data.ID,
		UserID:    data.UserID,
		Counter:   data.Counter,
		ExpiresAt: data.ExpiresAt,
		Method:    data.Method,
		Purpose:   data.Purpose,
		Status:    entity.StatusActive,
		Metadata:  data.Metadata,
	}
	s.active[key] = data.ID

	return nil
}

func (s *Store) UpdatePasscodeStatus(_ context.Context, id int64, from, to entity.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc, ok := s.byID[id]
	if !ok || pc.Status != from {
		return false, nil
	}

	pc.Status = to
	if from == entity.StatusActive && to != entity.StatusActive {
		delete(s.active, activeKey{userID: pc.UserID, method: pc.Method, purpose: pc.Purpose})
	}

	return true, nil
}
