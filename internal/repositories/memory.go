package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
)

// MemorySessionStore keeps the session for the life of the process.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *models.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load(ctx context.Context) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, shared.ErrNoSession
	}
	s := *m.session
	return &s, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, session *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("%w: session is nil", shared.ErrInvalidInput)
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := *session
	m.session = &s
	return nil
}

func (m *MemorySessionStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
