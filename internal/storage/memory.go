package storage

import (
	"context"
	"sync"

	"github.com/yourusername/tdv-tracker/internal/models"
)

// MemoryStore is an in-process Store used by tests and local experiments.
// Errors can be injected to exercise the soft-fail read and hard-fail write
// paths.
type MemoryStore struct {
	mu       sync.Mutex
	data     *models.SortiesData
	ReadErr  error
	WriteErr error
}

// NewMemoryStore creates a memory store holding the given record.
func NewMemoryStore(data *models.SortiesData) *MemoryStore {
	return &MemoryStore{data: data}
}

// Read returns a deep copy of the held record.
func (s *MemoryStore) Read(ctx context.Context) (*models.SortiesData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return s.data.Clone(), nil
}

// Write replaces the held record with a deep copy.
func (s *MemoryStore) Write(ctx context.Context, data *models.SortiesData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data = data.Clone()
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
