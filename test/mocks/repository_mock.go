// Package mocks provides mock implementations of port interfaces for testing.
// The core services depend only on the port interfaces, so these in-memory
// implementations stand in for PostgreSQL, the donor directory and RabbitMQ
// without any infrastructure.
package mocks

import (
	"context"
	"sync"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

// MockRequestRepository implements ports.RequestRepository in memory. Its
// UpdateStatus honours the same compare-and-set contract as the SQL
// implementation, which is what the concurrency tests exercise.
type MockRequestRepository struct {
	mu       sync.Mutex
	requests map[string]*domain.Request

	// Call tracking for verification
	CreateCalls       []string
	UpdateStatusCalls []string
	DeleteCalls       []string

	// Error injection for testing failure scenarios
	CreateError       error
	GetByIDError      error
	ListError         error
	UpdateStatusError error
	DeleteError       error
}

var _ ports.RequestRepository = (*MockRequestRepository)(nil)

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.Request),
	}
}

// Seed adds a request for test setup.
func (m *MockRequestRepository) Seed(req *domain.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *req
	m.requests[req.ID] = &clone
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, req.ID)
	if m.CreateError != nil {
		return m.CreateError
	}

	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (m *MockRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	var out []domain.Request
	for _, req := range m.requests {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && filter.ExcludeCompleted && req.Status == domain.StatusCompleted {
			continue
		}
		if filter.IsEmergency != nil && req.IsEmergency != *filter.IsEmergency {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, donorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, id)
	if m.UpdateStatusError != nil {
		return false, m.UpdateStatusError
	}

	req, ok := m.requests[id]
	if !ok {
		return false, nil
	}
	// Compare-and-set: only commit if the stored status still matches.
	if req.Status != from {
		return false, nil
	}
	req.Status = to
	if donorID != "" {
		req.DonorID = donorID
	}
	return true, nil
}

func (m *MockRequestRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}

	if _, ok := m.requests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.requests, id)
	return nil
}
