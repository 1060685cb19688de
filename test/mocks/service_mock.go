package mocks

import (
	"context"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

// MockRequestService implements ports.RequestService for handler tests.
type MockRequestService struct {
	CreateFunc     func(ctx context.Context, in domain.NewRequestInput, requesterID string) (*domain.Request, int, error)
	GetFunc        func(ctx context.Context, id string) (*domain.Request, error)
	ListFunc       func(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error)
	TransitionFunc func(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error)
	DeleteFunc     func(ctx context.Context, id, callerID string) error
}

var _ ports.RequestService = (*MockRequestService)(nil)

func (m *MockRequestService) CreateRequest(ctx context.Context, in domain.NewRequestInput, requesterID string) (*domain.Request, int, error) {
	return m.CreateFunc(ctx, in, requesterID)
}

func (m *MockRequestService) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockRequestService) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	return m.ListFunc(ctx, filter)
}

func (m *MockRequestService) Transition(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error) {
	return m.TransitionFunc(ctx, id, target, callerID)
}

func (m *MockRequestService) DeleteRequest(ctx context.Context, id, callerID string) error {
	return m.DeleteFunc(ctx, id, callerID)
}
