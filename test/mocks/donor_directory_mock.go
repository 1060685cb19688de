package mocks

import (
	"context"
	"sync"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

// MockDonorDirectory implements ports.DonorDirectory over a seeded slice of
// donor candidates, applying the same availability/type/exclusion filters as
// the SQL adapter.
type MockDonorDirectory struct {
	mu     sync.Mutex
	donors []domain.DonorCandidate

	// Call tracking for verification
	FindAvailableCalls [][]domain.BloodType
	FindByUserIDCalls  []string

	// Error injection simulates an unreachable donor store
	FindAvailableError error
	FindByUserIDError  error
}

var _ ports.DonorDirectory = (*MockDonorDirectory)(nil)

func NewMockDonorDirectory() *MockDonorDirectory {
	return &MockDonorDirectory{}
}

// SeedDonor adds a donor record for test setup.
func (m *MockDonorDirectory) SeedDonor(donor domain.DonorCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donors = append(m.donors, donor)
}

func (m *MockDonorDirectory) FindAvailable(ctx context.Context, types []domain.BloodType, excludeUserID string) ([]domain.DonorCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindAvailableCalls = append(m.FindAvailableCalls, types)
	if m.FindAvailableError != nil {
		return nil, m.FindAvailableError
	}

	inTypes := func(bt domain.BloodType) bool {
		for _, t := range types {
			if t == bt {
				return true
			}
		}
		return false
	}

	var out []domain.DonorCandidate
	for _, donor := range m.donors {
		if !donor.Available || donor.UserID == excludeUserID || !inTypes(donor.BloodGroup) {
			continue
		}
		out = append(out, donor)
	}
	return out, nil
}

func (m *MockDonorDirectory) FindByUserID(ctx context.Context, userID string) (*domain.DonorCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByUserIDCalls = append(m.FindByUserIDCalls, userID)
	if m.FindByUserIDError != nil {
		return nil, m.FindByUserIDError
	}

	for _, donor := range m.donors {
		if donor.UserID == userID {
			clone := donor
			return &clone, nil
		}
	}
	return nil, domain.ErrNoDonorProfile
}
