package ports

import (
	"context"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
)

// RequestRepository is the persistence contract for blood requests.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error)
	// UpdateStatus applies a compare-and-set transition: the row is updated to
	// status `to` (and, when donorID is non-empty, assigned that donor) only if
	// its persisted status still equals `from`. It reports whether the update
	// was applied.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, donorID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// DonorDirectory is a read-only view over the externally-owned donor store.
// Implementations surface transport failures as errors; the fail-open policy
// for matching lives in the caller.
type DonorDirectory interface {
	// FindAvailable returns available donors whose blood group is in types,
	// excluding any donor profile belonging to excludeUserID.
	FindAvailable(ctx context.Context, types []domain.BloodType, excludeUserID string) ([]domain.DonorCandidate, error)
	// FindByUserID resolves the donor profile owned by a platform user, or
	// domain.ErrNoDonorProfile if the user is not a registered donor.
	FindByUserID(ctx context.Context, userID string) (*domain.DonorCandidate, error)
}
