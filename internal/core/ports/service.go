package ports

import (
	"context"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
)

// MatchResult is the outcome of a donor search for a request. Degraded marks
// a fail-open result: the directory was unreachable and matching returned
// zero candidates rather than failing request creation.
type MatchResult struct {
	Candidates []domain.DonorCandidate
	Degraded   bool
}

// Matcher finds donors compatible with a request.
type Matcher interface {
	Match(ctx context.Context, req *domain.Request) MatchResult
}

// Dispatcher fans a request out to matched donors. NotifyAll returns once the
// sends have been started; completion is never awaited by the caller.
type Dispatcher interface {
	NotifyAll(candidates []domain.DonorCandidate, req *domain.Request)
}

// RequestService is the orchestrating API exposed to the HTTP edge. Every
// operation takes the authenticated caller identity.
type RequestService interface {
	CreateRequest(ctx context.Context, in domain.NewRequestInput, requesterID string) (*domain.Request, int, error)
	GetRequest(ctx context.Context, id string) (*domain.Request, error)
	ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error)
	Transition(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error)
	DeleteRequest(ctx context.Context, id, callerID string) error
}
